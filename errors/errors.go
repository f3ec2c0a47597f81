// Package errors declares the sentinel errors of the service and classifies
// them into the machine-readable kinds exposed on the API surface.
package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrEmptyName     = fmt.Errorf("name is empty")
	ErrEmptyLanguage = fmt.Errorf("language is empty")
	ErrEmptyMessage  = fmt.Errorf("message text is empty")
	ErrMalformedCode = fmt.Errorf("malformed invitation code")
	ErrNotPaired     = fmt.Errorf("sender is not a participant of this chat")

	ErrInvitationNotFound = fmt.Errorf("unknown invitation code")
	ErrNoActiveSession    = fmt.Errorf("no active session for user")
	ErrMessageNotFound    = fmt.Errorf("message not found")
	ErrProfileNotFound    = fmt.Errorf("unknown profile")

	ErrInvitationUsed = fmt.Errorf("invitation already accepted")
	ErrSelfRedemption = fmt.Errorf("cannot redeem own invitation")
	ErrCodeTaken      = fmt.Errorf("invitation code already exists")

	ErrCodeExhausted      = fmt.Errorf("could not generate a unique invitation code")
	ErrTranslationFailed  = fmt.Errorf("translation provider failed")
	ErrStorageUnavailable = fmt.Errorf("storage unavailable, retry")

	ErrWorkerPanic = fmt.Errorf("worker panic")
)

// Kind is the stable classification returned to API callers.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindUpstream   Kind = "upstream"
)

// KindOf maps an error to its kind. Unclassified errors are upstream: the
// caller may retry, the user's input must be preserved.
func KindOf(err error) Kind {
	switch {
	case stderrors.Is(err, ErrEmptyName),
		stderrors.Is(err, ErrEmptyLanguage),
		stderrors.Is(err, ErrEmptyMessage),
		stderrors.Is(err, ErrMalformedCode),
		stderrors.Is(err, ErrNotPaired):
		return KindValidation
	case stderrors.Is(err, ErrInvitationNotFound),
		stderrors.Is(err, ErrNoActiveSession),
		stderrors.Is(err, ErrMessageNotFound),
		stderrors.Is(err, ErrProfileNotFound):
		return KindNotFound
	case stderrors.Is(err, ErrInvitationUsed),
		stderrors.Is(err, ErrSelfRedemption),
		stderrors.Is(err, ErrCodeTaken):
		return KindConflict
	default:
		return KindUpstream
	}
}
