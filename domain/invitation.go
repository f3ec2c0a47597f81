package domain

import (
	"crypto/rand"
	"regexp"
	"time"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
)

// CodeLength is the length of a human-shareable invitation code.
const CodeLength = 6

// codeCharset excludes nothing: codes are upper-case alphanumeric so they can
// be read over the phone and typed on any keyboard.
const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// Invitation pairs two anonymous participants. It is created pending by the
// creator and transitions to accepted exactly once, when a joiner redeems it.
// The creator and joiner profiles are denormalized so the pairing survives
// profile changes.
type Invitation struct {
	Code      string           `json:"code"`
	Creator   Profile          `json:"creator"`
	Joiner    Profile          `json:"joiner,omitzero"`
	Status    InvitationStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewCode returns a random invitation code. Uniqueness is not guaranteed here;
// the caller must retry on storage collision.
func NewCode() string {
	buf := make([]byte, CodeLength)
	// crypto/rand.Read never fails on supported platforms
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return string(buf)
}

// ValidCode reports whether s is a well-formed invitation code.
func ValidCode(s string) bool {
	return codePattern.MatchString(s)
}
