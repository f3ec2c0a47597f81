//go:generate go run go.uber.org/mock/mockgen -source=invitation_service.go -destination=../mocks/mock_invitation_service.go -package=mocks
package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chat-bridge/domain"
	apperrors "chat-bridge/errors"
	"chat-bridge/repositories"

	"github.com/go-playground/validator/v10"
)

// maxCodeAttempts bounds code generation retries on collision before the
// operation is reported as retryable.
const maxCodeAttempts = 5

var validate = validator.New()

type IInvitationService interface {
	Create(creator domain.Profile) (string, error)
	Redeem(code string, joiner domain.Profile) (domain.PartnerLink, error)
	ActiveSession(userID string) (domain.PartnerLink, error)
}

// InvitationService owns the pairing flow: code issuance, exactly-once
// redemption and partner link recovery.
type InvitationService struct {
	invitations repositories.IInvitationRepository
	pairing     repositories.IPairingRepository
	profiles    repositories.IProfileRepository
	log         *slog.Logger
}

func NewInvitationService(invitations repositories.IInvitationRepository,
	pairing repositories.IPairingRepository, profiles repositories.IProfileRepository,
	log *slog.Logger) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		pairing:     pairing,
		profiles:    profiles,
		log:         log,
	}
}

type profileRules struct {
	Name     string `validate:"required"`
	Language string `validate:"required,len=2,alpha"`
}

func validateProfile(p domain.Profile) error {
	err := validate.Struct(profileRules{Name: strings.TrimSpace(p.Name), Language: p.Language})
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		if fields[0].Field() == "Name" {
			return apperrors.ErrEmptyName
		}
		return apperrors.ErrEmptyLanguage
	}
	return err
}

func normalizeProfile(p domain.Profile) domain.Profile {
	p.Name = strings.TrimSpace(p.Name)
	p.Language = strings.ToLower(strings.TrimSpace(p.Language))
	return p
}

// Create stores the creator's profile snapshot and issues a pending
// invitation. Generation retries on code collision instead of overwriting a
// live invitation.
func (s *InvitationService) Create(creator domain.Profile) (string, error) {
	if err := validateProfile(creator); err != nil {
		return "", err
	}
	creator = normalizeProfile(creator)

	if err := s.profiles.Save(creator); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		inv := domain.Invitation{
			Code:      domain.NewCode(),
			Creator:   creator,
			Status:    domain.InvitationPending,
			CreatedAt: time.Now().UTC(),
		}
		err := s.invitations.Create(inv)
		if errors.Is(err, apperrors.ErrCodeTaken) {
			s.log.Debug("Invitation code collision, regenerating", "attempt", attempt+1)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
		}
		s.log.Info("Invitation created", "creator", creator.ID)
		return inv.Code, nil
	}
	return "", apperrors.ErrCodeExhausted
}

// Redeem accepts an invitation exactly once, derives the shared session
// identity and records a partner link for each side.
func (s *InvitationService) Redeem(code string, joiner domain.Profile) (domain.PartnerLink, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !domain.ValidCode(code) {
		return domain.PartnerLink{}, apperrors.ErrMalformedCode
	}
	if err := validateProfile(joiner); err != nil {
		return domain.PartnerLink{}, err
	}
	joiner = normalizeProfile(joiner)

	inv, err := s.invitations.Redeem(code, joiner)
	if err != nil {
		return domain.PartnerLink{}, err
	}

	chatID := domain.DeriveChatID(inv.Creator.ID, joiner.ID)
	if err := s.pairing.SaveLinks(chatID, inv.Creator, joiner); err != nil {
		// The invitation is already accepted; without links neither side can
		// recover the session, so this must surface as retryable.
		return domain.PartnerLink{}, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	if err := s.profiles.Save(joiner); err != nil {
		s.log.Warn("Joiner profile not persisted", "user", joiner.ID, "error", err)
	}

	s.log.Info("Invitation redeemed", "chat", chatID, "joiner", joiner.ID)
	return domain.PartnerLink{
		ChatID:          chatID,
		PartnerID:       inv.Creator.ID,
		PartnerName:     inv.Creator.Name,
		PartnerLanguage: inv.Creator.Language,
	}, nil
}

// ActiveSession is the recovery path for a returning participant who no
// longer holds the invitation code.
func (s *InvitationService) ActiveSession(userID string) (domain.PartnerLink, error) {
	return s.pairing.GetLink(userID)
}
