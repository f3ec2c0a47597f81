//go:generate go run go.uber.org/mock/mockgen -source=invitation.go -destination=../mocks/mock_invitation_repository.go -package=mocks
package repositories

import (
	apperrors "chat-bridge/errors"
	"encoding/json"
	"errors"
	"fmt"

	"chat-bridge/domain"

	"github.com/dgraph-io/badger/v4"
)

type IInvitationRepository interface {
	Create(inv domain.Invitation) error
	Redeem(code string, joiner domain.Profile) (domain.Invitation, error)
	Get(code string) (domain.Invitation, error)
}

type InvitationRepository struct {
	db *badger.DB
}

func NewInvitationRepository(db *badger.DB) IInvitationRepository {
	return &InvitationRepository{db: db}
}

func invitationKey(code string) []byte {
	return []byte("invitation:" + code)
}

// Create persists a pending invitation. It fails with ErrCodeTaken when the
// code is already in use, so the caller can retry with a fresh one instead of
// silently overwriting a live invitation.
func (r InvitationRepository) Create(inv domain.Invitation) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("marshal invitation: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		key := invitationKey(inv.Code)
		if _, err := txn.Get(key); err == nil {
			return apperrors.ErrCodeTaken
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, data)
	})
}

// Redeem transitions an invitation from pending to accepted exactly once.
// The read, the status check and the write happen in a single Badger
// transaction; under concurrent redemption Badger's SSI aborts every
// transaction but one, and the losers observe the invitation as used.
func (r InvitationRepository) Redeem(code string, joiner domain.Profile) (domain.Invitation, error) {
	var inv domain.Invitation
	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(invitationKey(code))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return apperrors.ErrInvitationNotFound
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &inv)
		}); err != nil {
			return err
		}
		if inv.Status != domain.InvitationPending {
			return apperrors.ErrInvitationUsed
		}
		if joiner.ID == inv.Creator.ID {
			return apperrors.ErrSelfRedemption
		}
		inv.Status = domain.InvitationAccepted
		inv.Joiner = joiner
		data, err := json.Marshal(inv)
		if err != nil {
			return err
		}
		return txn.Set(invitationKey(code), data)
	})
	if errors.Is(err, badger.ErrConflict) {
		// Lost the race against a concurrent redeemer.
		return domain.Invitation{}, apperrors.ErrInvitationUsed
	}
	if err != nil {
		return domain.Invitation{}, err
	}
	return inv, nil
}

func (r InvitationRepository) Get(code string) (domain.Invitation, error) {
	var inv domain.Invitation
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(invitationKey(code))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return apperrors.ErrInvitationNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &inv)
		})
	})
	if err != nil {
		return domain.Invitation{}, err
	}
	return inv, nil
}
