//go:generate go run go.uber.org/mock/mockgen -source=profile.go -destination=../mocks/mock_profile_repository.go -package=mocks
package repositories

import (
	apperrors "chat-bridge/errors"
	"encoding/json"
	"errors"
	"fmt"

	"chat-bridge/domain"

	"github.com/dgraph-io/badger/v4"
)

type IProfileRepository interface {
	Save(p domain.Profile) error
	Get(userID string) (domain.Profile, error)
}

// ProfileRepository keeps the last declared name and language per user.
// Profiles are persisted before pairing so a later redemption always finds
// fresh creator data.
type ProfileRepository struct {
	db *badger.DB
}

func NewProfileRepository(db *badger.DB) IProfileRepository {
	return &ProfileRepository{db: db}
}

func profileKey(userID string) []byte {
	return []byte("profile:" + userID)
}

func (r ProfileRepository) Save(p domain.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(p.ID), data)
	})
}

func (r ProfileRepository) Get(userID string) (domain.Profile, error) {
	var p domain.Profile
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return apperrors.ErrProfileNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}
