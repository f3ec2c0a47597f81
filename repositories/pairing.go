//go:generate go run go.uber.org/mock/mockgen -source=pairing.go -destination=../mocks/mock_pairing_repository.go -package=mocks
package repositories

import (
	apperrors "chat-bridge/errors"
	"encoding/json"
	"errors"
	"fmt"

	"chat-bridge/domain"

	"github.com/dgraph-io/badger/v4"
)

type IPairingRepository interface {
	SaveLinks(chatID domain.ChatID, a, b domain.Profile) error
	GetLink(userID string) (domain.PartnerLink, error)
}

// PairingRepository stores one PartnerLink per participant under
// "user-chat:<userId>", the sole recovery path once a client loses its local
// session state.
type PairingRepository struct {
	db *badger.DB
}

func NewPairingRepository(db *badger.DB) IPairingRepository {
	return &PairingRepository{db: db}
}

func linkKey(userID string) []byte {
	return []byte("user-chat:" + userID)
}

// SaveLinks writes both sides of the pairing in one transaction, each link
// pointing at the shared chat and the other participant's public profile.
func (r PairingRepository) SaveLinks(chatID domain.ChatID, a, b domain.Profile) error {
	return r.db.Update(func(txn *badger.Txn) error {
		for _, pair := range []struct {
			owner   string
			partner domain.Profile
		}{
			{owner: a.ID, partner: b},
			{owner: b.ID, partner: a},
		} {
			link := domain.PartnerLink{
				ChatID:          chatID,
				PartnerID:       pair.partner.ID,
				PartnerName:     pair.partner.Name,
				PartnerLanguage: pair.partner.Language,
			}
			data, err := json.Marshal(link)
			if err != nil {
				return fmt.Errorf("marshal link: %w", err)
			}
			if err := txn.Set(linkKey(pair.owner), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r PairingRepository) GetLink(userID string) (domain.PartnerLink, error) {
	var link domain.PartnerLink
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(linkKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return apperrors.ErrNoActiveSession
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &link)
		})
	})
	if err != nil {
		return domain.PartnerLink{}, err
	}
	return link, nil
}
