//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	apperrors "chat-bridge/errors"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"chat-bridge/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// maxTxnRetries bounds how often a conflicting transaction is replayed before
// the error is surfaced as retryable to the caller.
const maxTxnRetries = 3

type IMessageRepository interface {
	Append(msg domain.Message) (domain.Message, error)
	SetTranslation(chatID domain.ChatID, messageID uuid.UUID, translated string) (domain.Message, error)
	List(ctx context.Context, chatID domain.ChatID) ([]domain.Message, error)
}

type MessageRepository struct {
	db    *badger.DB
	log   *slog.Logger
	limit *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limit *int) MessageRepository {
	return MessageRepository{db: db, log: log, limit: limit}
}

// diskMessage is the stored shape of a message. ChatID is carried by the key.
type diskMessage struct {
	ID             uuid.UUID `json:"id"`
	SenderID       string    `json:"sender_id"`
	OriginalText   string    `json:"original_text"`
	TranslatedText string    `json:"translated_text,omitempty"`
	At             int64     `json:"at"`
}

// msgKey formats "msg:{chat_id}:{timestamp_padded}:{uuid}" so that:
//  1. a prefix scan returns messages in chronological order thanks to the
//     19-digit zero padding (lexicographical order), and
//  2. the UUID disambiguates two messages landing on the same nanosecond.
func msgKey(chatID domain.ChatID, at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", chatID, at.UnixNano(), id))
}

func msgPrefix(chatID domain.ChatID) []byte {
	return []byte(fmt.Sprintf("msg:%s:", chatID))
}

// Append assigns the id and timestamp, persists the message, and evicts the
// oldest entries once the log exceeds its capacity. Eviction and insert share
// one transaction; a conflicting concurrent append is replayed so both sends
// are retained.
func (m MessageRepository) Append(msg domain.Message) (domain.Message, error) {
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(fromMessage(msg))
	if err != nil {
		return domain.Message{}, fmt.Errorf("marshal message: %w", err)
	}
	key := msgKey(msg.ChatID, msg.CreatedAt, msg.ID)

	for attempt := 0; ; attempt++ {
		err = m.db.Update(func(txn *badger.Txn) error {
			if err := m.evictOldest(txn, msg.ChatID); err != nil {
				return err
			}
			return txn.Set(key, data)
		})
		if !errors.Is(err, badger.ErrConflict) || attempt >= maxTxnRetries {
			break
		}
		m.log.Debug("Append conflicted, retrying", "chat", msg.ChatID, "attempt", attempt+1)
	}
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	return msg, nil
}

// evictOldest drops entries from the front so that after the pending insert
// the log holds at most limit messages. Existing entries are never reordered.
func (m MessageRepository) evictOldest(txn *badger.Txn, chatID domain.ChatID) error {
	if m.limit == nil {
		return nil
	}
	prefix := msgPrefix(chatID)
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	if len(keys) < *m.limit {
		return nil
	}
	excess := len(keys) - *m.limit + 1
	m.log.Debug("Evicting oldest messages", "chat", chatID, "count", excess)
	for _, key := range keys[:excess] {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// SetTranslation overwrites the translated text of a stored message in place.
// It is idempotent per (messageID, translated): re-invocation rewrites the
// same field instead of accumulating state. An evicted message yields
// ErrMessageNotFound, which callers absorb.
func (m MessageRepository) SetTranslation(chatID domain.ChatID, messageID uuid.UUID, translated string) (domain.Message, error) {
	var updated domain.Message

	var err error
	for attempt := 0; ; attempt++ {
		err = m.db.Update(func(txn *badger.Txn) error {
			prefix := msgPrefix(chatID)
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				item := it.Item()
				var disk diskMessage
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &disk)
				}); err != nil {
					return err
				}
				if disk.ID != messageID {
					continue
				}
				disk.TranslatedText = translated
				data, err := json.Marshal(disk)
				if err != nil {
					return err
				}
				updated = toMessage(chatID, disk)
				return txn.Set(item.KeyCopy(nil), data)
			}
			return apperrors.ErrMessageNotFound
		})
		if !errors.Is(err, badger.ErrConflict) || attempt >= maxTxnRetries {
			break
		}
	}
	if err != nil {
		return domain.Message{}, err
	}
	return updated, nil
}

// List returns the session's log ascending by creation time. The scan is
// side-effect free and safe to call repeatedly; the padded timestamp in the
// key makes the natural iteration order the chronological one.
func (m MessageRepository) List(ctx context.Context, chatID domain.ChatID) ([]domain.Message, error) {
	var disks []diskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := msgPrefix(chatID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var disk diskMessage
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &disk)
			}); err != nil {
				return err
			}
			disks = append(disks, disk)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(disks, func(d diskMessage, _ int) domain.Message {
		return toMessage(chatID, d)
	}), nil
}

func fromMessage(msg domain.Message) diskMessage {
	return diskMessage{
		ID:             msg.ID,
		SenderID:       msg.SenderID,
		OriginalText:   msg.OriginalText,
		TranslatedText: msg.TranslatedText,
		At:             msg.CreatedAt.UnixNano(),
	}
}

func toMessage(chatID domain.ChatID, d diskMessage) domain.Message {
	return domain.Message{
		ID:             d.ID,
		ChatID:         chatID,
		SenderID:       d.SenderID,
		OriginalText:   d.OriginalText,
		TranslatedText: d.TranslatedText,
		CreatedAt:      time.Unix(0, d.At).UTC(),
	}
}
