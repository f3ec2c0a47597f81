package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"chat-bridge/domain"
	apperrors "chat-bridge/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

const testChat = domain.ChatID("alice:bob")

func Test_MessageRepository_AppendAndList(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(testDB(t), slog.Default(), nil)

	texts := []string{"bonjour", "hello", "ça va ?"}
	for _, text := range texts {
		stored, err := repository.Append(domain.Message{
			ChatID: testChat, SenderID: "alice", OriginalText: text,
		})
		req.NoError(err)
		req.NotEqual(uuid.Nil, stored.ID)
		req.False(stored.CreatedAt.IsZero())
	}

	messages, err := repository.List(context.Background(), testChat)
	req.NoError(err)
	req.Len(messages, len(texts))
	for i, msg := range messages {
		req.Equal(texts[i], msg.OriginalText)
		req.Equal(testChat, msg.ChatID)
	}
	// Ascending by creation time.
	for i := 1; i < len(messages); i++ {
		req.False(messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
	}
}

func Test_MessageRepository_ListIsolatesSessions(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(testDB(t), slog.Default(), nil)

	_, err := repository.Append(domain.Message{ChatID: testChat, SenderID: "alice", OriginalText: "for us"})
	req.NoError(err)
	_, err = repository.Append(domain.Message{ChatID: "carol:dave", SenderID: "carol", OriginalText: "for them"})
	req.NoError(err)

	messages, err := repository.List(context.Background(), testChat)
	req.NoError(err)
	req.Len(messages, 1)
	req.Equal("for us", messages[0].OriginalText)
}

func Test_MessageRepository_EvictsOldestAtLimit(t *testing.T) {
	req := require.New(t)
	limit := 5
	repository := NewMessageRepository(testDB(t), slog.Default(), &limit)

	total := limit + 3
	for i := 0; i < total; i++ {
		_, err := repository.Append(domain.Message{
			ChatID: testChat, SenderID: "alice", OriginalText: fmt.Sprintf("message %d", i),
		})
		req.NoError(err)
	}

	messages, err := repository.List(context.Background(), testChat)
	req.NoError(err)
	req.Len(messages, limit)

	// Only the newest survive, still in order.
	req.Equal("message 3", messages[0].OriginalText)
	req.Equal("message 7", messages[limit-1].OriginalText)
}

func Test_MessageRepository_ConcurrentAppendsAllRetained(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(testDB(t), slog.Default(), nil)

	const senders = 2
	const perSender = 10
	errs := make(chan error, senders*perSender)
	var wg sync.WaitGroup
	for s := 0; s < senders; s++ {
		wg.Add(1)
		sender := fmt.Sprintf("sender-%d", s)
		go func() {
			defer wg.Done()
			for i := 0; i < perSender; i++ {
				_, err := repository.Append(domain.Message{
					ChatID: testChat, SenderID: sender, OriginalText: fmt.Sprintf("%s #%d", sender, i),
				})
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		req.NoError(err)
	}

	messages, err := repository.List(context.Background(), testChat)
	req.NoError(err)
	req.Len(messages, senders*perSender)
}

func Test_MessageRepository_SetTranslation(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(testDB(t), slog.Default(), lo.ToPtr(100))

	stored, err := repository.Append(domain.Message{
		ChatID: testChat, SenderID: "alice", OriginalText: "bonjour",
	})
	req.NoError(err)
	_, err = repository.Append(domain.Message{
		ChatID: testChat, SenderID: "bob", OriginalText: "hello",
	})
	req.NoError(err)

	updated, err := repository.SetTranslation(testChat, stored.ID, "hello")
	req.NoError(err)
	req.Equal(stored.ID, updated.ID)
	req.Equal("bonjour", updated.OriginalText)
	req.Equal("hello", updated.TranslatedText)

	// Update happened in place: count and order are unchanged.
	messages, err := repository.List(context.Background(), testChat)
	req.NoError(err)
	req.Len(messages, 2)
	req.Equal(stored.ID, messages[0].ID)
	req.Equal("hello", messages[0].TranslatedText)
	req.Empty(messages[1].TranslatedText)
}

func Test_MessageRepository_SetTranslationIdempotent(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(testDB(t), slog.Default(), nil)

	stored, err := repository.Append(domain.Message{
		ChatID: testChat, SenderID: "alice", OriginalText: "bonjour",
	})
	req.NoError(err)

	for i := 0; i < 3; i++ {
		updated, err := repository.SetTranslation(testChat, stored.ID, "hello")
		req.NoError(err)
		req.Equal("hello", updated.TranslatedText)
	}

	messages, err := repository.List(context.Background(), testChat)
	req.NoError(err)
	req.Len(messages, 1)
}

func Test_MessageRepository_SetTranslationMissingMessage(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(testDB(t), slog.Default(), nil)

	_, err := repository.SetTranslation(testChat, uuid.New(), "hello")
	req.ErrorIs(err, apperrors.ErrMessageNotFound)
}
