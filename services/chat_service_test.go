package services

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"chat-bridge/domain"
	"chat-bridge/domain/event"
	apperrors "chat-bridge/errors"
	"chat-bridge/feed"
	"chat-bridge/mocks"
	"chat-bridge/repositories"
	"chat-bridge/translation"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type captureSink struct {
	mu     sync.Mutex
	events []event.MessageEvent
}

func (s *captureSink) Consume(_ context.Context, e event.MessageEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *captureSink) all() []event.MessageEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.MessageEvent(nil), s.events...)
}

type chatFixture struct {
	service *ChatService
	pairing repositories.IPairingRepository
	sink    *captureSink
}

func newChatFixture(t *testing.T, translator translation.ITranslator) chatFixture {
	t.Helper()
	options := badger.DefaultOptions(t.TempDir()).WithLogger(nil)
	db, err := badger.Open(options)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	hub := feed.NewHub(log)
	sink := &captureSink{}
	_, err = hub.Subscribe("alice:bob", sink)
	require.NoError(t, err)

	pairing := repositories.NewPairingRepository(db)
	service := NewChatService(
		repositories.NewMessageRepository(db, log, nil),
		pairing,
		translation.NewInlineStrategy(translator, time.Second, log),
		hub,
		log,
	)
	return chatFixture{service: service, pairing: pairing, sink: sink}
}

func Test_ChatService_SendMessage(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	translator := mocks.NewMockITranslator(ctrl)
	translator.EXPECT().
		Translate(gomock.Any(), "bonjour", "fr", "en").
		Return("hello", nil)

	fx := newChatFixture(t, translator)
	stored, err := fx.service.SendMessage(context.Background(), domain.SendMessageCommand{
		ChatID:       "alice:bob",
		SenderID:     "alice",
		Text:         " bonjour ",
		FromLanguage: "fr",
		ToLanguage:   "en",
	})
	req.NoError(err)
	req.Equal("bonjour", stored.OriginalText)
	req.Equal("hello", stored.TranslatedText)

	// The insert event carries the already-translated message.
	events := fx.sink.all()
	req.Len(events, 1)
	req.Equal(event.KindInsert, events[0].Kind)
	req.Equal("hello", events[0].Message.TranslatedText)

	messages, err := fx.service.ListMessages(context.Background(), "alice:bob")
	req.NoError(err)
	req.Len(messages, 1)
	req.Equal(stored.ID, messages[0].ID)
}

func Test_ChatService_SendMessageEmptyText(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fx := newChatFixture(t, mocks.NewMockITranslator(ctrl))
	_, err := fx.service.SendMessage(context.Background(), domain.SendMessageCommand{
		ChatID: "alice:bob", SenderID: "alice", Text: "   ",
	})
	req.ErrorIs(err, apperrors.ErrEmptyMessage)
	req.Empty(fx.sink.all())
}

func Test_ChatService_SendMessageByOutsider(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fx := newChatFixture(t, mocks.NewMockITranslator(ctrl))
	_, err := fx.service.SendMessage(context.Background(), domain.SendMessageCommand{
		ChatID: "alice:bob", SenderID: "mallory", Text: "hi",
	})
	req.ErrorIs(err, apperrors.ErrNotPaired)
	req.Empty(fx.sink.all())
}

func Test_ChatService_TargetLanguageFromPartnerLink(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	translator := mocks.NewMockITranslator(ctrl)
	translator.EXPECT().
		Translate(gomock.Any(), "bonjour tout le monde", "fr", "en").
		Return("hello everyone", nil)

	fx := newChatFixture(t, translator)
	req.NoError(fx.pairing.SaveLinks("alice:bob",
		domain.Profile{ID: "alice", Name: "Alice", Language: "fr"},
		domain.Profile{ID: "bob", Name: "Bob", Language: "en"},
	))

	stored, err := fx.service.SendMessage(context.Background(), domain.SendMessageCommand{
		ChatID:       "alice:bob",
		SenderID:     "alice",
		Text:         "bonjour tout le monde",
		FromLanguage: "fr",
	})
	req.NoError(err)
	req.Equal("hello everyone", stored.TranslatedText)
}

func Test_ChatService_NoTranslationWithoutTarget(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No pairing link and no declared target: the translator must not be hit.
	fx := newChatFixture(t, mocks.NewMockITranslator(ctrl))
	stored, err := fx.service.SendMessage(context.Background(), domain.SendMessageCommand{
		ChatID:       "alice:bob",
		SenderID:     "alice",
		Text:         "bonjour",
		FromLanguage: "fr",
	})
	req.NoError(err)
	req.Empty(stored.TranslatedText)
	req.Len(fx.sink.all(), 1)
}

func Test_ChatService_NoTranslationSameLanguage(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fx := newChatFixture(t, mocks.NewMockITranslator(ctrl))
	stored, err := fx.service.SendMessage(context.Background(), domain.SendMessageCommand{
		ChatID:       "alice:bob",
		SenderID:     "alice",
		Text:         "hello",
		FromLanguage: "en",
		ToLanguage:   "en",
	})
	req.NoError(err)
	req.Empty(stored.TranslatedText)
}

func Test_ChatService_ListMessagesEmptySession(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fx := newChatFixture(t, mocks.NewMockITranslator(ctrl))
	messages, err := fx.service.ListMessages(context.Background(), "alice:bob")
	req.NoError(err)
	req.Empty(messages)
}
