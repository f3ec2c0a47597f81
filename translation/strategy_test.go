package translation

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"chat-bridge/domain"
	apperrors "chat-bridge/errors"
	"chat-bridge/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func Test_NeedsTranslation(t *testing.T) {
	req := require.New(t)

	req.True(NeedsTranslation("fr", "en"))
	req.True(NeedsTranslation("FR", "en"))
	req.False(NeedsTranslation("fr", "fr"))
	req.False(NeedsTranslation("fr", "FR"))
	req.False(NeedsTranslation("", "en"))
	req.False(NeedsTranslation("fr", ""))
	req.False(NeedsTranslation("", ""))
}

func Test_InlineStrategy_FillsTranslation(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	translator := mocks.NewMockITranslator(ctrl)
	translator.EXPECT().
		Translate(gomock.Any(), "bonjour", "fr", "en").
		Return("hello", nil)

	strategy := NewInlineStrategy(translator, time.Second, slog.Default())
	msg := domain.Message{ChatID: "alice:bob", OriginalText: "bonjour"}
	strategy.BeforeStore(context.Background(), &msg, "fr", "en")

	req.Equal("hello", msg.TranslatedText)
}

func Test_InlineStrategy_SkipsSameLanguage(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	translator := mocks.NewMockITranslator(ctrl)
	// No Translate expectation: calling it would fail the test.

	strategy := NewInlineStrategy(translator, time.Second, slog.Default())
	msg := domain.Message{ChatID: "alice:bob", OriginalText: "hello"}
	strategy.BeforeStore(context.Background(), &msg, "en", "en")

	req.Empty(msg.TranslatedText)
}

func Test_InlineStrategy_AbsorbsFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	translator := mocks.NewMockITranslator(ctrl)
	translator.EXPECT().
		Translate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", apperrors.ErrTranslationFailed)

	strategy := NewInlineStrategy(translator, time.Second, slog.Default())
	msg := domain.Message{ChatID: "alice:bob", OriginalText: "bonjour"}
	strategy.BeforeStore(context.Background(), &msg, "fr", "en")

	// The message keeps its original text and stays untranslated.
	req.Equal("bonjour", msg.OriginalText)
	req.Empty(msg.TranslatedText)
}

func Test_ReactiveStrategy_EnqueuesAfterStore(t *testing.T) {
	req := require.New(t)
	queue := make(chan Request, 1)
	strategy := NewReactiveStrategy(queue, slog.Default())

	msg := domain.Message{ID: uuid.New(), ChatID: "alice:bob", OriginalText: "bonjour"}
	strategy.AfterStore(msg, "fr", "en")

	enqueued := <-queue
	req.Equal(msg.ID, enqueued.MessageID)
	req.Equal(msg.ChatID, enqueued.ChatID)
	req.Equal("bonjour", enqueued.Text)
	req.Equal("fr", enqueued.SourceLang)
	req.Equal("en", enqueued.TargetLang)
}

func Test_ReactiveStrategy_DropsWhenQueueFull(t *testing.T) {
	req := require.New(t)
	queue := make(chan Request, 1)
	strategy := NewReactiveStrategy(queue, slog.Default())

	first := domain.Message{ID: uuid.New(), ChatID: "alice:bob", OriginalText: "un"}
	second := domain.Message{ID: uuid.New(), ChatID: "alice:bob", OriginalText: "deux"}
	strategy.AfterStore(first, "fr", "en")
	strategy.AfterStore(second, "fr", "en")

	// The second request is dropped, not blocked on.
	req.Len(queue, 1)
	req.Equal(first.ID, (<-queue).MessageID)
}

func Test_ReactiveStrategy_SkipsUnknownLanguages(t *testing.T) {
	req := require.New(t)
	queue := make(chan Request, 1)
	strategy := NewReactiveStrategy(queue, slog.Default())

	strategy.AfterStore(domain.Message{ID: uuid.New(), ChatID: "alice:bob"}, "", "en")

	req.Empty(queue)
}
