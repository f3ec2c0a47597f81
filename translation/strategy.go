package translation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"chat-bridge/domain"

	"github.com/google/uuid"
)

// Strategy decides when and how a message gets translated. Exactly one of the
// two hooks does work, depending on the implementation:
//
//   - inline translates in BeforeStore, so translated_text is persisted with
//     the message and readers never see it untranslated;
//   - reactive schedules work in AfterStore, so the insert is delivered
//     immediately and the translation follows as an update event.
//
// Both absorb provider failures: a send never fails because translation did.
type Strategy interface {
	BeforeStore(ctx context.Context, msg *domain.Message, sourceLang, targetLang string)
	AfterStore(msg domain.Message, sourceLang, targetLang string)
}

// NeedsTranslation is the single decision rule: translate only when both
// languages are known and differ. Tags are compared case-insensitively.
func NeedsTranslation(sourceLang, targetLang string) bool {
	src := strings.ToLower(strings.TrimSpace(sourceLang))
	dst := strings.ToLower(strings.TrimSpace(targetLang))
	return src != "" && dst != "" && src != dst
}

// Request identifies one idempotent translation task. Re-processing the same
// request overwrites the same field rather than accumulating state.
type Request struct {
	ChatID     domain.ChatID
	MessageID  uuid.UUID
	Text       string
	SourceLang string
	TargetLang string
}

// InlineStrategy translates at send time, toward the recipient's language,
// which is fixed because a session has exactly two participants.
type InlineStrategy struct {
	translator ITranslator
	timeout    time.Duration
	log        *slog.Logger
}

func NewInlineStrategy(translator ITranslator, timeout time.Duration, log *slog.Logger) *InlineStrategy {
	return &InlineStrategy{translator: translator, timeout: timeout, log: log}
}

func (s *InlineStrategy) BeforeStore(ctx context.Context, msg *domain.Message, sourceLang, targetLang string) {
	if !NeedsTranslation(sourceLang, targetLang) {
		return
	}
	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	translated, err := s.translator.Translate(tctx, msg.OriginalText, sourceLang, targetLang)
	if err != nil {
		// Best effort: the reader falls back to the original text.
		s.log.Warn("Inline translation failed", "chat", msg.ChatID, "error", err)
		return
	}
	msg.TranslatedText = translated
}

func (s *InlineStrategy) AfterStore(domain.Message, string, string) {}

// ReactiveStrategy stores the message untranslated and hands a Request to the
// translation worker once the insert is durable.
type ReactiveStrategy struct {
	queue chan<- Request
	log   *slog.Logger
}

func NewReactiveStrategy(queue chan<- Request, log *slog.Logger) *ReactiveStrategy {
	return &ReactiveStrategy{queue: queue, log: log}
}

func (s *ReactiveStrategy) BeforeStore(context.Context, *domain.Message, string, string) {}

func (s *ReactiveStrategy) AfterStore(msg domain.Message, sourceLang, targetLang string) {
	if !NeedsTranslation(sourceLang, targetLang) {
		return
	}
	req := Request{
		ChatID:     msg.ChatID,
		MessageID:  msg.ID,
		Text:       msg.OriginalText,
		SourceLang: sourceLang,
		TargetLang: targetLang,
	}
	select {
	case s.queue <- req:
	default:
		// Dropping keeps the send path non-blocking; the reader still has
		// the original text.
		s.log.Warn("Translation queue full, dropping request", "message", msg.ID)
	}
}
