//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"strings"

	"chat-bridge/contract"
	"chat-bridge/domain"
	"chat-bridge/domain/event"
	apperrors "chat-bridge/errors"
	"chat-bridge/repositories"
	"chat-bridge/translation"
)

type IChatService interface {
	SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error)
	ListMessages(ctx context.Context, chatID domain.ChatID) ([]domain.Message, error)
}

// ChatService appends to the session log, announces inserts on the feed and
// drives the translation strategy. A send succeeds whenever the message is
// durably stored; translation stays best-effort on top.
type ChatService struct {
	messages  repositories.IMessageRepository
	pairing   repositories.IPairingRepository
	strategy  translation.Strategy
	publisher contract.IPublisher
	log       *slog.Logger
}

func NewChatService(messages repositories.IMessageRepository,
	pairing repositories.IPairingRepository, strategy translation.Strategy,
	publisher contract.IPublisher, log *slog.Logger) *ChatService {
	return &ChatService{
		messages:  messages,
		pairing:   pairing,
		strategy:  strategy,
		publisher: publisher,
		log:       log,
	}
}

func (s *ChatService) SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		return domain.Message{}, apperrors.ErrEmptyMessage
	}
	if !cmd.ChatID.HasParticipant(cmd.SenderID) {
		return domain.Message{}, apperrors.ErrNotPaired
	}

	source, target := s.resolveLanguages(cmd, text)

	msg := domain.Message{
		ChatID:       cmd.ChatID,
		SenderID:     cmd.SenderID,
		OriginalText: text,
	}
	s.strategy.BeforeStore(ctx, &msg, source, target)

	stored, err := s.messages.Append(msg)
	if err != nil {
		return domain.Message{}, err
	}

	s.publisher.Publish(event.Inserted(stored))
	s.strategy.AfterStore(stored, source, target)
	return stored, nil
}

// resolveLanguages fills in whatever the sender didn't declare: the source
// from language detection on the text, the target from the partner link.
// Either may stay empty, which simply suppresses translation.
func (s *ChatService) resolveLanguages(cmd domain.SendMessageCommand, text string) (string, string) {
	source := strings.ToLower(strings.TrimSpace(cmd.FromLanguage))
	if source == "" {
		source = translation.DetectLanguage(text)
	}
	target := strings.ToLower(strings.TrimSpace(cmd.ToLanguage))
	if target == "" {
		link, err := s.pairing.GetLink(cmd.SenderID)
		if err != nil {
			s.log.Debug("No partner link for sender, skipping translation", "sender", cmd.SenderID)
			return source, ""
		}
		target = link.PartnerLanguage
	}
	return source, target
}

func (s *ChatService) ListMessages(ctx context.Context, chatID domain.ChatID) ([]domain.Message, error) {
	return s.messages.List(ctx, chatID)
}
