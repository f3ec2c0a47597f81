package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is one entry of a session's bounded log. OriginalText never changes
// after the append; TranslatedText is empty until the translation orchestrator
// fills it, and may be overwritten by a later correction but never accumulated.
type Message struct {
	ID             uuid.UUID `json:"id"`
	ChatID         ChatID    `json:"chat_id"`
	SenderID       string    `json:"sender_id"`
	OriginalText   string    `json:"original_text"`
	TranslatedText string    `json:"translated_text,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
