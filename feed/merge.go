package feed

import (
	"chat-bridge/domain"
	"chat-bridge/domain/event"
)

// Merge applies one feed event to a consumer's rendered view: a known message
// id is replaced in place, an unknown one appended. Because it is an upsert
// either way, applying an update before its insert, or the same event twice,
// converges to the same single entry per id.
func Merge(view []domain.Message, e event.MessageEvent) []domain.Message {
	for i, msg := range view {
		if msg.ID == e.Message.ID {
			view[i] = e.Message
			return view
		}
	}
	return append(view, e.Message)
}
