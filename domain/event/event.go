// Package event defines the domain events delivered through the message feed.
package event

import (
	"chat-bridge/domain"
)

// Kind discriminates feed events. An insert announces a freshly appended
// message; an update carries a later mutation of the same message, today only
// the arrival of its translation.
type Kind string

const (
	KindInsert Kind = "insert"
	KindUpdate Kind = "update"
)

// DomainEvent is anything routable to a session's subscribers.
type DomainEvent interface {
	ChatID() domain.ChatID
}

// MessageEvent is the single event type the feed carries. Consumers merge it
// by message id: known id replaces the entry in place, unknown id appends.
type MessageEvent struct {
	Kind    Kind           `json:"kind"`
	Message domain.Message `json:"message"`
}

func (e MessageEvent) ChatID() domain.ChatID {
	return e.Message.ChatID
}

// Inserted wraps a stored message as an insert event.
func Inserted(msg domain.Message) MessageEvent {
	return MessageEvent{Kind: KindInsert, Message: msg}
}

// Updated wraps a mutated message as an update event.
func Updated(msg domain.Message) MessageEvent {
	return MessageEvent{Kind: KindUpdate, Message: msg}
}
