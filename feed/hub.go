// Package feed implements the message feed contract: an in-process hub and a
// NATS bridge on the push side, and an interval poller on the pull side.
package feed

import (
	"context"
	"log/slog"
	"sync"

	"chat-bridge/contract"
	"chat-bridge/domain"
	"chat-bridge/domain/event"
)

// Hub fans events out to in-process subscribers, filtered by chat id.
//
// It provides best-effort delivery with no guarantees regarding durability or
// retries; sinks must not block. History is recovered through the message
// log, not the hub. Hub is safe for concurrent use by multiple goroutines.
type Hub struct {
	mu   sync.RWMutex
	subs map[domain.ChatID]map[*hubSubscription]contract.EventSink
	log  *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		subs: make(map[domain.ChatID]map[*hubSubscription]contract.EventSink),
		log:  log,
	}
}

func (h *Hub) Subscribe(chatID domain.ChatID, sink contract.EventSink) (contract.ISubscription, error) {
	sub := &hubSubscription{hub: h, chatID: chatID}
	h.mu.Lock()
	if h.subs[chatID] == nil {
		h.subs[chatID] = make(map[*hubSubscription]contract.EventSink)
	}
	h.subs[chatID][sub] = sink
	h.mu.Unlock()
	return sub, nil
}

func (h *Hub) Publish(e event.MessageEvent) {
	h.mu.RLock()
	sinks := make([]contract.EventSink, 0, len(h.subs[e.ChatID()]))
	for _, sink := range h.subs[e.ChatID()] {
		sinks = append(sinks, sink)
	}
	h.mu.RUnlock()

	for _, sink := range sinks {
		if err := sink.Consume(context.Background(), e); err != nil {
			h.log.Debug("Sink rejected event", "chat", e.ChatID(), "error", err)
		}
	}
}

type hubSubscription struct {
	hub    *Hub
	chatID domain.ChatID
	once   sync.Once
}

// Unsubscribe detaches the sink. Safe to call at any time, any number of
// times.
func (s *hubSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs[s.chatID], s)
		if len(s.hub.subs[s.chatID]) == 0 {
			delete(s.hub.subs, s.chatID)
		}
		s.hub.mu.Unlock()
	})
}
