package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"chat-bridge/contract"
	"chat-bridge/domain"
	"chat-bridge/domain/event"

	"github.com/nats-io/nats.go"
)

const natsSubjectPrefix = "chat.events"

// NatsFeed carries feed events over a NATS subject per session, so pushes
// reach subscribers connected to any service instance. Durability still comes
// from the message log; the broker only moves live events.
type NatsFeed struct {
	conn *nats.Conn
	log  *slog.Logger
}

func NewNatsFeed(conn *nats.Conn, log *slog.Logger) *NatsFeed {
	return &NatsFeed{conn: conn, log: log}
}

// subjectFor maps a chat id onto a subject token. The ':' separator is not
// welcome in subjects, '-' is.
func subjectFor(chatID domain.ChatID) string {
	return fmt.Sprintf("%s.%s", natsSubjectPrefix, strings.ReplaceAll(string(chatID), ":", "-"))
}

func (f *NatsFeed) Publish(e event.MessageEvent) {
	data, err := json.Marshal(e)
	if err != nil {
		f.log.Warn("Marshal feed event failed", "chat", e.ChatID(), "error", err)
		return
	}
	if err := f.conn.Publish(subjectFor(e.ChatID()), data); err != nil {
		// Best effort, like the hub: pull consumers still catch up.
		f.log.Warn("Publish feed event failed", "chat", e.ChatID(), "error", err)
	}
}

func (f *NatsFeed) Subscribe(chatID domain.ChatID, sink contract.EventSink) (contract.ISubscription, error) {
	sub, err := f.conn.Subscribe(subjectFor(chatID), func(m *nats.Msg) {
		var e event.MessageEvent
		if err := json.Unmarshal(m.Data, &e); err != nil {
			f.log.Warn("Drop malformed feed event", "chat", chatID, "error", err)
			return
		}
		_ = sink.Consume(context.Background(), e)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", chatID, err)
	}
	return &natsSubscription{sub: sub, log: f.log}, nil
}

type natsSubscription struct {
	sub  *nats.Subscription
	log  *slog.Logger
	once sync.Once
}

// Unsubscribe releases the broker-side interest. Idempotent.
func (s *natsSubscription) Unsubscribe() {
	s.once.Do(func() {
		if err := s.sub.Unsubscribe(); err != nil {
			s.log.Debug("NATS unsubscribe failed", "error", err)
		}
	})
}
