package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"chat-bridge/contract"
	"chat-bridge/domain"
	"chat-bridge/domain/event"

	"github.com/google/uuid"
)

// IMessageLister is the read side the poller diffs against. The repository
// satisfies it server-side; the HTTP API client satisfies it in terminals.
type IMessageLister interface {
	List(ctx context.Context, chatID domain.ChatID) ([]domain.Message, error)
}

// Poller realizes the feed contract for backends without a native change
// feed: it re-reads the log on a fixed interval and synthesizes insert and
// update events by diffing successive snapshots on message id. Consumers see
// staleness of at most one interval.
type Poller struct {
	lister   IMessageLister
	interval time.Duration
	log      *slog.Logger
}

func NewPoller(lister IMessageLister, interval time.Duration, log *slog.Logger) *Poller {
	return &Poller{lister: lister, interval: interval, log: log}
}

func (p *Poller) Subscribe(chatID domain.ChatID, sink contract.EventSink) (contract.ISubscription, error) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &pollSubscription{cancel: cancel}
	go p.loop(ctx, chatID, sink)
	return sub, nil
}

func (p *Poller) loop(ctx context.Context, chatID domain.ChatID, sink contract.EventSink) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	known := make(map[uuid.UUID]domain.Message)
	p.poll(ctx, chatID, sink, known)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A tick can race the cancellation; never poll after it.
			if ctx.Err() != nil {
				return
			}
			known = p.poll(ctx, chatID, sink, known)
		}
	}
}

// poll fetches one snapshot and emits events for the delta. A failed fetch is
// skipped: the next tick retries and the consumer only observes staleness.
func (p *Poller) poll(ctx context.Context, chatID domain.ChatID,
	sink contract.EventSink, known map[uuid.UUID]domain.Message) map[uuid.UUID]domain.Message {

	lctx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	messages, err := p.lister.List(lctx, chatID)
	if err != nil {
		p.log.Debug("Poll failed, retrying next tick", "chat", chatID, "error", err)
		return known
	}

	next := make(map[uuid.UUID]domain.Message, len(messages))
	for _, msg := range messages {
		prev, seen := known[msg.ID]
		switch {
		case !seen:
			_ = sink.Consume(ctx, event.Inserted(msg))
		case prev.TranslatedText != msg.TranslatedText:
			_ = sink.Consume(ctx, event.Updated(msg))
		}
		next[msg.ID] = msg
	}
	// Evicted entries simply drop out of the snapshot.
	return next
}

type pollSubscription struct {
	cancel context.CancelFunc
	once   sync.Once
}

// Unsubscribe stops the polling goroutine and its timer. Idempotent.
func (s *pollSubscription) Unsubscribe() {
	s.once.Do(s.cancel)
}
