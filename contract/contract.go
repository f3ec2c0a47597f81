//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-bridge/domain"
	"chat-bridge/domain/event"
	"context"
	"reflect"
)

// Worker doesn't protect itself.
// Can be silly, focused.
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives feed events for one subscriber. Consume must not block
// the publisher; slow consumers buffer or drop on their side.
type EventSink interface {
	Consume(ctx context.Context, e event.MessageEvent) error
}

// ISubscription is the scoped handle returned by a feed subscription.
// Unsubscribe is idempotent and releases the underlying connection or timer.
type ISubscription interface {
	Unsubscribe()
}

// IFeed delivers insert/update events for one session's message log. The two
// delivery models (push and interval poll) both satisfy this contract.
type IFeed interface {
	Subscribe(chatID domain.ChatID, sink EventSink) (ISubscription, error)
}

// IPublisher is the producing side of the feed.
type IPublisher interface {
	Publish(e event.MessageEvent)
}
