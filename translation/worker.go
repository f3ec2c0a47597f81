package translation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"chat-bridge/contract"
	"chat-bridge/domain/event"
	apperrors "chat-bridge/errors"
	"chat-bridge/repositories"
)

// Worker drains the reactive translation queue. For each request it calls the
// provider, stores the result in place and publishes an update event so
// subscribers can merge the translation into an already-rendered message.
//
// Failures end with the request: they are logged for diagnostics and never
// reach the sender. Worker satisfies contract.Worker and runs supervised.
type Worker struct {
	queue      <-chan Request
	translator ITranslator
	messages   repositories.IMessageRepository
	publisher  contract.IPublisher
	timeout    time.Duration
	log        *slog.Logger
}

func NewWorker(queue <-chan Request, translator ITranslator,
	messages repositories.IMessageRepository, publisher contract.IPublisher,
	timeout time.Duration, log *slog.Logger) *Worker {
	return &Worker{
		queue:      queue,
		translator: translator,
		messages:   messages,
		publisher:  publisher,
		timeout:    timeout,
		log:        log,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping translation worker")
			return nil
		case req, ok := <-w.queue:
			if !ok {
				w.log.Debug("Translation queue closed")
				return nil
			}
			w.handle(ctx, req)
		}
	}
}

func (w *Worker) handle(ctx context.Context, req Request) {
	tctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	translated, err := w.translator.Translate(tctx, req.Text, req.SourceLang, req.TargetLang)
	if err != nil {
		w.log.Warn("Translation failed",
			"message", req.MessageID, "target", req.TargetLang, "error", err)
		return
	}

	updated, err := w.messages.SetTranslation(req.ChatID, req.MessageID, translated)
	if errors.Is(err, apperrors.ErrMessageNotFound) {
		// Evicted before the translation landed.
		w.log.Debug("Message gone before translation", "message", req.MessageID)
		return
	}
	if err != nil {
		w.log.Warn("Storing translation failed", "message", req.MessageID, "error", err)
		return
	}
	w.publisher.Publish(event.Updated(updated))
}
