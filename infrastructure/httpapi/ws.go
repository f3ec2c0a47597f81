package httpapi

import (
	"context"
	"fmt"
	"time"

	"chat-bridge/auth"
	"chat-bridge/domain"
	"chat-bridge/domain/event"
	apperrors "chat-bridge/errors"

	"github.com/labstack/echo/v4"
)

// writeWait bounds each websocket write so a dead peer cannot wedge the
// writer goroutine.
const writeWait = 10 * time.Second

// StreamFeed upgrades the connection and forwards the session's feed events
// as JSON frames until the peer disconnects. The subscription is released on
// every exit path.
func (h *Handler) StreamFeed(c echo.Context) error {
	chatID := domain.ChatID(c.Param("chat_id"))
	if !chatID.HasParticipant(auth.UserID(c)) {
		return respondError(c, apperrors.ErrNotPaired)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	sink := &wsSink{events: make(chan event.MessageEvent, h.bufferSize)}
	sub, err := h.feed.Subscribe(chatID, sink)
	if err != nil {
		h.log.Warn("Feed subscription failed", "chat", chatID, "error", err)
		return nil
	}
	defer sub.Unsubscribe()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-sink.events:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(evt); err != nil {
					h.log.Debug("Websocket write failed", "chat", chatID, "error", err)
					cancel()
					return
				}
			}
		}
	}()

	// The peer sends nothing meaningful; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

// wsSink buffers events toward one websocket. Consume never blocks the
// publisher: a full buffer drops the event and the client reconciles through
// listMessages.
type wsSink struct {
	events chan event.MessageEvent
}

func (s *wsSink) Consume(_ context.Context, e event.MessageEvent) error {
	select {
	case s.events <- e:
		return nil
	default:
		return fmt.Errorf("websocket buffer full, event dropped")
	}
}
