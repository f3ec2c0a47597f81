package httpapi

import (
	"net/http"

	"chat-bridge/auth"
	"chat-bridge/domain"
	apperrors "chat-bridge/errors"

	"github.com/labstack/echo/v4"
)

type sendMessageRequest struct {
	Text         string `json:"text"`
	FromLanguage string `json:"from_language"`
	ToLanguage   string `json:"to_language"`
}

type sendMessageResponse struct {
	Message domain.Message `json:"message"`
}

type listMessagesResponse struct {
	Messages []domain.Message `json:"messages"`
}

// SendMessage appends to the session log. It reports success whenever the
// message was durably stored; translation happens underneath and never fails
// the request.
func (h *Handler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	cmd := domain.SendMessageCommand{
		ChatID:       domain.ChatID(c.Param("chat_id")),
		SenderID:     auth.UserID(c),
		Text:         req.Text,
		FromLanguage: req.FromLanguage,
		ToLanguage:   req.ToLanguage,
	}
	msg, err := h.chat.SendMessage(c.Request().Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sendMessageResponse{Message: msg})
}

func (h *Handler) ListMessages(c echo.Context) error {
	chatID := domain.ChatID(c.Param("chat_id"))
	if !chatID.HasParticipant(auth.UserID(c)) {
		return respondError(c, apperrors.ErrNotPaired)
	}
	messages, err := h.chat.ListMessages(c.Request().Context(), chatID)
	if err != nil {
		return respondError(c, err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return c.JSON(http.StatusOK, listMessagesResponse{Messages: messages})
}
