// Package httpapi exposes the service surface over HTTP and delivers the
// push feed over websockets.
package httpapi

import (
	"log/slog"
	"net/http"

	"chat-bridge/auth"
	"chat-bridge/contract"
	"chat-bridge/services"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	invitations services.IInvitationService
	chat        services.IChatService
	feed        contract.IFeed
	issuer      auth.TokenIssuer
	upgrader    websocket.Upgrader
	bufferSize  int
	log         *slog.Logger
}

func NewHandler(invitations services.IInvitationService, chat services.IChatService,
	feed contract.IFeed, issuer auth.TokenIssuer, bufferSize int, log *slog.Logger) *Handler {
	return &Handler{
		invitations: invitations,
		chat:        chat,
		feed:        feed,
		issuer:      issuer,
		upgrader:    websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		bufferSize:  bufferSize,
		log:         log,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.POST("/v1/session", h.CreateSession)

	g := e.Group("/v1", auth.Middleware(h.issuer))
	g.POST("/invitations", h.CreateInvitation)
	g.POST("/invitations/:code/accept", h.AcceptInvitation)
	g.GET("/session/active", h.GetActiveSession)
	g.POST("/chats/:chat_id/messages", h.SendMessage)
	g.GET("/chats/:chat_id/messages", h.ListMessages)
	g.GET("/chats/:chat_id/ws", h.StreamFeed)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
