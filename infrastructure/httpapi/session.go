package httpapi

import (
	"net/http"

	"chat-bridge/auth"

	"github.com/labstack/echo/v4"
)

type sessionResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// CreateSession is the anonymous identity bootstrap: it mints a fresh user id
// and a bearer token for it. No credentials involved.
func (h *Handler) CreateSession(c echo.Context) error {
	userID := auth.NewAnonymousID()
	token, err := h.issuer.Generate(userID)
	if err != nil {
		h.log.Error("Token generation failed", "error", err)
		return c.JSON(http.StatusInternalServerError,
			errorResponse{Error: "could not create session", Kind: "upstream"})
	}
	return c.JSON(http.StatusOK, sessionResponse{UserID: userID, Token: token})
}
