package httpapi

import (
	"net/http"

	"chat-bridge/auth"
	"chat-bridge/domain"

	"github.com/labstack/echo/v4"
)

type profileRequest struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

type createInvitationResponse struct {
	Code string `json:"code"`
}

type acceptInvitationResponse struct {
	ChatID  domain.ChatID  `json:"chat_id"`
	Partner domain.Profile `json:"partner"`
}

func (h *Handler) CreateInvitation(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	creator := domain.Profile{ID: auth.UserID(c), Name: req.Name, Language: req.Language}
	code, err := h.invitations.Create(creator)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, createInvitationResponse{Code: code})
}

func (h *Handler) AcceptInvitation(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	joiner := domain.Profile{ID: auth.UserID(c), Name: req.Name, Language: req.Language}
	link, err := h.invitations.Redeem(c.Param("code"), joiner)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, acceptInvitationResponse{
		ChatID: link.ChatID,
		Partner: domain.Profile{
			ID:       link.PartnerID,
			Name:     link.PartnerName,
			Language: link.PartnerLanguage,
		},
	})
}

func (h *Handler) GetActiveSession(c echo.Context) error {
	link, err := h.invitations.ActiveSession(auth.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, link)
}
