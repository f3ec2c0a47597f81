package httpapi

import (
	apperrors "chat-bridge/errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// respondError translates the error taxonomy onto the wire: validation and
// conflict map to 400, unknown resources to 404 and everything upstream to
// 503 so callers know a retry with preserved input is legitimate.
func respondError(c echo.Context, err error) error {
	kind := apperrors.KindOf(err)
	status := http.StatusServiceUnavailable
	switch kind {
	case apperrors.KindValidation, apperrors.KindConflict:
		status = http.StatusBadRequest
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	}
	return c.JSON(status, errorResponse{Error: err.Error(), Kind: string(kind)})
}
