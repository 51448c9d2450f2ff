package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	verifDomain "crediflow-backend/internal/domain/verification"
	"crediflow-backend/internal/usecase/verification"
)

const (
	headerSignature = "X-Signature"
	headerTimestamp = "X-Timestamp"
)

type WebhookHandler struct{ uc *verification.Usecase }

func NewWebhookHandler(uc *verification.Usecase) *WebhookHandler {
	return &WebhookHandler{uc: uc}
}

// VerificationCallback receives the identity provider's signed webhook. The
// signature covers the raw body, so the body must reach the usecase untouched.
func (h *WebhookHandler) VerificationCallback(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable body"})
	}
	res, err := h.uc.HandleCallback(
		c.Request().Context(),
		payload,
		c.Request().Header.Get(headerSignature),
		c.Request().Header.Get(headerTimestamp),
	)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, res)
	case errors.Is(err, verification.ErrInvalidSignature),
		errors.Is(err, verification.ErrStaleTimestamp):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, verification.ErrBadPayload):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, verifDomain.ErrNotFound):
		// Unknown sessions are never auto-created.
		return c.JSON(http.StatusNotFound, verification.CallbackResult{Verified: false})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
