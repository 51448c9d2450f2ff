package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	appDomain "crediflow-backend/internal/domain/application"
	docDomain "crediflow-backend/internal/domain/document"
)

const (
	headerActorID   = "Ax-Actor-Id"
	headerActorRole = "Ax-Actor-Role"
)

// actorFrom reads the caller identity headers. Role defaults to solicitante
// so that unauthenticated-style requests never gain reviewer powers.
func actorFrom(c echo.Context) (actor, rol string) {
	actor = strings.TrimSpace(c.Request().Header.Get(headerActorID))
	rol = strings.TrimSpace(c.Request().Header.Get(headerActorRole))
	if rol == "" {
		rol = appDomain.RolSolicitante
	}
	return actor, rol
}

// jsonError maps domain errors to HTTP status codes with a uniform payload.
func jsonError(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, appDomain.ErrNotFound),
		errors.Is(err, docDomain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, appDomain.ErrReviewerRequired):
		code = http.StatusForbidden
	case errors.Is(err, appDomain.ErrInvalidTransition),
		errors.Is(err, appDomain.ErrAlreadyTerminal):
		code = http.StatusConflict
	case errors.Is(err, appDomain.ErrMissingDocuments),
		errors.Is(err, appDomain.ErrReasonRequired),
		errors.Is(err, docDomain.ErrInvalidType):
		code = http.StatusUnprocessableEntity
	}
	if code == http.StatusInternalServerError {
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
