package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"crediflow-backend/internal/usecase/application"
	"crediflow-backend/internal/usecase/scoring"
)

type ApplicationHandler struct {
	uc      *application.Usecase
	scoring *scoring.Recomputer
}

func NewApplicationHandler(uc *application.Usecase, sc *scoring.Recomputer) *ApplicationHandler {
	return &ApplicationHandler{uc: uc, scoring: sc}
}

type createApplicationReq struct {
	Solicitante     string  `json:"solicitante"      validate:"required"`
	CUITSolicitante string  `json:"cuit_solicitante" validate:"required,cuit"`
	Monto           float64 `json:"monto"            validate:"required,gt=0"`
	PlazoMeses      int     `json:"plazo_meses"      validate:"required,gte=1,lte=120"`
}

func (h *ApplicationHandler) Create(c echo.Context) error {
	var req createApplicationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	actor, _ := actorFrom(c)
	dto, err := h.uc.Create(c.Request().Context(), application.CreateInput{
		Solicitante:     req.Solicitante,
		CUITSolicitante: req.CUITSolicitante,
		Monto:           req.Monto,
		PlazoMeses:      req.PlazoMeses,
		Actor:           actor,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ApplicationHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("solicitud_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) History(c echo.Context) error {
	entries, err := h.uc.History(c.Request().Context(), c.Param("solicitud_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *ApplicationHandler) Scoring(c echo.Context) error {
	res, err := h.scoring.Snapshot(c.Request().Context(), c.Param("solicitud_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ApplicationHandler) Submit(c echo.Context) error {
	return h.simpleTransition(c, h.uc.Submit)
}

func (h *ApplicationHandler) OpenReview(c echo.Context) error {
	return h.simpleTransition(c, h.uc.OpenReview)
}

func (h *ApplicationHandler) ResumeReview(c echo.Context) error {
	return h.simpleTransition(c, h.uc.ResumeReview)
}

func (h *ApplicationHandler) Approve(c echo.Context) error {
	return h.simpleTransition(c, h.uc.Approve)
}

type rejectReq struct {
	Motivo string `json:"motivo" validate:"required"`
}

func (h *ApplicationHandler) Reject(c echo.Context) error {
	var req rejectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	actor, rol := actorFrom(c)
	dto, err := h.uc.Reject(c.Request().Context(), c.Param("solicitud_id"), application.TransitionInput{
		Actor:  actor,
		Rol:    rol,
		Motivo: req.Motivo,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type requestInfoReq struct {
	Info     string `json:"info"     validate:"required"`
	Deadline string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
}

func (h *ApplicationHandler) RequestInfo(c echo.Context) error {
	var req requestInfoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	var deadline time.Time
	if req.Deadline != "" {
		deadline, _ = time.Parse("2006-01-02", req.Deadline)
	}
	actor, rol := actorFrom(c)
	dto, err := h.uc.RequestInfo(c.Request().Context(), c.Param("solicitud_id"), application.RequestInfoInput{
		Actor:    actor,
		Rol:      rol,
		Info:     req.Info,
		Deadline: deadline,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type transitionFn func(ctx context.Context, solicitudID string, in application.TransitionInput) (*application.ApplicationDTO, error)

func (h *ApplicationHandler) simpleTransition(c echo.Context, fn transitionFn) error {
	actor, rol := actorFrom(c)
	dto, err := fn(c.Request().Context(), c.Param("solicitud_id"), application.TransitionInput{
		Actor: actor,
		Rol:   rol,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
