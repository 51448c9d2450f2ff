package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	docDomain "crediflow-backend/internal/domain/document"
	"crediflow-backend/internal/usecase/document"
)

// Uploads beyond this size are rejected before touching storage.
const maxUploadBytes = 15 << 20 // 15 MiB

type DocumentHandler struct{ uc *document.Usecase }

func NewDocumentHandler(uc *document.Usecase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

func (h *DocumentHandler) Upload(c echo.Context) error {
	tipo := docDomain.Type(c.FormValue("tipo"))
	if !tipo.Valid() {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "tipo", Message: "must be a known document type"}},
		})
	}
	fh, err := c.FormFile("archivo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing archivo file part"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file too large"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable file part"})
	}
	defer src.Close()
	contenido, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable file part"})
	}
	if int64(len(contenido)) > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file too large"})
	}

	actor, _ := actorFrom(c)
	dto, err := h.uc.Upload(c.Request().Context(), document.UploadInput{
		SolicitudID:   c.Param("solicitud_id"),
		Tipo:          tipo,
		NombreArchivo: fh.Filename,
		ContentType:   fh.Header.Get(echo.HeaderContentType),
		Contenido:     contenido,
		Actor:         actor,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *DocumentHandler) List(c echo.Context) error {
	dtos, err := h.uc.List(c.Request().Context(), c.Param("solicitud_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

type validateDocumentReq struct {
	Comentario string `json:"comentario"`
}

func (h *DocumentHandler) Validate(c echo.Context) error {
	var req validateDocumentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	actor, rol := actorFrom(c)
	dto, err := h.uc.Validate(c.Request().Context(), c.Param("documento_id"), document.ValidateInput{
		Actor:      actor,
		Rol:        rol,
		Comentario: req.Comentario,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type evaluateDocumentReq struct {
	Criterios  map[string]bool `json:"criterios" validate:"required,min=1"`
	Comentario string          `json:"comentario"`
}

func (h *DocumentHandler) Evaluate(c echo.Context) error {
	var req evaluateDocumentReq
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
	dto, err := h.uc.Evaluate(c.Request().Context(), c.Param("documento_id"), document.EvaluateInput{
		Actor:      actor,
		Rol:        rol,
		Criterios:  req.Criterios,
		Comentario: req.Comentario,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DocumentHandler) Delete(c echo.Context) error {
	actor, _ := actorFrom(c)
	if err := h.uc.Delete(c.Request().Context(), c.Param("documento_id"), actor); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
