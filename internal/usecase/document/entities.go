package document

import (
	"time"

	docDomain "crediflow-backend/internal/domain/document"
)

type UploadInput struct {
	SolicitudID   string
	Tipo          docDomain.Type
	NombreArchivo string
	ContentType   string
	Contenido     []byte
	Actor         string
}

type ValidateInput struct {
	Actor      string
	Rol        string
	Comentario string
}

// EvaluateInput carries a reviewer checklist; the document is approved only
// when every criterion holds.
type EvaluateInput struct {
	Actor      string
	Rol        string
	Criterios  map[string]bool
	Comentario string
}

type DocumentDTO struct {
	DocumentoID         string                    `json:"documento_id"`
	SolicitudID         string                    `json:"solicitud_id"`
	Tipo                string                    `json:"tipo"`
	NombreArchivo       string                    `json:"nombre_archivo"`
	TamanioBytes        int64                     `json:"tamanio_bytes"`
	Estado              string                    `json:"estado"`
	MetodoExtraccion    string                    `json:"metodo_extraccion,omitempty"`
	InformacionExtraida docDomain.ExtractedFields `json:"informacion_extraida,omitempty"`
	Comentarios         string                    `json:"comentarios,omitempty"`
	URL                 string                    `json:"url,omitempty"`
	ValidadoEn          *time.Time                `json:"validado_en,omitempty"`
	CreatedAt           time.Time                 `json:"created_at"`
}
