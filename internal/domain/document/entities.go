package document

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Type string

const (
	TypeDNI                  Type = "dni"
	TypeCUIT                 Type = "cuit"
	TypeComprobanteDomicilio Type = "comprobante_domicilio"
	TypeBalanceContable      Type = "balance_contable"
	TypeEstadoFinanciero     Type = "estado_financiero"
	TypeDeclaracionImpuestos Type = "declaracion_impuestos"
)

// AllTypes is the closed set of accepted document types.
var AllTypes = []Type{
	TypeDNI,
	TypeCUIT,
	TypeComprobanteDomicilio,
	TypeBalanceContable,
	TypeEstadoFinanciero,
	TypeDeclaracionImpuestos,
}

// MandatoryUploadTypes must be present (any status) before an application
// can be submitted.
var MandatoryUploadTypes = []Type{TypeDNI, TypeCUIT, TypeComprobanteDomicilio}

func (t Type) Valid() bool {
	for _, k := range AllTypes {
		if t == k {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPendiente Status = "pendiente"
	StatusValidado  Status = "validado"
	StatusRechazado Status = "rechazado"
)

// ExtractedFields stores the parsed field map as a JSON column.
// A nil map serializes to SQL NULL, never to "{}".
type ExtractedFields map[string]any

func (f ExtractedFields) Value() (driver.Value, error) {
	if len(f) == 0 {
		return nil, nil
	}
	return json.Marshal(f)
}

func (f *ExtractedFields) Scan(src any) error {
	if src == nil {
		*f = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("informacion_extraida: unsupported scan type")
	}
	if len(b) == 0 {
		*f = nil
		return nil
	}
	return json.Unmarshal(b, f)
}

type Document struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	DocumentoID string `gorm:"column:documento_id;type:char(32);not null;uniqueIndex:ux_documentos_documento_id_active" json:"documento_id"`
	// Public id of the owning application.
	SolicitudID         string          `gorm:"column:solicitud_id;type:char(32);not null;index:idx_documentos_solicitud" json:"solicitud_id"`
	Tipo                Type            `gorm:"column:tipo;size:32;not null" json:"tipo"`
	NombreArchivo       string          `gorm:"column:nombre_archivo;size:255;not null" json:"nombre_archivo"`
	RutaStorage         string          `gorm:"column:ruta_storage;size:512;not null" json:"-"`
	TamanioBytes        int64           `gorm:"column:tamanio_bytes;not null" json:"tamanio_bytes"`
	Estado              Status          `gorm:"column:estado;size:16;default:'pendiente'" json:"estado"`
	InformacionExtraida ExtractedFields `gorm:"column:informacion_extraida;type:json" json:"informacion_extraida,omitempty"`
	Comentarios         string          `gorm:"column:comentarios;type:text" json:"comentarios,omitempty"`
	ValidadoEn          *time.Time      `gorm:"column:validado_en" json:"validado_en,omitempty"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt  `gorm:"column:deleted_at;index" json:"-"`
}

func (Document) TableName() string { return "documentos" }
