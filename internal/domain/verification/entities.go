package verification

import (
	"time"
)

type Status string

const (
	StatusPendiente Status = "pendiente"
	StatusAprobada  Status = "aprobada"
	StatusRechazada Status = "rechazada"
	StatusFallida   Status = "fallida"
	StatusError     Status = "error"
)

// Terminal reports whether the status can no longer change. Records move
// pendiente → terminal exactly once, never backward.
func (s Status) Terminal() bool { return s != StatusPendiente }

// Record is one identity-verification attempt. Records are never deleted;
// they are the audit evidence of every provider exchange, including failures.
type Record struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	VerificacionID string    `gorm:"column:verificacion_id;type:char(32);not null;uniqueIndex:ux_verificaciones_verificacion_id" json:"verificacion_id"`
	SolicitudID    string    `gorm:"column:solicitud_id;type:char(32);not null;index:idx_verificaciones_solicitud" json:"solicitud_id"`
	SessionID      string    `gorm:"column:session_id;size:64;not null;uniqueIndex:ux_verificaciones_session" json:"session_id"`
	Proveedor      string    `gorm:"column:proveedor;size:64;not null" json:"proveedor"`
	Estado         Status    `gorm:"column:estado;size:16;default:'pendiente'" json:"estado"`
	Payload        string    `gorm:"column:payload;type:text" json:"-"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Record) TableName() string { return "verificaciones" }
