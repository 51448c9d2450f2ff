package audit

import (
	"context"
	"time"
)

// Entry is one immutable line of the application history. The table is
// append-only: the repository exposes no update or delete.
type Entry struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	SolicitudID    string    `gorm:"column:solicitud_id;type:char(32);not null;index:idx_auditoria_solicitud" json:"solicitud_id"`
	Actor          string    `gorm:"column:actor;size:64;not null" json:"actor"`
	Accion         string    `gorm:"column:accion;size:64;not null" json:"accion"`
	EstadoAnterior string    `gorm:"column:estado_anterior;size:20" json:"estado_anterior"`
	EstadoNuevo    string    `gorm:"column:estado_nuevo;size:20" json:"estado_nuevo"`
	Detalle        string    `gorm:"column:detalle;type:text" json:"detalle,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "auditoria" }

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	ListByApplicationID(ctx context.Context, solicitudID string) ([]Entry, error)
}
