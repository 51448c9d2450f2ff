package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schema only for tests (no CHAR/JSON/DECIMAL) ---

type solicitudSQLite struct {
	ID              uint64         `gorm:"primaryKey;column:id"`
	SolicitudID     string         `gorm:"size:32;column:solicitud_id"`
	Solicitante     string         `gorm:"column:solicitante"`
	CUITSolicitante string         `gorm:"column:cuit_solicitante"`
	Monto           float64        `gorm:"column:monto"`
	PlazoMeses      int            `gorm:"column:plazo_meses"`
	Estado          string         `gorm:"type:text;column:estado"`
	Puntaje         int            `gorm:"column:puntaje"`
	NivelRiesgo     string         `gorm:"column:nivel_riesgo"`
	InfoSolicitada  string         `gorm:"column:info_solicitada"`
	InfoDeadline    *time.Time     `gorm:"column:info_deadline"`
	EstadoUpdatedAt time.Time      `gorm:"column:estado_updated_at"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (solicitudSQLite) TableName() string { return "solicitudes" }

type documentoSQLite struct {
	ID                  uint64         `gorm:"primaryKey;column:id"`
	DocumentoID         string         `gorm:"size:32;column:documento_id"`
	SolicitudID         string         `gorm:"size:32;column:solicitud_id"`
	Tipo                string         `gorm:"type:text;column:tipo"`
	NombreArchivo       string         `gorm:"column:nombre_archivo"`
	RutaStorage         string         `gorm:"column:ruta_storage"`
	TamanioBytes        int64          `gorm:"column:tamanio_bytes"`
	Estado              string         `gorm:"type:text;column:estado"`
	InformacionExtraida []byte         `gorm:"type:text;column:informacion_extraida"`
	Comentarios         string         `gorm:"column:comentarios"`
	ValidadoEn          *time.Time     `gorm:"column:validado_en"`
	CreatedAt           time.Time      `gorm:"column:created_at"`
	UpdatedAt           time.Time      `gorm:"column:updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (documentoSQLite) TableName() string { return "documentos" }

type verificacionSQLite struct {
	ID             uint64    `gorm:"primaryKey;column:id"`
	VerificacionID string    `gorm:"size:32;column:verificacion_id"`
	SolicitudID    string    `gorm:"size:32;column:solicitud_id"`
	SessionID      string    `gorm:"column:session_id"`
	Proveedor      string    `gorm:"column:proveedor"`
	Estado         string    `gorm:"type:text;column:estado"`
	Payload        string    `gorm:"column:payload"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (verificacionSQLite) TableName() string { return "verificaciones" }

type auditoriaSQLite struct {
	ID             uint64    `gorm:"primaryKey;column:id"`
	SolicitudID    string    `gorm:"size:32;column:solicitud_id"`
	Actor          string    `gorm:"column:actor"`
	Accion         string    `gorm:"column:accion"`
	EstadoAnterior string    `gorm:"column:estado_anterior"`
	EstadoNuevo    string    `gorm:"column:estado_nuevo"`
	Detalle        string    `gorm:"column:detalle"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (auditoriaSQLite) TableName() string { return "auditoria" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the sqlite-safe schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// IMPORTANT: migrate the sqlite-safe models, NOT the domain models.
	if err := db.AutoMigrate(&solicitudSQLite{}, &documentoSQLite{}, &verificacionSQLite{}, &auditoriaSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
