package application

import (
	"time"

	"gorm.io/gorm"
)

type State string

const (
	StateBorrador      State = "borrador"
	StateEnviado       State = "enviado"
	StateEnRevision    State = "en_revision"
	StatePendienteInfo State = "pendiente_info"
	StateAprobado      State = "aprobado"
	StateRechazado     State = "rechazado"
)

// transitions is the fixed lifecycle graph. Terminal states have no entry.
var transitions = map[State][]State{
	StateBorrador:      {StateEnviado},
	StateEnviado:       {StateEnRevision},
	StateEnRevision:    {StatePendienteInfo, StateAprobado, StateRechazado},
	StatePendienteInfo: {StateEnRevision},
}

func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s State) Terminal() bool { return s == StateAprobado || s == StateRechazado }

// Risk tiers shared by the completeness scoring and the submission heuristic.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Actor roles carried on requests. Authentication itself is an external
// collaborator; the trusted headers only name who acts and as what.
const (
	RolSolicitante = "solicitante"
	RolRevisor     = "revisor"
)

type Application struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	SolicitudID string `gorm:"column:solicitud_id;type:char(32);not null;uniqueIndex:ux_solicitudes_solicitud_id_active" json:"solicitud_id"`
	Solicitante string `gorm:"column:solicitante;size:255;not null" json:"solicitante"`
	// Normalized 11-digit tax identifier of the applicant.
	CUITSolicitante string     `gorm:"column:cuit_solicitante;size:13;not null;index:idx_solicitudes_cuit" json:"cuit_solicitante"`
	Monto           float64    `gorm:"column:monto;type:decimal(18,2);not null" json:"monto"`
	PlazoMeses      int        `gorm:"column:plazo_meses;not null" json:"plazo_meses"`
	Estado          State      `gorm:"column:estado;size:20;default:'borrador'" json:"estado"`
	Puntaje         int        `gorm:"column:puntaje;default:0" json:"puntaje"`
	NivelRiesgo     string     `gorm:"column:nivel_riesgo;size:10" json:"nivel_riesgo"`
	InfoSolicitada  string     `gorm:"column:info_solicitada;type:text" json:"info_solicitada,omitempty"`
	InfoDeadline    *time.Time `gorm:"column:info_deadline" json:"info_deadline,omitempty"`
	EstadoUpdatedAt time.Time  `gorm:"column:estado_updated_at;autoCreateTime" json:"estado_updated_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Application) TableName() string { return "solicitudes" }
