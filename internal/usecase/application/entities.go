package application

import "time"

type CreateInput struct {
	Solicitante     string
	CUITSolicitante string
	Monto           float64
	PlazoMeses      int
	Actor           string
}

type TransitionInput struct {
	Actor string
	Rol   string
	// Motivo is required for rejections.
	Motivo string
}

type RequestInfoInput struct {
	Actor    string
	Rol      string
	Info     string
	Deadline time.Time
}

type ApplicationDTO struct {
	SolicitudID     string     `json:"solicitud_id"`
	Solicitante     string     `json:"solicitante"`
	CUITSolicitante string     `json:"cuit_solicitante"`
	Monto           float64    `json:"monto"`
	PlazoMeses      int        `json:"plazo_meses"`
	Estado          string     `json:"estado"`
	Puntaje         int        `json:"puntaje"`
	NivelRiesgo     string     `json:"nivel_riesgo"`
	InfoSolicitada  string     `json:"info_solicitada,omitempty"`
	InfoDeadline    *time.Time `json:"info_deadline,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
