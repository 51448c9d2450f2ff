package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	appDomain "crediflow-backend/internal/domain/application"
	auditDomain "crediflow-backend/internal/domain/audit"
	docDomain "crediflow-backend/internal/domain/document"
	"crediflow-backend/internal/domain/uow"
	"crediflow-backend/internal/infrastructure/bureau"
	"crediflow-backend/pkg/id"

	"gorm.io/gorm"
)

// BureauClient looks up the applicant's known debt history. Advisory only:
// a failed lookup becomes a reviewer warning, never a blocking error.
type BureauClient interface {
	Lookup(ctx context.Context, cuit string) (*bureau.Report, error)
}

// Recomputer refreshes the persisted completeness score.
type Recomputer interface {
	Recompute(ctx context.Context, solicitudID string) error
}

type Usecase struct {
	uow       uow.UnitOfWork
	bureau    BureauClient
	recompute Recomputer
}

func NewUsecase(tx uow.UnitOfWork, bureauClient BureauClient, recompute Recomputer) *Usecase {
	return &Usecase{uow: tx, bureau: bureauClient, recompute: recompute}
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*ApplicationDTO, error) {
	if strings.TrimSpace(in.Solicitante) == "" || in.Monto <= 0 || in.PlazoMeses <= 0 {
		return nil, errors.New("invalid input")
	}
	cuit, err := bureau.NormalizeCUIT(in.CUITSolicitante)
	if err != nil {
		return nil, err
	}

	a := &appDomain.Application{
		SolicitudID:     id.NewID32(),
		Solicitante:     strings.TrimSpace(in.Solicitante),
		CUITSolicitante: cuit,
		Monto:           in.Monto,
		PlazoMeses:      in.PlazoMeses,
		Estado:          appDomain.StateBorrador,
		NivelRiesgo:     appDomain.RiskHigh, // nothing validated yet
		EstadoUpdatedAt: time.Now().UTC(),
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Applications.Create(ctx, a); err != nil {
			return err
		}
		return r.Audits.Append(ctx, &auditDomain.Entry{
			SolicitudID: a.SolicitudID,
			Actor:       in.Actor,
			Accion:      "solicitud_creada",
			EstadoNuevo: string(appDomain.StateBorrador),
			Detalle:     fmt.Sprintf("monto=%.2f plazo_meses=%d", in.Monto, in.PlazoMeses),
		})
	})
	if err != nil {
		return nil, err
	}
	return toDTO(a), nil
}

func (u *Usecase) Get(ctx context.Context, solicitudID string) (*ApplicationDTO, error) {
	var a *appDomain.Application
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		a, err = r.Applications.GetBySolicitudID(ctx, solicitudID)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appDomain.ErrNotFound
		}
		return nil, err
	}
	return toDTO(a), nil
}

func (u *Usecase) History(ctx context.Context, solicitudID string) ([]auditDomain.Entry, error) {
	var out []auditDomain.Entry
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Applications.GetBySolicitudID(ctx, solicitudID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return appDomain.ErrNotFound
			}
			return err
		}
		var err error
		out, err = r.Audits.ListByApplicationID(ctx, solicitudID)
		return err
	})
	return out, err
}

// Submit moves borrador → enviado. The guard is completeness of upload, not
// validation: the three mandatory types must exist in any status. It also
// records the submission-time heuristic risk, a signal deliberately kept
// apart from the document-completeness score.
func (u *Usecase) Submit(ctx context.Context, solicitudID string, in TransitionInput) (*ApplicationDTO, error) {
	return u.transition(ctx, solicitudID, appDomain.StateEnviado, "solicitud_enviada",
		func(ctx context.Context, r uow.Repos, a *appDomain.Application) (string, error) {
			docs, err := r.Documents.ListByApplicationID(ctx, solicitudID)
			if err != nil {
				return "", err
			}
			present := make(map[docDomain.Type]bool, len(docs))
			validated := 0
			for _, d := range docs {
				present[d.Tipo] = true
				if d.Estado == docDomain.StatusValidado {
					validated++
				}
			}
			for _, tipo := range docDomain.MandatoryUploadTypes {
				if !present[tipo] {
					return "", appDomain.ErrMissingDocuments
				}
			}
			risk := submissionRisk(a.Monto, a.PlazoMeses, len(docs), validated)
			return fmt.Sprintf("riesgo_inicial=%s documentos=%d validados=%d", risk, len(docs), validated), nil
		}, in)
}

// OpenReview moves enviado → en_revision when a reviewer picks the
// application up. The bureau lookup runs first and its outcome (or warning)
// lands in the audit detail; the score is refreshed afterwards.
func (u *Usecase) OpenReview(ctx context.Context, solicitudID string, in TransitionInput) (*ApplicationDTO, error) {
	if in.Rol != appDomain.RolRevisor {
		return nil, appDomain.ErrReviewerRequired
	}

	_, err := u.transition(ctx, solicitudID, appDomain.StateEnRevision, "revision_abierta",
		func(ctx context.Context, r uow.Repos, a *appDomain.Application) (string, error) {
			report, err := u.bureau.Lookup(ctx, a.CUITSolicitante)
			if err != nil {
				// advisory: reviewers see the warning in the trail.
				return fmt.Sprintf("advertencia: consulta de deudas falló: %v", err), nil
			}
			return fmt.Sprintf("deudas_registradas=%d peor_situacion=%d", len(report.Deudas), report.PeorSituacion()), nil
		}, in)
	if err != nil {
		return nil, err
	}

	if err := u.recompute.Recompute(ctx, solicitudID); err != nil {
		log.Printf("application: recompute after review open failed: %v", err)
	}
	// re-read: the recompute just rewrote puntaje and nivel_riesgo.
	return u.Get(ctx, solicitudID)
}

// RequestInfo moves en_revision → pendiente_info with the requested detail
// and a response deadline.
func (u *Usecase) RequestInfo(ctx context.Context, solicitudID string, in RequestInfoInput) (*ApplicationDTO, error) {
	if in.Rol != appDomain.RolRevisor {
		return nil, appDomain.ErrReviewerRequired
	}
	if strings.TrimSpace(in.Info) == "" {
		return nil, errors.New("requested information must not be empty")
	}

	deadline := in.Deadline.UTC()
	return u.transition(ctx, solicitudID, appDomain.StatePendienteInfo, "informacion_solicitada",
		func(ctx context.Context, r uow.Repos, a *appDomain.Application) (string, error) {
			a.InfoSolicitada = in.Info
			a.InfoDeadline = &deadline
			return fmt.Sprintf("info=%s plazo=%s", in.Info, deadline.Format("2006-01-02")), nil
		}, TransitionInput{Actor: in.Actor, Rol: in.Rol})
}

// ResumeReview moves pendiente_info → en_revision once the applicant
// answered.
func (u *Usecase) ResumeReview(ctx context.Context, solicitudID string, in TransitionInput) (*ApplicationDTO, error) {
	return u.transition(ctx, solicitudID, appDomain.StateEnRevision, "revision_reanudada",
		func(ctx context.Context, r uow.Repos, a *appDomain.Application) (string, error) {
			a.InfoSolicitada = ""
			a.InfoDeadline = nil
			return "", nil
		}, in)
}

// Approve is the explicit terminal decision; document evaluations never
// trigger it automatically.
func (u *Usecase) Approve(ctx context.Context, solicitudID string, in TransitionInput) (*ApplicationDTO, error) {
	if in.Rol != appDomain.RolRevisor {
		return nil, appDomain.ErrReviewerRequired
	}
	return u.transition(ctx, solicitudID, appDomain.StateAprobado, "solicitud_aprobada", nil, in)
}

func (u *Usecase) Reject(ctx context.Context, solicitudID string, in TransitionInput) (*ApplicationDTO, error) {
	if in.Rol != appDomain.RolRevisor {
		return nil, appDomain.ErrReviewerRequired
	}
	if strings.TrimSpace(in.Motivo) == "" {
		return nil, appDomain.ErrReasonRequired
	}
	return u.transition(ctx, solicitudID, appDomain.StateRechazado, "solicitud_rechazada",
		func(ctx context.Context, r uow.Repos, a *appDomain.Application) (string, error) {
			return "motivo: " + in.Motivo, nil
		}, in)
}

// transition applies one state-machine step under the application row lock.
// The guard runs before any mutation; every successful step appends exactly
// one audit entry in the same transaction.
func (u *Usecase) transition(ctx context.Context, solicitudID string, to appDomain.State, accion string,
	guard func(ctx context.Context, r uow.Repos, a *appDomain.Application) (string, error),
	in TransitionInput) (*ApplicationDTO, error) {

	var out *appDomain.Application
	err := u.uow.WithinApplicationTx(ctx, solicitudID, func(r uow.Repos, a *appDomain.Application) error {
		if a.Estado.Terminal() {
			return appDomain.ErrAlreadyTerminal
		}
		if !appDomain.CanTransition(a.Estado, to) {
			return appDomain.ErrInvalidTransition
		}

		detalle := ""
		if guard != nil {
			var err error
			detalle, err = guard(ctx, r, a)
			if err != nil {
				return err
			}
		}

		prev := a.Estado
		a.Estado = to
		a.EstadoUpdatedAt = time.Now().UTC()
		if err := r.Applications.Save(ctx, a); err != nil {
			return err
		}
		if err := r.Audits.Append(ctx, &auditDomain.Entry{
			SolicitudID:    solicitudID,
			Actor:          in.Actor,
			Accion:         accion,
			EstadoAnterior: string(prev),
			EstadoNuevo:    string(to),
			Detalle:        detalle,
		}); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appDomain.ErrNotFound
		}
		return nil, err
	}
	return toDTO(out), nil
}

// submissionRisk is the coarse submission-time heuristic: amount size and
// term push risk up, every uploaded and validated document pulls it down.
func submissionRisk(monto float64, plazoMeses, docCount, validatedCount int) string {
	score := 0
	switch {
	case monto > 10_000_000:
		score += 40
	case monto > 1_000_000:
		score += 25
	default:
		score += 10
	}
	switch {
	case plazoMeses > 48:
		score += 30
	case plazoMeses > 24:
		score += 20
	default:
		score += 10
	}
	score -= docCount * 5
	score -= validatedCount * 5

	switch {
	case score >= 50:
		return appDomain.RiskHigh
	case score >= 25:
		return appDomain.RiskMedium
	default:
		return appDomain.RiskLow
	}
}

func toDTO(a *appDomain.Application) *ApplicationDTO {
	return &ApplicationDTO{
		SolicitudID:     a.SolicitudID,
		Solicitante:     a.Solicitante,
		CUITSolicitante: a.CUITSolicitante,
		Monto:           a.Monto,
		PlazoMeses:      a.PlazoMeses,
		Estado:          string(a.Estado),
		Puntaje:         a.Puntaje,
		NivelRiesgo:     a.NivelRiesgo,
		InfoSolicitada:  a.InfoSolicitada,
		InfoDeadline:    a.InfoDeadline,
		CreatedAt:       a.CreatedAt,
	}
}
