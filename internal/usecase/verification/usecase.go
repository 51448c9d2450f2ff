package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	docDomain "crediflow-backend/internal/domain/document"
	"crediflow-backend/internal/domain/uow"
	verifDomain "crediflow-backend/internal/domain/verification"
	"crediflow-backend/internal/infrastructure/verifier"
	"crediflow-backend/pkg/id"

	"gorm.io/gorm"
)

// ProviderClient submits a document to the identity-verification provider.
type ProviderClient interface {
	Submit(ctx context.Context, doc []byte, filename string) (*verifier.SubmitResult, error)
}

// SignatureVerifier checks webhook signatures over the raw body.
type SignatureVerifier interface {
	Verify(payload []byte, signature string) bool
}

// Recomputer refreshes the application score after a document status change.
type Recomputer interface {
	Recompute(ctx context.Context, solicitudID string) error
}

type Usecase struct {
	uow       uow.UnitOfWork
	provider  ProviderClient
	signer    SignatureVerifier
	recompute Recomputer
	now       func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, provider ProviderClient, signer SignatureVerifier, recompute Recomputer) *Usecase {
	return &Usecase{uow: tx, provider: provider, signer: signer, recompute: recompute, now: time.Now}
}

// Submit sends an identity document to the provider. It is best-effort and
// advisory: a provider failure is recorded as a fallida record (a record must
// exist even for failures) and never aborts the enclosing upload flow.
func (u *Usecase) Submit(ctx context.Context, solicitudID string, doc []byte, filename string) (*SubmitDTO, error) {
	res, submitErr := u.provider.Submit(ctx, doc, filename)

	rec := &verifDomain.Record{
		VerificacionID: id.NewID32(),
		SolicitudID:    solicitudID,
		Proveedor:      verifier.ProviderName,
		Estado:         verifDomain.StatusPendiente,
	}
	if submitErr != nil {
		rec.SessionID = "local-" + id.NewID32()
		rec.Estado = verifDomain.StatusFallida
		rec.Payload = fmt.Sprintf(`{"error":%q}`, submitErr.Error())
	} else {
		rec.SessionID = res.SessionID
		if raw, err := json.Marshal(res); err == nil {
			rec.Payload = string(raw)
		}
		// some integrations decide synchronously; apply it right away,
		// otherwise the webhook resolves the session later.
		if st := outcomeStatus(res.Status, res.Decision); st != verifDomain.StatusPendiente {
			rec.Estado = st
		}
	}

	if err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Verifications.Create(ctx, rec); err != nil {
			return err
		}
		if rec.Estado == verifDomain.StatusAprobada {
			return markIdentityValidated(ctx, r, solicitudID, "verificación de identidad aprobada por proveedor")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if rec.Estado == verifDomain.StatusAprobada {
		if err := u.recompute.Recompute(ctx, solicitudID); err != nil {
			log.Printf("verification: recompute after submit failed: %v", err)
		}
	}

	dto := &SubmitDTO{VerificacionID: rec.VerificacionID, SessionID: rec.SessionID, Estado: string(rec.Estado)}
	return dto, submitErr
}

// HandleCallback validates and applies a provider webhook. Integrity
// failures (bad signature, stale timestamp) reject before any state is
// touched. An unknown session is surfaced as not-found and never creates a
// record.
func (u *Usecase) HandleCallback(ctx context.Context, payload []byte, signature, timestamp string) (*CallbackResult, error) {
	if !u.signer.Verify(payload, signature) {
		return nil, ErrInvalidSignature
	}
	ts, err := parseTimestamp(timestamp)
	if err != nil {
		return nil, ErrStaleTimestamp
	}
	now := u.now().UTC()
	if ts.Before(now.Add(-FreshnessWindow)) || ts.After(now.Add(FreshnessWindow)) {
		return nil, ErrStaleTimestamp
	}

	var cb callbackPayload
	if err := json.Unmarshal(payload, &cb); err != nil || cb.SessionID == "" {
		return nil, ErrBadPayload
	}

	verified := false
	var solicitudID string
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		rec, err := r.Verifications.GetBySessionIDForUpdate(ctx, cb.SessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return verifDomain.ErrNotFound
			}
			return err
		}
		if rec.Estado.Terminal() {
			// outcome transitions only move forward; a replayed or
			// duplicate callback changes nothing.
			verified = rec.Estado == verifDomain.StatusAprobada
			return nil
		}

		rec.Estado = outcomeStatus(cb.Status, cb.Decision)
		if rec.Estado == verifDomain.StatusPendiente {
			rec.Estado = verifDomain.StatusError
		}
		rec.Payload = string(payload)
		if err := r.Verifications.Save(ctx, rec); err != nil {
			return err
		}

		if rec.Estado == verifDomain.StatusAprobada {
			verified = true
			solicitudID = rec.SolicitudID
			return markIdentityValidated(ctx, r, rec.SolicitudID,
				fmt.Sprintf("verificación %s aprobada por proveedor (sesión %s)", rec.VerificacionID, rec.SessionID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if solicitudID != "" {
		if err := u.recompute.Recompute(ctx, solicitudID); err != nil {
			log.Printf("verification: recompute after callback failed: %v", err)
		}
	}
	return &CallbackResult{Verified: verified}, nil
}

// markIdentityValidated flips the application's identity document to
// validado with a comment recording the provider decision. A missing
// identity document is tolerated: the record alone keeps the audit trail.
func markIdentityValidated(ctx context.Context, r uow.Repos, solicitudID, comment string) error {
	d, err := r.Documents.FindByApplicationAndType(ctx, solicitudID, docDomain.TypeDNI)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	now := time.Now().UTC()
	d.Estado = docDomain.StatusValidado
	d.Comentarios = comment
	d.ValidadoEn = &now
	return r.Documents.Save(ctx, d)
}

// outcomeStatus maps a provider {status, decision} pair onto the record
// lifecycle.
func outcomeStatus(status, decision string) verifDomain.Status {
	switch strings.ToLower(decision) {
	case "approved", "aprobada":
		return verifDomain.StatusAprobada
	case "rejected", "declined", "rechazada":
		return verifDomain.StatusRechazada
	}
	switch strings.ToLower(status) {
	case "failed":
		return verifDomain.StatusFallida
	case "error":
		return verifDomain.StatusError
	}
	return verifDomain.StatusPendiente
}

// parseTimestamp accepts epoch seconds/milliseconds or RFC3339.
func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 { // ms
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New("timestamp must be epoch or RFC3339")
}
