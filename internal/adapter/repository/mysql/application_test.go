package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	appDomain "crediflow-backend/internal/domain/application"
	"crediflow-backend/pkg/id"

	"gorm.io/gorm"
)

func makeApplication(solicitudID string) *appDomain.Application {
	return &appDomain.Application{
		SolicitudID:     solicitudID,
		Solicitante:     "Comercial del Sur SRL",
		CUITSolicitante: "30712345678",
		Monto:           2_500_000.00,
		PlazoMeses:      24,
		Estado:          appDomain.StateBorrador,
		NivelRiesgo:     appDomain.RiskHigh,
		EstadoUpdatedAt: time.Now().UTC(),
	}
}

func TestApplicationCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	solicitudID := id.NewID32()
	a := makeApplication(solicitudID)
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetBySolicitudID(ctx, solicitudID)
	if err != nil {
		t.Fatalf("GetBySolicitudID: %v", err)
	}
	if got.CUITSolicitante != "30712345678" || got.Estado != appDomain.StateBorrador {
		t.Errorf("unexpected application: %+v", got)
	}
}

func TestApplicationSaveUpdatesStateAndScore(t *testing.T) {
	db := openTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	solicitudID := id.NewID32()
	a := makeApplication(solicitudID)
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	a.Estado = appDomain.StateEnviado
	a.Puntaje = 60
	a.NivelRiesgo = appDomain.RiskMedium
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetBySolicitudID(ctx, solicitudID)
	if err != nil {
		t.Fatalf("GetBySolicitudID: %v", err)
	}
	if got.Estado != appDomain.StateEnviado || got.Puntaje != 60 || got.NivelRiesgo != appDomain.RiskMedium {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestApplicationGetNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	_, err := repo.GetBySolicitudID(ctx, "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
