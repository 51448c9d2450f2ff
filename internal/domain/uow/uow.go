package uow

import (
	"context"

	"crediflow-backend/internal/domain/application"
	"crediflow-backend/internal/domain/audit"
	"crediflow-backend/internal/domain/document"
	"crediflow-backend/internal/domain/verification"
)

type Repos struct {
	Applications  application.Repository
	Documents     document.Repository
	Verifications verification.Repository
	Audits        audit.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the application row first, then pass it in
	WithinApplicationTx(ctx context.Context, solicitudID string, fn func(r Repos, a *application.Application) error) error
}
