package appmock

import (
	"context"

	domain "crediflow-backend/internal/domain/application"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                    func(ctx context.Context, a *domain.Application) error
	GetBySolicitudIDFn          func(ctx context.Context, solicitudID string) (*domain.Application, error)
	GetBySolicitudIDForUpdateFn func(ctx context.Context, solicitudID string) (*domain.Application, error)
	SaveFn                      func(ctx context.Context, a *domain.Application) error
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetBySolicitudID(ctx context.Context, solicitudID string) (*domain.Application, error) {
	if m.GetBySolicitudIDFn != nil {
		return m.GetBySolicitudIDFn(ctx, solicitudID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetBySolicitudIDForUpdate(ctx context.Context, solicitudID string) (*domain.Application, error) {
	if m.GetBySolicitudIDForUpdateFn != nil {
		return m.GetBySolicitudIDForUpdateFn(ctx, solicitudID)
	}
	// fall back to the plain getter so tests only wire one of them
	return m.GetBySolicitudID(ctx, solicitudID)
}

func (m *Repo) Save(ctx context.Context, a *domain.Application) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}
