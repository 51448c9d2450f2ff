package verifmock

import (
	"context"

	domain "crediflow-backend/internal/domain/verification"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, r *domain.Record) error
	GetBySessionIDFn          func(ctx context.Context, sessionID string) (*domain.Record, error)
	GetBySessionIDForUpdateFn func(ctx context.Context, sessionID string) (*domain.Record, error)
	ListByApplicationIDFn     func(ctx context.Context, solicitudID string) ([]domain.Record, error)
	SaveFn                    func(ctx context.Context, r *domain.Record) error
}

func (m *Repo) Create(ctx context.Context, r *domain.Record) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetBySessionID(ctx context.Context, sessionID string) (*domain.Record, error) {
	if m.GetBySessionIDFn != nil {
		return m.GetBySessionIDFn(ctx, sessionID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetBySessionIDForUpdate(ctx context.Context, sessionID string) (*domain.Record, error) {
	if m.GetBySessionIDForUpdateFn != nil {
		return m.GetBySessionIDForUpdateFn(ctx, sessionID)
	}
	return m.GetBySessionID(ctx, sessionID)
}

func (m *Repo) ListByApplicationID(ctx context.Context, solicitudID string) ([]domain.Record, error) {
	if m.ListByApplicationIDFn != nil {
		return m.ListByApplicationIDFn(ctx, solicitudID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, r *domain.Record) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}
