package docmock

import (
	"context"

	domain "crediflow-backend/internal/domain/document"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                   func(ctx context.Context, d *domain.Document) error
	GetByDocumentIDFn          func(ctx context.Context, documentoID string) (*domain.Document, error)
	GetByDocumentIDForUpdateFn func(ctx context.Context, documentoID string) (*domain.Document, error)
	FindByApplicationAndTypeFn func(ctx context.Context, solicitudID string, tipo domain.Type) (*domain.Document, error)
	ListByApplicationIDFn      func(ctx context.Context, solicitudID string) ([]domain.Document, error)
	SaveFn                     func(ctx context.Context, d *domain.Document) error
	DeleteFn                   func(ctx context.Context, d *domain.Document) error
}

func (m *Repo) Create(ctx context.Context, d *domain.Document) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *Repo) GetByDocumentID(ctx context.Context, documentoID string) (*domain.Document, error) {
	if m.GetByDocumentIDFn != nil {
		return m.GetByDocumentIDFn(ctx, documentoID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByDocumentIDForUpdate(ctx context.Context, documentoID string) (*domain.Document, error) {
	if m.GetByDocumentIDForUpdateFn != nil {
		return m.GetByDocumentIDForUpdateFn(ctx, documentoID)
	}
	return m.GetByDocumentID(ctx, documentoID)
}

func (m *Repo) FindByApplicationAndType(ctx context.Context, solicitudID string, tipo domain.Type) (*domain.Document, error) {
	if m.FindByApplicationAndTypeFn != nil {
		return m.FindByApplicationAndTypeFn(ctx, solicitudID, tipo)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByApplicationID(ctx context.Context, solicitudID string) ([]domain.Document, error) {
	if m.ListByApplicationIDFn != nil {
		return m.ListByApplicationIDFn(ctx, solicitudID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, d *domain.Document) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, d)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, d *domain.Document) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, d)
	}
	return nil
}
