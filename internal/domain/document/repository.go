package document

import "context"

type Repository interface {
	Create(ctx context.Context, d *Document) error
	GetByDocumentID(ctx context.Context, documentoID string) (*Document, error)
	GetByDocumentIDForUpdate(ctx context.Context, documentoID string) (*Document, error)
	FindByApplicationAndType(ctx context.Context, solicitudID string, tipo Type) (*Document, error)
	ListByApplicationID(ctx context.Context, solicitudID string) ([]Document, error)
	Save(ctx context.Context, d *Document) error
	Delete(ctx context.Context, d *Document) error
}
