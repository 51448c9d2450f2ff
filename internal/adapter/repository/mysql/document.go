package mysql

import (
	"context"

	docDomain "crediflow-backend/internal/domain/document"

	"gorm.io/gorm"
)

type DocumentRepository struct{ db *gorm.DB }

func NewDocumentRepository(db *gorm.DB) *DocumentRepository { return &DocumentRepository{db: db} }

func (r *DocumentRepository) Create(ctx context.Context, d *docDomain.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DocumentRepository) Save(ctx context.Context, d *docDomain.Document) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DocumentRepository) Delete(ctx context.Context, d *docDomain.Document) error {
	return r.db.WithContext(ctx).Delete(d).Error
}

func (r *DocumentRepository) GetByDocumentID(ctx context.Context, documentoID string) (*docDomain.Document, error) {
	var out docDomain.Document
	res := r.db.WithContext(ctx).Where("documento_id = ?", documentoID).First(&out)
	return &out, res.Error
}

// GetByDocumentIDForUpdate serializes status writes to a single document,
// so a manual validation and a provider callback cannot interleave.
func (r *DocumentRepository) GetByDocumentIDForUpdate(ctx context.Context, documentoID string) (*docDomain.Document, error) {
	var out docDomain.Document
	res := lockForUpdate(r.db.WithContext(ctx)).
		Where("documento_id = ?", documentoID).
		First(&out)
	return &out, res.Error
}

func (r *DocumentRepository) FindByApplicationAndType(ctx context.Context, solicitudID string, tipo docDomain.Type) (*docDomain.Document, error) {
	var out docDomain.Document
	res := r.db.WithContext(ctx).
		Where("solicitud_id = ? AND tipo = ?", solicitudID, tipo).
		Order("id DESC").
		First(&out)
	return &out, res.Error
}

func (r *DocumentRepository) ListByApplicationID(ctx context.Context, solicitudID string) ([]docDomain.Document, error) {
	var out []docDomain.Document
	res := r.db.WithContext(ctx).
		Where("solicitud_id = ?", solicitudID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
