package mysql

import (
	"context"

	auditDomain "crediflow-backend/internal/domain/audit"

	"gorm.io/gorm"
)

// AuditRepository only inserts and lists. There is deliberately no Save or
// Delete: the history table is append-only.
type AuditRepository struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) Append(ctx context.Context, e *auditDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *AuditRepository) ListByApplicationID(ctx context.Context, solicitudID string) ([]auditDomain.Entry, error) {
	var out []auditDomain.Entry
	res := r.db.WithContext(ctx).
		Where("solicitud_id = ?", solicitudID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
