package mysql

import (
	"context"

	verifDomain "crediflow-backend/internal/domain/verification"

	"gorm.io/gorm"
)

type VerificationRepository struct{ db *gorm.DB }

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Create(ctx context.Context, v *verifDomain.Record) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VerificationRepository) Save(ctx context.Context, v *verifDomain.Record) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *VerificationRepository) GetBySessionID(ctx context.Context, sessionID string) (*verifDomain.Record, error) {
	var out verifDomain.Record
	res := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&out)
	return &out, res.Error
}

func (r *VerificationRepository) GetBySessionIDForUpdate(ctx context.Context, sessionID string) (*verifDomain.Record, error) {
	var out verifDomain.Record
	res := lockForUpdate(r.db.WithContext(ctx)).
		Where("session_id = ?", sessionID).
		First(&out)
	return &out, res.Error
}

func (r *VerificationRepository) ListByApplicationID(ctx context.Context, solicitudID string) ([]verifDomain.Record, error) {
	var out []verifDomain.Record
	res := r.db.WithContext(ctx).
		Where("solicitud_id = ?", solicitudID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
