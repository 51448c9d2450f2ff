package mysql

import (
	"context"

	appDomain "crediflow-backend/internal/domain/application"

	"gorm.io/gorm"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *appDomain.Application) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApplicationRepository) Save(ctx context.Context, a *appDomain.Application) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *ApplicationRepository) GetBySolicitudID(ctx context.Context, solicitudID string) (*appDomain.Application, error) {
	var out appDomain.Application
	res := r.db.WithContext(ctx).Where("solicitud_id = ?", solicitudID).First(&out)
	return &out, res.Error
}

// GetBySolicitudIDForUpdate locks the row until the enclosing tx ends. Used
// by the UoW so state transitions and scoring writes serialize per application.
func (r *ApplicationRepository) GetBySolicitudIDForUpdate(ctx context.Context, solicitudID string) (*appDomain.Application, error) {
	var out appDomain.Application
	res := lockForUpdate(r.db.WithContext(ctx)).
		Where("solicitud_id = ?", solicitudID).
		First(&out)
	return &out, res.Error
}
