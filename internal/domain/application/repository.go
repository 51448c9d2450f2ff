package application

import "context"

type Repository interface {
	Create(ctx context.Context, a *Application) error
	GetBySolicitudID(ctx context.Context, solicitudID string) (*Application, error)
	GetBySolicitudIDForUpdate(ctx context.Context, solicitudID string) (*Application, error)
	Save(ctx context.Context, a *Application) error
}
