package verification

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("verification not found")

type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetBySessionID(ctx context.Context, sessionID string) (*Record, error)
	GetBySessionIDForUpdate(ctx context.Context, sessionID string) (*Record, error)
	ListByApplicationID(ctx context.Context, solicitudID string) ([]Record, error)
	Save(ctx context.Context, r *Record) error
}
