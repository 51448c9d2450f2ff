package auditmock

import (
	"context"
	"sync"

	domain "crediflow-backend/internal/domain/audit"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository. When no
// AppendFn is set it records entries in memory so tests can assert on the
// trail with Entries().
type Repo struct {
	AppendFn              func(ctx context.Context, e *domain.Entry) error
	ListByApplicationIDFn func(ctx context.Context, solicitudID string) ([]domain.Entry, error)

	mu       sync.Mutex
	recorded []domain.Entry
}

func (m *Repo) Append(ctx context.Context, e *domain.Entry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, *e)
	return nil
}

func (m *Repo) ListByApplicationID(ctx context.Context, solicitudID string) ([]domain.Entry, error) {
	if m.ListByApplicationIDFn != nil {
		return m.ListByApplicationIDFn(ctx, solicitudID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Entry, 0, len(m.recorded))
	for _, e := range m.recorded {
		if e.SolicitudID == solicitudID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Entries returns a copy of everything recorded through the in-memory path.
func (m *Repo) Entries() []domain.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Entry, len(m.recorded))
	copy(out, m.recorded)
	return out
}
