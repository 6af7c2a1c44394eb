package settingmock

import (
	"context"

	domain "kobolend-backend/internal/domain/setting"
)

// Repo is a function-backed mock that satisfies setting.Repository.
// The default Get answers ErrNotFound, so use cases fall back to the
// static defaults.
type Repo struct {
	GetFn  func(ctx context.Context) (*domain.Setting, error)
	SaveFn func(ctx context.Context, s *domain.Setting) error
}

func (m *Repo) Get(ctx context.Context) (*domain.Setting, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, s *domain.Setting) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}
