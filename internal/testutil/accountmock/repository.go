package accountmock

import (
	"context"
	"errors"

	domain "loan-ledger/internal/domain/account"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("accountmock: method not implemented")

// Repo is a function-backed mock that satisfies account.Repository.
// Fill in only the function fields a test needs.
type Repo struct {
	CreateFn        func(ctx context.Context, a *domain.Account) error
	GetByIDFn       func(ctx context.Context, id uint64) (*domain.Account, error)
	GetByUsernameFn func(ctx context.Context, username string) (*domain.Account, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return nil, errUnimplemented
}
