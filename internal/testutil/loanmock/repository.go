package loanmock

import (
	"context"
	"errors"

	domain "loan-ledger/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("loanmock: method not implemented")

// Repo is a function-backed mock that satisfies loan.Repository.
// Fill in only the function fields a test needs.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	SaveFn                 func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	ListByAccountIDFn      func(ctx context.Context, accountID uint64) ([]domain.Loan, error)
	ListPendingWithOwnerFn func(ctx context.Context) ([]domain.Summary, error)
	ListAllWithOwnerFn     func(ctx context.Context) ([]domain.Summary, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListByAccountID(ctx context.Context, accountID uint64) ([]domain.Loan, error) {
	if m.ListByAccountIDFn != nil {
		return m.ListByAccountIDFn(ctx, accountID)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListPendingWithOwner(ctx context.Context) ([]domain.Summary, error) {
	if m.ListPendingWithOwnerFn != nil {
		return m.ListPendingWithOwnerFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListAllWithOwner(ctx context.Context) ([]domain.Summary, error) {
	if m.ListAllWithOwnerFn != nil {
		return m.ListAllWithOwnerFn(ctx)
	}
	return nil, errUnimplemented
}
