package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row for the rest of the enclosing
	// transaction; only meaningful inside a UnitOfWork.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	// ListByAccountID returns the account's loans, most recent first.
	ListByAccountID(ctx context.Context, accountID uint64) ([]Loan, error)
	// ListPendingWithOwner returns pending loans joined with the owning
	// username, most recent first.
	ListPendingWithOwner(ctx context.Context) ([]Summary, error)
	// ListAllWithOwner returns every loan joined with the owning
	// username, most recent first.
	ListAllWithOwner(ctx context.Context) ([]Summary, error)
}
