package payment

import "context"

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	// ListByLoanID returns the loan's payments, most recent first.
	ListByLoanID(ctx context.Context, loanID uint64) ([]Payment, error)
}
