package uow

import (
	"context"

	"loan-ledger/internal/domain/account"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/payment"
)

// Repos bundles the repositories bound to one transaction.
type Repos struct {
	Accounts account.Repository
	Loans    loan.Repository
	Payments payment.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn in a plain transaction.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row first, then passes it in. Every
	// check and write inside fn observes the locked row; a fn error
	// rolls the whole unit back. This is the payment engine's and the
	// state machine's atomic unit.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
