package query

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/payment"
)

// Usecase serves the read side of the ledger: pure scans, no writes,
// no locking beyond store read consistency.
type Usecase struct {
	loans    loan.Repository
	payments payment.Repository
}

func NewUsecase(loans loan.Repository, payments payment.Repository) *Usecase {
	return &Usecase{loans: loans, payments: payments}
}

// LoansOf lists accountID's loans, most recent first. Callers may only
// read their own loans unless they are admin.
func (u *Usecase) LoansOf(ctx context.Context, p ledger.Principal, accountID uint64) ([]loan.Loan, error) {
	if !p.Owns(accountID) {
		return nil, fmt.Errorf("%w: cannot read another account's loans", ledger.ErrUnauthorized)
	}
	out, err := u.loans.ListByAccountID(ctx, accountID)
	if err != nil {
		return nil, storeErr("list loans", err)
	}
	return out, nil
}

// PaymentsOf lists the loan's payments, most recent first.
func (u *Usecase) PaymentsOf(ctx context.Context, p ledger.Principal, loanID string) ([]payment.Payment, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: loan %s", ledger.ErrNotFound, loanID)
		}
		return nil, storeErr("load loan", err)
	}
	if !p.Owns(l.AccountID) {
		return nil, fmt.Errorf("%w: loan %s belongs to another account", ledger.ErrUnauthorized, loanID)
	}
	out, err := u.payments.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, storeErr("list payments", err)
	}
	return out, nil
}

// PendingQueue lists pending loans with the owning username, most
// recent first. Admin only.
func (u *Usecase) PendingQueue(ctx context.Context, p ledger.Principal) ([]loan.Summary, error) {
	if !p.IsAdmin {
		return nil, fmt.Errorf("%w: pending queue requires admin privilege", ledger.ErrUnauthorized)
	}
	out, err := u.loans.ListPendingWithOwner(ctx)
	if err != nil {
		return nil, storeErr("list pending loans", err)
	}
	return out, nil
}

// AllLoans lists every loan with the owning username, most recent
// first. Admin only.
func (u *Usecase) AllLoans(ctx context.Context, p ledger.Principal) ([]loan.Summary, error) {
	if !p.IsAdmin {
		return nil, fmt.Errorf("%w: listing all loans requires admin privilege", ledger.ErrUnauthorized)
	}
	out, err := u.loans.ListAllWithOwner(ctx)
	if err != nil {
		return nil, storeErr("list all loans", err)
	}
	return out, nil
}

func storeErr(op string, err error) error {
	if errors.Is(err, ledger.ErrStoreFailure) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ledger.ErrStoreFailure, op, err)
}
