package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/payment"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/pkg/id"
)

// Usecase is the payment engine. Apply is the only writer of a loan's
// balance, and every check runs again inside the row-locked
// transaction: a stale balance observed before the lock can never
// leak into the commit.
type Usecase struct {
	uow uow.UnitOfWork
	log *logrus.Logger
}

func NewUsecase(tx uow.UnitOfWork, log *logrus.Logger) *Usecase {
	return &Usecase{uow: tx, log: log}
}

// Apply atomically decrements the balance, appends the payment row,
// and flips the loan to paid when the balance reaches zero. All three
// effects commit together or not at all.
func (u *Usecase) Apply(ctx context.Context, p ledger.Principal, in ApplyPaymentInput) (*ApplyPaymentResult, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", ledger.ErrInvalidInput)
	}
	if !in.Amount.Equal(in.Amount.Round(2)) {
		return nil, fmt.Errorf("%w: payment amount must have at most 2 decimal places", ledger.ErrInvalidInput)
	}

	var res *ApplyPaymentResult
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if !p.Owns(l.AccountID) {
			return fmt.Errorf("%w: loan %s belongs to another account", ledger.ErrUnauthorized, l.LoanID)
		}
		// Covers pending, rejected, and a prior concurrent payment
		// having already flipped the loan to paid.
		if l.Status != loan.StatusApproved {
			return fmt.Errorf("%w: loan %s is %s, not approved for payment", ledger.ErrInvalidState, l.LoanID, l.Status)
		}
		if in.Amount.GreaterThan(l.CurrentBalance) {
			return fmt.Errorf("%w: payment %s exceeds balance %s", ledger.ErrInvalidState, in.Amount, l.CurrentBalance)
		}

		l.CurrentBalance = l.CurrentBalance.Sub(in.Amount)
		if l.CurrentBalance.IsZero() {
			l.Status = loan.StatusPaid
		}

		pay := &payment.Payment{
			PaymentID: id.NewID32(),
			LoanID:    l.ID,
			Amount:    in.Amount,
			AppliedAt: time.Now().UTC(),
		}
		if err := r.Payments.Create(ctx, pay); err != nil {
			return fmt.Errorf("%w: record payment: %v", ledger.ErrStoreFailure, err)
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return fmt.Errorf("%w: save loan: %v", ledger.ErrStoreFailure, err)
		}

		res = &ApplyPaymentResult{
			PaymentID:      pay.PaymentID,
			LoanID:         l.LoanID,
			Amount:         pay.Amount,
			CurrentBalance: l.CurrentBalance,
			Status:         string(l.Status),
			AppliedAt:      pay.AppliedAt,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: loan %s", ledger.ErrNotFound, in.LoanID)
		}
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"loan_id":    res.LoanID,
		"payment_id": res.PaymentID,
		"amount":     res.Amount,
		"balance":    res.CurrentBalance,
		"status":     res.Status,
	}).Info("payment applied")
	return res, nil
}
