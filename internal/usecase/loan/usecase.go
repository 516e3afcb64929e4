package loan

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/pkg/id"
)

// Usecase is the loan state machine: origination and the admin
// approve/reject decision.
type Usecase struct {
	repo loan.Repository
	uow  uow.UnitOfWork
	log  *logrus.Logger
}

func NewUsecase(r loan.Repository, tx uow.UnitOfWork, log *logrus.Logger) *Usecase {
	return &Usecase{repo: r, uow: tx, log: log}
}

// Request originates a loan for the caller. The created loan always
// belongs to the principal's account; callers cannot originate loans
// for others.
func (u *Usecase) Request(ctx context.Context, p ledger.Principal, in RequestLoanInput) (*LoanDTO, error) {
	if !in.Principal.IsPositive() {
		return nil, fmt.Errorf("%w: principal must be positive", ledger.ErrInvalidInput)
	}
	if !in.Principal.Equal(in.Principal.Round(2)) {
		return nil, fmt.Errorf("%w: principal must have at most 2 decimal places", ledger.ErrInvalidInput)
	}
	if in.TermMonths < 1 {
		return nil, fmt.Errorf("%w: term must be at least 1 month", ledger.ErrInvalidInput)
	}

	l := &loan.Loan{
		LoanID:         id.NewID32(),
		AccountID:      p.AccountID,
		Principal:      in.Principal,
		TermMonths:     in.TermMonths,
		InterestRate:   loan.RateFor(in.TermMonths),
		Status:         loan.StatusPending,
		CurrentBalance: in.Principal,
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("%w: create loan: %v", ledger.ErrStoreFailure, err)
	}

	u.log.WithFields(logrus.Fields{
		"loan_id":   l.LoanID,
		"account":   p.AccountID,
		"principal": l.Principal,
		"term":      l.TermMonths,
		"rate":      l.InterestRate,
	}).Info("loan requested")
	return toDTO(l), nil
}

// Decide applies the admin's approve/reject decision to a pending
// loan. The loan row is locked for the duration, so two concurrent
// decisions serialize and the loser fails the pending guard.
func (u *Usecase) Decide(ctx context.Context, p ledger.Principal, loanID string, d loan.Decision) (*LoanDTO, error) {
	if !p.IsAdmin {
		return nil, fmt.Errorf("%w: deciding loans requires admin privilege", ledger.ErrUnauthorized)
	}
	if d != loan.DecisionApprove && d != loan.DecisionReject {
		return nil, fmt.Errorf("%w: unknown decision %q", ledger.ErrInvalidInput, string(d))
	}

	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if l.Status != loan.StatusPending {
			return fmt.Errorf("%w: loan %s is already %s", ledger.ErrInvalidState, l.LoanID, l.Status)
		}
		to := loan.StatusApproved
		if d == loan.DecisionReject {
			to = loan.StatusRejected
		}
		if !l.Status.CanTransition(to) {
			return fmt.Errorf("%w: %s cannot become %s", ledger.ErrInvalidState, l.Status, to)
		}
		l.Status = to
		if err := r.Loans.Save(ctx, l); err != nil {
			return fmt.Errorf("%w: save loan: %v", ledger.ErrStoreFailure, err)
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: loan %s", ledger.ErrNotFound, loanID)
		}
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"loan_id":  loanID,
		"admin":    p.AccountID,
		"decision": string(d),
	}).Info("loan decided")
	return dto, nil
}
