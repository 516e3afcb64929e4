package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "loan-ledger/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

const summaryColumns = "loans.loan_id, accounts.username, loans.principal, loans.term_months, " +
	"loans.interest_rate, loans.status, loans.current_balance, loans.created_at"

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	if err := l.Status.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	if err := l.Status.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if err := out.Status.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByLoanIDForUpdate reads the loan under SELECT ... FOR UPDATE so the
// row stays locked until the surrounding transaction finishes. SQLite
// (tests) locks the whole database on write and rejects the FOR UPDATE
// syntax, so the clause is skipped there.
func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	tx := r.db.WithContext(ctx)
	if tx.Dialector.Name() != "sqlite" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out loanDomain.Loan
	res := tx.Where("loan_id = ?", loanID).First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if err := out.Status.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) ListByAccountID(ctx context.Context, accountID uint64) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	for i := range out {
		if err := out[i].Status.Validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *LoanRepository) ListPendingWithOwner(ctx context.Context) ([]loanDomain.Summary, error) {
	return r.listSummaries(ctx, r.db.WithContext(ctx).
		Where("loans.status = ?", loanDomain.StatusPending))
}

func (r *LoanRepository) ListAllWithOwner(ctx context.Context) ([]loanDomain.Summary, error) {
	return r.listSummaries(ctx, r.db.WithContext(ctx))
}

func (r *LoanRepository) listSummaries(ctx context.Context, tx *gorm.DB) ([]loanDomain.Summary, error) {
	var out []loanDomain.Summary
	res := tx.Table("loans").
		Select(summaryColumns).
		Joins("JOIN accounts ON accounts.id = loans.account_id").
		Order("loans.created_at DESC, loans.id DESC").
		Scan(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	for i := range out {
		if err := out[i].Status.Validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
