package loan

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"loan-ledger/internal/domain/ledger"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusPaid     Status = "paid"
)

// Validate guards every store read and write: an unrecognized persisted
// status is a corrupt row, not a new state.
func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusPaid:
		return nil
	}
	return fmt.Errorf("%w: unrecognized loan status %q", ledger.ErrStoreFailure, string(s))
}

// Terminal statuses accept no further transition.
func (s Status) Terminal() bool { return s == StatusRejected || s == StatusPaid }

// CanTransition encodes the one-directional lifecycle:
// pending → approved|rejected, approved → paid.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusPaid
	}
	return false
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

type Loan struct {
	ID uint64 `gorm:"primaryKey;column:id" json:"-"`
	// Public identifier (32-char lowercase hex).
	LoanID    string `gorm:"size:32;not null;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	AccountID uint64 `gorm:"column:account_id;not null;index:idx_loans_account" json:"-"`
	// Fixed at creation; the balance starts equal to it.
	Principal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"principal"`
	TermMonths   int             `gorm:"column:term_months;not null" json:"term_months"`
	InterestRate decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	Status       Status          `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	// Mutated only by the payment engine, under the row lock.
	CurrentBalance decimal.Decimal `gorm:"column:current_balance;type:decimal(12,2);not null" json:"current_balance"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Summary is the admin read view: a loan row joined with the owning
// account's username.
type Summary struct {
	LoanID         string          `json:"loan_id"`
	Username       string          `json:"username"`
	Principal      decimal.Decimal `json:"principal"`
	TermMonths     int             `json:"term_months"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	Status         Status          `json:"status"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

var (
	baseRate = decimal.NewFromInt(5)
	rateCap  = decimal.NewFromInt(15)
	year     = decimal.NewFromInt(12)
)

// RateFor derives the flat interest rate assigned at origination:
// min(5.0 + termMonths/12, 15.0), rounded to two decimal places.
func RateFor(termMonths int) decimal.Decimal {
	r := baseRate.Add(decimal.NewFromInt(int64(termMonths)).Div(year)).Round(2)
	if r.GreaterThan(rateCap) {
		return rateCap
	}
	return r
}
