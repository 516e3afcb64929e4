package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is an immutable record of funds applied against a loan.
// Rows are append-only: no update, no delete.
type Payment struct {
	ID uint64 `gorm:"primaryKey;column:id" json:"-"`
	// Public identifier (32-char lowercase hex).
	PaymentID string          `gorm:"size:32;not null;uniqueIndex:ux_payments_payment_id" json:"payment_id"`
	LoanID    uint64          `gorm:"column:loan_id;not null;index:idx_payments_loan" json:"-"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	AppliedAt time.Time       `gorm:"column:applied_at;not null" json:"applied_at"`
}

func (Payment) TableName() string { return "payments" }
