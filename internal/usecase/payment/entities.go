package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type ApplyPaymentInput struct {
	LoanID string          `json:"loan_id"`
	Amount decimal.Decimal `json:"amount"`
}

// ApplyPaymentResult reports the loan as it stands after the commit.
type ApplyPaymentResult struct {
	PaymentID      string          `json:"payment_id"`
	LoanID         string          `json:"loan_id"`
	Amount         decimal.Decimal `json:"amount"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Status         string          `json:"status"`
	AppliedAt      time.Time       `json:"applied_at"`
}
