package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"loan-ledger/internal/domain/loan"
)

type RequestLoanInput struct {
	Principal  decimal.Decimal `json:"principal"`
	TermMonths int             `json:"term_months"`
}

type LoanDTO struct {
	LoanID         string          `json:"loan_id"`
	Principal      decimal.Decimal `json:"principal"`
	TermMonths     int             `json:"term_months"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	Status         string          `json:"status"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toDTO(l *loan.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:         l.LoanID,
		Principal:      l.Principal,
		TermMonths:     l.TermMonths,
		InterestRate:   l.InterestRate,
		Status:         string(l.Status),
		CurrentBalance: l.CurrentBalance,
		CreatedAt:      l.CreatedAt,
	}
}
