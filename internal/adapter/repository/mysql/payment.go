package mysql

import (
	"context"

	"gorm.io/gorm"

	paymentDomain "loan-ledger/internal/domain/payment"
)

// PaymentRepository is append-only on purpose: no Save, no Delete.
type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("applied_at DESC, id DESC").
		Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return out, nil
}
