package uowmock

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/payment"
	"loan-ledger/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return
// errUnimplemented.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn func(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error
}

func New() *UoW { return &UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, loanID, fn)
	}
	return errUnimplemented
}

// InMemory is a UnitOfWork over an in-process loan table with the same
// serialization contract as the real store: units touching the same
// loan run one at a time, and a fn error discards its writes, the
// loan mutation and any payment rows alike. Handy for exercising
// concurrent usecase flows without a database.
type InMemory struct {
	mu    sync.Mutex
	Loans map[string]*loan.Loan
	log   []payment.Payment
	Repos uow.Repos
}

func NewInMemory(repos uow.Repos) *InMemory {
	return &InMemory{Loans: make(map[string]*loan.Loan), Repos: repos}
}

// CommittedPayments returns the payment rows written by committed
// units, oldest first.
func (m *InMemory) CommittedPayments() []payment.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]payment.Payment, len(m.log))
	copy(out, m.log)
	return out
}

// stagedPayments delegates Create to the inner repository so injected
// errors still surface inside fn, then holds the row in a per-unit
// buffer that only a successful unit merges into the committed log.
type stagedPayments struct {
	inner payment.Repository
	buf   []payment.Payment
}

func (s *stagedPayments) Create(ctx context.Context, p *payment.Payment) error {
	if err := s.inner.Create(ctx, p); err != nil {
		return err
	}
	s.buf = append(s.buf, *p)
	return nil
}

func (s *stagedPayments) ListByLoanID(ctx context.Context, loanID uint64) ([]payment.Payment, error) {
	return s.inner.ListByLoanID(ctx, loanID)
}

func (m *InMemory) Put(l *loan.Loan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	m.Loans[l.LoanID] = &cp
}

func (m *InMemory) Get(loanID string) *loan.Loan {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.Loans[loanID]; ok {
		cp := *l
		return &cp
	}
	return nil
}

func (m *InMemory) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.Repos)
}

func (m *InMemory) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.Loans[loanID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// fn mutates a copy and stages its payment rows; both commit only
	// on success
	cp := *stored
	staged := &stagedPayments{inner: m.Repos.Payments}
	repos := m.Repos
	repos.Payments = staged
	if err := fn(repos, &cp); err != nil {
		return err
	}
	m.Loans[loanID] = &cp
	m.log = append(m.log, staged.buf...)
	return nil
}
