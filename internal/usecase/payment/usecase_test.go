package payment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"loan-ledger/internal/domain/ledger"
	loanDomain "loan-ledger/internal/domain/loan"
	paymentDomain "loan-ledger/internal/domain/payment"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/internal/testutil/loanmock"
	"loan-ledger/internal/testutil/paymentmock"
	"loan-ledger/internal/testutil/uowmock"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

const loanID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

var (
	owner    = ledger.Principal{AccountID: 7}
	admin    = ledger.Principal{AccountID: 1, IsAdmin: true}
	stranger = ledger.Principal{AccountID: 9}
)

// harness wires the usecase to an in-memory uow that serializes units
// per loan and commits only on success, like the real store. Committed
// payment rows are read back from the uow's log.
type harness struct {
	uc        *Usecase
	uow       *uowmock.InMemory
	mu        sync.Mutex
	loanSaves int
}

func newHarness(balance string, status loanDomain.Status) *harness {
	h := &harness{}
	repos := uow.Repos{
		Loans: &loanmock.Repo{
			SaveFn: func(ctx context.Context, l *loanDomain.Loan) error {
				h.mu.Lock()
				defer h.mu.Unlock()
				h.loanSaves++
				return nil
			},
		},
		Payments: &paymentmock.Repo{},
	}
	h.uow = uowmock.NewInMemory(repos)
	h.uow.Put(&loanDomain.Loan{
		ID:             1,
		LoanID:         loanID,
		AccountID:      owner.AccountID,
		Principal:      dec("100.00"),
		TermMonths:     12,
		InterestRate:   dec("6"),
		Status:         status,
		CurrentBalance: dec(balance),
	})
	h.uc = NewUsecase(h.uow, testLogger())
	return h
}

func (h *harness) paymentSum() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range h.uow.CommittedPayments() {
		sum = sum.Add(p.Amount)
	}
	return sum
}

func TestApply_SequentialPayoff(t *testing.T) {
	h := newHarness("100.00", loanDomain.StatusApproved)
	ctx := context.Background()

	res, err := h.uc.Apply(ctx, owner, ApplyPaymentInput{LoanID: loanID, Amount: dec("40.00")})
	if err != nil {
		t.Fatalf("first Apply err: %v", err)
	}
	if !res.CurrentBalance.Equal(dec("60.00")) {
		t.Fatalf("balance after 40 = %s, want 60.00", res.CurrentBalance)
	}
	if res.Status != string(loanDomain.StatusApproved) {
		t.Fatalf("status after partial payment = %s, want approved", res.Status)
	}

	res, err = h.uc.Apply(ctx, owner, ApplyPaymentInput{LoanID: loanID, Amount: dec("60.00")})
	if err != nil {
		t.Fatalf("second Apply err: %v", err)
	}
	if !res.CurrentBalance.IsZero() {
		t.Fatalf("balance after payoff = %s, want 0", res.CurrentBalance)
	}
	if res.Status != string(loanDomain.StatusPaid) {
		t.Fatalf("status after payoff = %s, want paid", res.Status)
	}

	// a third payment of any positive amount must fail
	_, err = h.uc.Apply(ctx, owner, ApplyPaymentInput{LoanID: loanID, Amount: dec("0.01")})
	if !errors.Is(err, ledger.ErrInvalidState) {
		t.Fatalf("payment on paid loan err = %v, want ErrInvalidState", err)
	}

	// ledger invariant: principal - sum(payments) == balance
	if got := dec("100.00").Sub(h.paymentSum()); !got.IsZero() {
		t.Fatalf("principal - payments = %s, want 0", got)
	}
	if rows := h.uow.CommittedPayments(); len(rows) != 2 {
		t.Fatalf("payment rows = %d, want 2", len(rows))
	}
	if h.loanSaves != 2 {
		t.Fatalf("loan saves = %d, want one per committed payment", h.loanSaves)
	}
}

func TestApply_Overpay(t *testing.T) {
	h := newHarness("50.00", loanDomain.StatusApproved)
	_, err := h.uc.Apply(context.Background(), owner, ApplyPaymentInput{LoanID: loanID, Amount: dec("50.01")})
	if !errors.Is(err, ledger.ErrInvalidState) {
		t.Fatalf("overpay err = %v, want ErrInvalidState", err)
	}
	if got := h.uow.Get(loanID).CurrentBalance; !got.Equal(dec("50.00")) {
		t.Fatalf("balance changed on rejected overpay: %s", got)
	}
	if rows := h.uow.CommittedPayments(); len(rows) != 0 {
		t.Fatalf("payment log changed on rejected overpay: %d rows", len(rows))
	}
}

func TestApply_InvalidAmount(t *testing.T) {
	h := newHarness("100.00", loanDomain.StatusApproved)
	for _, amt := range []string{"0", "-5", "10.005"} {
		_, err := h.uc.Apply(context.Background(), owner, ApplyPaymentInput{LoanID: loanID, Amount: dec(amt)})
		if !errors.Is(err, ledger.ErrInvalidInput) {
			t.Fatalf("amount %s err = %v, want ErrInvalidInput", amt, err)
		}
	}
}

func TestApply_StatusGuards(t *testing.T) {
	for _, status := range []loanDomain.Status{loanDomain.StatusPending, loanDomain.StatusRejected, loanDomain.StatusPaid} {
		h := newHarness("100.00", status)
		_, err := h.uc.Apply(context.Background(), owner, ApplyPaymentInput{LoanID: loanID, Amount: dec("10.00")})
		if !errors.Is(err, ledger.ErrInvalidState) {
			t.Fatalf("status %s err = %v, want ErrInvalidState", status, err)
		}
	}
}

func TestApply_Authorization(t *testing.T) {
	h := newHarness("100.00", loanDomain.StatusApproved)
	ctx := context.Background()

	_, err := h.uc.Apply(ctx, stranger, ApplyPaymentInput{LoanID: loanID, Amount: dec("10.00")})
	if !errors.Is(err, ledger.ErrUnauthorized) {
		t.Fatalf("stranger err = %v, want ErrUnauthorized", err)
	}

	// admin may pay on anyone's loan
	if _, err := h.uc.Apply(ctx, admin, ApplyPaymentInput{LoanID: loanID, Amount: dec("10.00")}); err != nil {
		t.Fatalf("admin Apply err: %v", err)
	}
}

func TestApply_NotFound(t *testing.T) {
	h := newHarness("100.00", loanDomain.StatusApproved)
	_, err := h.uc.Apply(context.Background(), owner, ApplyPaymentInput{
		LoanID: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		Amount: dec("10.00"),
	})
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// Two simultaneous payments of 70 against a balance of 100: exactly one
// commits (balance 30, one payment row), the other fails its balance
// check against the committed state.
func TestApply_ConcurrentPayments(t *testing.T) {
	h := newHarness("100.00", loanDomain.StatusApproved)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.uc.Apply(ctx, owner, ApplyPaymentInput{LoanID: loanID, Amount: dec("70.00")})
		}(i)
	}
	wg.Wait()

	var okCount, stateCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, ledger.ErrInvalidState):
			stateCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if okCount != 1 || stateCount != 1 {
		t.Fatalf("got %d successes and %d state errors, want exactly 1 and 1", okCount, stateCount)
	}

	l := h.uow.Get(loanID)
	if !l.CurrentBalance.Equal(dec("30.00")) {
		t.Fatalf("balance = %s, want 30.00", l.CurrentBalance)
	}
	if l.Status != loanDomain.StatusApproved {
		t.Fatalf("status = %s, want approved", l.Status)
	}
	if rows := h.uow.CommittedPayments(); len(rows) != 1 {
		t.Fatalf("payment rows = %d, want exactly 1", len(rows))
	}
	if got := l.Principal.Sub(h.paymentSum()); !got.Equal(l.CurrentBalance) {
		t.Fatalf("principal - payments = %s, balance = %s", got, l.CurrentBalance)
	}
}

// A store failure while appending the payment row must roll back the
// balance decrement.
func TestApply_RollbackOnPaymentWriteFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	repos := uow.Repos{
		Loans: &loanmock.Repo{},
		Payments: &paymentmock.Repo{
			CreateFn: func(ctx context.Context, p *paymentDomain.Payment) error { return boom },
		},
	}
	mem := uowmock.NewInMemory(repos)
	mem.Put(&loanDomain.Loan{
		ID: 1, LoanID: loanID, AccountID: owner.AccountID,
		Principal: dec("100.00"), Status: loanDomain.StatusApproved,
		CurrentBalance: dec("100.00"),
	})
	uc := NewUsecase(mem, testLogger())

	_, err := uc.Apply(context.Background(), owner, ApplyPaymentInput{LoanID: loanID, Amount: dec("10.00")})
	if !errors.Is(err, ledger.ErrStoreFailure) {
		t.Fatalf("err = %v, want ErrStoreFailure", err)
	}
	if got := mem.Get(loanID).CurrentBalance; !got.Equal(dec("100.00")) {
		t.Fatalf("balance after rollback = %s, want 100.00", got)
	}
}

// A store failure after the payment row was already appended must
// discard that row along with the balance decrement.
func TestApply_RollbackOnLoanSaveFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	repos := uow.Repos{
		Loans: &loanmock.Repo{
			SaveFn: func(ctx context.Context, l *loanDomain.Loan) error { return boom },
		},
		Payments: &paymentmock.Repo{},
	}
	mem := uowmock.NewInMemory(repos)
	mem.Put(&loanDomain.Loan{
		ID: 1, LoanID: loanID, AccountID: owner.AccountID,
		Principal: dec("100.00"), Status: loanDomain.StatusApproved,
		CurrentBalance: dec("100.00"),
	})
	uc := NewUsecase(mem, testLogger())

	_, err := uc.Apply(context.Background(), owner, ApplyPaymentInput{LoanID: loanID, Amount: dec("10.00")})
	if !errors.Is(err, ledger.ErrStoreFailure) {
		t.Fatalf("err = %v, want ErrStoreFailure", err)
	}
	if got := mem.Get(loanID).CurrentBalance; !got.Equal(dec("100.00")) {
		t.Fatalf("balance after rollback = %s, want 100.00", got)
	}
	if rows := mem.CommittedPayments(); len(rows) != 0 {
		t.Fatalf("payment log after rollback = %d rows, want 0", len(rows))
	}
}
