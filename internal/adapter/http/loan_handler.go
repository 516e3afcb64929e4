package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"loan-ledger/internal/adapter/middleware"
	loanDomain "loan-ledger/internal/domain/loan"
	"loan-ledger/internal/usecase/loan"
	"loan-ledger/internal/usecase/query"
)

type LoanHandler struct {
	uc      *loan.Usecase
	queries *query.Usecase
}

func NewLoanHandler(uc *loan.Usecase, queries *query.Usecase) *LoanHandler {
	return &LoanHandler{uc: uc, queries: queries}
}

type requestLoanReq struct {
	Principal  decimal.Decimal `json:"principal"`
	TermMonths int             `json:"term_months" validate:"required,min=1"`
}

func (h *LoanHandler) RequestLoan(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	var req requestLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Request(c.Request().Context(), p, loan.RequestLoanInput{
		Principal:  req.Principal,
		TermMonths: req.TermMonths,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type decideLoanReq struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

func (h *LoanHandler) DecideLoan(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	var req decideLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Decide(c.Request().Context(), p, loanID, loanDomain.Decision(req.Decision))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ListLoans serves the caller's own loans; an admin may pass
// ?account_id= to read another account's.
func (h *LoanHandler) ListLoans(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	accountID := p.AccountID
	if raw := c.QueryParam("account_id"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account_id query param"})
		}
		accountID = n
	}
	loans, err := h.queries.LoansOf(c.Request().Context(), p, accountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *LoanHandler) PendingQueue(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	queue, err := h.queries.PendingQueue(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, queue)
}

func (h *LoanHandler) AllLoans(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	loans, err := h.queries.AllLoans(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, loans)
}
