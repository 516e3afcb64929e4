package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"loan-ledger/internal/adapter/middleware"
	"loan-ledger/internal/usecase/payment"
	"loan-ledger/internal/usecase/query"
)

type PaymentHandler struct {
	uc      *payment.Usecase
	queries *query.Usecase
}

func NewPaymentHandler(uc *payment.Usecase, queries *query.Usecase) *PaymentHandler {
	return &PaymentHandler{uc: uc, queries: queries}
}

type applyPaymentReq struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *PaymentHandler) ApplyPayment(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	var req applyPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	res, err := h.uc.Apply(c.Request().Context(), p, payment.ApplyPaymentInput{
		LoanID: loanID,
		Amount: req.Amount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *PaymentHandler) PaymentHistory(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	payments, err := h.queries.PaymentsOf(c.Request().Context(), p, loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, payments)
}
