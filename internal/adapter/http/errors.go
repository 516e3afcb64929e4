package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"loan-ledger/internal/domain/ledger"
)

type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// writeError maps the ledger error taxonomy onto HTTP statuses. Every
// usecase failure funnels through here so the mapping lives in one
// place.
func writeError(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		code = http.StatusBadRequest
	case errors.Is(err, ledger.ErrUnauthorized):
		code = http.StatusForbidden
	case errors.Is(err, ledger.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidState):
		code = http.StatusConflict
	case errors.Is(err, ledger.ErrStoreFailure):
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}
