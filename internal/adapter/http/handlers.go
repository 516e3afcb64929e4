package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler serves the routes that sit outside the ledger proper.
type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

// Health is a liveness probe; it does not touch MySQL or Redis.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"service": "loan-ledger",
		"status":  "ok",
		"time":    time.Now().UTC().Format(time.RFC3339Nano),
	})
}
