package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	accountDomain "loan-ledger/internal/domain/account"
	"loan-ledger/internal/testutil/accountmock"
	"loan-ledger/internal/usecase/auth"
)

func testGate(t *testing.T) *auth.Usecase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return auth.NewUsecase(&accountmock.Repo{
		GetByUsernameFn: func(ctx context.Context, username string) (*accountDomain.Account, error) {
			return &accountDomain.Account{ID: 11, Username: username, CredentialHash: string(hash), IsAdmin: true}, nil
		},
	}, "test-secret", time.Hour, log)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	gate := testGate(t)
	token, err := gate.Login(context.Background(), "alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := AuthMiddleware(gate)(func(c echo.Context) error {
		called = true
		p, ok := PrincipalFrom(c)
		if !ok {
			t.Fatal("principal missing from context")
		}
		if p.AccountID != 11 || !p.IsAdmin {
			t.Fatalf("principal = %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if !called {
		t.Fatal("next handler was not called")
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	gate := testGate(t)
	e := echo.New()

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			h := AuthMiddleware(gate)(func(c echo.Context) error {
				t.Fatal("next must not be called")
				return nil
			})
			if err := h(c); err != nil {
				t.Fatalf("handler err: %v", err)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}
