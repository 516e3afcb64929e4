package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"loan-ledger/internal/domain/account"
	"loan-ledger/internal/domain/ledger"
)

// Usecase is the access gate: it owns credential hashes and token
// issuance, and hands the ledger core nothing but a Principal.
type Usecase struct {
	accounts account.Repository
	secret   []byte
	tokenTTL time.Duration
	log      *logrus.Logger
}

func NewUsecase(accounts account.Repository, jwtSecret string, tokenTTL time.Duration, log *logrus.Logger) *Usecase {
	return &Usecase{accounts: accounts, secret: []byte(jwtSecret), tokenTTL: tokenTTL, log: log}
}

type claims struct {
	jwt.RegisteredClaims
	IsAdmin bool `json:"adm"`
}

type AccountDTO struct {
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// Register creates a non-admin account. Usernames are case-sensitive
// and must be unique.
func (u *Usecase) Register(ctx context.Context, username, password string) (*AccountDTO, error) {
	if username == "" || len(username) > 50 {
		return nil, fmt.Errorf("%w: username must be 1-50 characters", ledger.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ledger.ErrInvalidInput)
	}

	if _, err := u.accounts.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username %q already exists", ledger.ErrInvalidInput, username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: look up username: %v", ledger.ErrStoreFailure, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	a := &account.Account{Username: username, CredentialHash: string(hash)}
	if err := u.accounts.Create(ctx, a); err != nil {
		// unique index may still fire under a concurrent register
		return nil, fmt.Errorf("%w: username %q already exists", ledger.ErrInvalidInput, username)
	}

	u.log.WithField("username", username).Info("account registered")
	return &AccountDTO{Username: a.Username, IsAdmin: a.IsAdmin, CreatedAt: a.CreatedAt}, nil
}

// Login verifies the credential and issues an HS256 token carrying the
// account id and admin flag.
func (u *Usecase) Login(ctx context.Context, username, password string) (string, error) {
	a, err := u.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: invalid credentials", ledger.ErrUnauthorized)
		}
		return "", fmt.Errorf("%w: look up username: %v", ledger.ErrStoreFailure, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.CredentialHash), []byte(password)); err != nil {
		return "", fmt.Errorf("%w: invalid credentials", ledger.ErrUnauthorized)
	}

	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(a.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.tokenTTL)),
		},
		IsAdmin: a.IsAdmin,
	})
	signed, err := token.SignedString(u.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	u.log.WithField("username", username).Info("account logged in")
	return signed, nil
}

// Authenticate resolves a bearer token to a Principal.
func (u *Usecase) Authenticate(tokenString string) (ledger.Principal, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return u.secret, nil
	})
	if err != nil || !token.Valid {
		return ledger.Principal{}, fmt.Errorf("%w: invalid token", ledger.ErrUnauthorized)
	}
	accountID, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return ledger.Principal{}, fmt.Errorf("%w: invalid token subject", ledger.ErrUnauthorized)
	}
	return ledger.Principal{AccountID: accountID, IsAdmin: c.IsAdmin}, nil
}
