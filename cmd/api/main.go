package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	httpadp "loan-ledger/internal/adapter/http"
	"loan-ledger/internal/adapter/middleware"
	"loan-ledger/internal/adapter/repository/mysql"
	"loan-ledger/internal/config"
	"loan-ledger/internal/infrastructure/cache"
	"loan-ledger/internal/infrastructure/db"
	authUC "loan-ledger/internal/usecase/auth"
	loanUC "loan-ledger/internal/usecase/loan"
	paymentUC "loan-ledger/internal/usecase/payment"
	queryUC "loan-ledger/internal/usecase/query"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Bootstrap(ctx, gdb, cfg.AdminPassword); err != nil {
		cancel()
		logger.Fatalf("bootstrap schema: %v", err)
	}
	cancel()

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatalf("open redis: %v", err)
	}

	accountRepo := mysql.NewAccountRepository(gdb)
	loanRepo := mysql.NewLoanRepository(gdb)
	paymentRepo := mysql.NewPaymentRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	gate := authUC.NewUsecase(accountRepo, cfg.JWTSecret, cfg.TokenTTL, logger)
	loans := loanUC.NewUsecase(loanRepo, uow, logger)
	payments := paymentUC.NewUsecase(uow, logger)
	queries := queryUC.NewUsecase(loanRepo, paymentRepo)

	h := httpadp.NewHandler()
	authH := httpadp.NewAuthHandler(gate)
	loanH := httpadp.NewLoanHandler(loans, queries)
	paymentH := httpadp.NewPaymentHandler(payments, queries)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)
	e.POST("/register", authH.Register)
	e.POST("/login", authH.Login)

	api := e.Group("", middleware.AuthMiddleware(gate),
		middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, logger))
	api.POST("/loans", loanH.RequestLoan)
	api.GET("/loans", loanH.ListLoans)
	api.GET("/loans/pending", loanH.PendingQueue)
	api.GET("/loans/all", loanH.AllLoans)
	api.POST("/loans/:loan_id/decision", loanH.DecideLoan)
	api.POST("/loans/:loan_id/payments", paymentH.ApplyPayment)
	api.GET("/loans/:loan_id/payments", paymentH.PaymentHistory)

	addr := ":" + cfg.AppPort
	logger.Infof("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		logger.Fatal(err)
	}
}
