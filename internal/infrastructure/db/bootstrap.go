package db

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"loan-ledger/internal/domain/account"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/payment"
)

const AdminUsername = "admin"

// Bootstrap migrates the three entity tables and seeds the initial
// admin account when none exists. Safe to run on every start.
func Bootstrap(ctx context.Context, gdb *gorm.DB, adminPassword string) error {
	if err := gdb.WithContext(ctx).AutoMigrate(
		&account.Account{},
		&loan.Loan{},
		&payment.Payment{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	// MySQL's default utf8mb4 collation folds case, which would let
	// "admin" and "Admin" collide on the unique index. usernames are
	// case-sensitive, so the column needs a binary collation. sqlite
	// compares bytes already and rejects MySQL collation names.
	if gdb.Dialector.Name() == "mysql" {
		if err := gdb.WithContext(ctx).Exec(
			"ALTER TABLE accounts MODIFY username varchar(50) COLLATE utf8mb4_bin NOT NULL",
		).Error; err != nil {
			return fmt.Errorf("set username collation: %w", err)
		}
	}

	var admin account.Account
	err := gdb.WithContext(ctx).Where("username = ?", AdminUsername).First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin = account.Account{
		Username:       AdminUsername,
		CredentialHash: string(hash),
		IsAdmin:        true,
	}
	if err := gdb.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin account: %w", err)
	}
	return nil
}
