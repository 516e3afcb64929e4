package account

import "time"

type Account struct {
	ID uint64 `gorm:"primaryKey;column:id" json:"-"`
	// Unique, case-sensitive, immutable after creation.
	Username string `gorm:"size:50;not null;uniqueIndex:ux_accounts_username" json:"username"`
	// Owned by the access gate; the ledger never reads it.
	CredentialHash string    `gorm:"column:credential_hash;size:100;not null" json:"-"`
	IsAdmin        bool      `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Account) TableName() string { return "accounts" }
