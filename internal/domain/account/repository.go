package account

import "context"

type Repository interface {
	// Create assigns the numeric id; the unique index on username
	// rejects duplicates at the store.
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id uint64) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
}
