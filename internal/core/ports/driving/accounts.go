package driving

import (
	"context"

	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
)

// AccountService administers the account registry.
type AccountService interface {
	// List returns all accounts in registry order.
	List(ctx context.Context) ([]domain.Account, error)

	// Get returns the account for an email (case-insensitive).
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, email string) (*domain.Account, error)

	// Upsert inserts or replaces an account by email.
	Upsert(ctx context.Context, account domain.Account) error

	// Remove deletes an account and its stored credentials as one logical
	// operation. Returns true if the account was present.
	Remove(ctx context.Context, email string) (bool, error)

	// IsAuthorized reports whether the account exists and has stored
	// credentials.
	IsAuthorized(ctx context.Context, email string) bool
}
