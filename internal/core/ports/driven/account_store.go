package driven

import (
	"context"

	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
)

// AccountStore persists the account registry.
// Implementations must preserve insertion order across reloads and persist
// every mutation immediately.
type AccountStore interface {
	// List returns all accounts in storage order.
	List(ctx context.Context) ([]domain.Account, error)

	// Get returns the account for a normalised email.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, email string) (*domain.Account, error)

	// Upsert inserts or replaces an account by email.
	Upsert(ctx context.Context, account domain.Account) error

	// Remove deletes an account by email.
	// Returns true if the account was present and removed.
	Remove(ctx context.Context, email string) (bool, error)
}
