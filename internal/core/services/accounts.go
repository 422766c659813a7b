package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
	"github.com/custodia-labs/gsuite-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/gsuite-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/gsuite-mcp/internal/logger"
)

// Ensure AccountService implements the interface.
var _ driving.AccountService = (*AccountService)(nil)

// AccountService administers the account registry. It owns both stores:
// removing an account also destroys its credentials, and no other component
// writes account records directly.
type AccountService struct {
	accounts driven.AccountStore
	creds    driven.CredentialsStore
}

// NewAccountService creates a new account service.
func NewAccountService(accounts driven.AccountStore, creds driven.CredentialsStore) *AccountService {
	return &AccountService{
		accounts: accounts,
		creds:    creds,
	}
}

// List returns all accounts in registry order.
func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.List(ctx)
}

// Get returns the account for an email, case-insensitively.
func (s *AccountService) Get(ctx context.Context, email string) (*domain.Account, error) {
	return s.accounts.Get(ctx, domain.NormalizeEmail(email))
}

// Upsert inserts or replaces an account by email. The write is persisted
// before Upsert returns.
func (s *AccountService) Upsert(ctx context.Context, account domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	account.Email = domain.NormalizeEmail(account.Email)
	return s.accounts.Upsert(ctx, account)
}

// Remove deletes an account and its credentials as one logical operation.
// If the credential delete fails after the registry removal succeeded, the
// orphaned credential is left behind; the credential accessor treats such
// records as invalid, so the system still fails closed.
func (s *AccountService) Remove(ctx context.Context, email string) (bool, error) {
	email = domain.NormalizeEmail(email)

	removed, err := s.accounts.Remove(ctx, email)
	if err != nil {
		return false, fmt.Errorf("removing account: %w", err)
	}
	if !removed {
		return false, nil
	}

	if _, err := s.creds.Delete(ctx, email); err != nil {
		logger.Warn("failed to remove credentials for %s: %v", email, err)
	}
	return true, nil
}

// IsAuthorized reports whether the account exists and has stored
// credentials.
func (s *AccountService) IsAuthorized(ctx context.Context, email string) bool {
	email = domain.NormalizeEmail(email)

	if _, err := s.accounts.Get(ctx, email); err != nil {
		return false
	}
	if _, err := s.creds.Load(ctx, email); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("failed to load credentials for %s: %v", email, err)
		}
		return false
	}
	return true
}
