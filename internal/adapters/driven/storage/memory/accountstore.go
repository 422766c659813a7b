// Package memory provides in-memory store implementations for testing.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
	"github.com/custodia-labs/gsuite-mcp/internal/core/ports/driven"
)

// Ensure AccountStore implements the interface.
var _ driven.AccountStore = (*AccountStore)(nil)

// AccountStore is an in-memory implementation of driven.AccountStore.
// It preserves insertion order like the persistent stores.
type AccountStore struct {
	mu       sync.RWMutex
	accounts []domain.Account
}

// NewAccountStore creates a new in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{}
}

// List returns all accounts in insertion order.
func (s *AccountStore) List(_ context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Account, len(s.accounts))
	copy(out, s.accounts)
	return out, nil
}

// Get retrieves an account by normalised email.
func (s *AccountStore) Get(_ context.Context, email string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.accounts {
		if domain.NormalizeEmail(s.accounts[i].Email) == email {
			account := s.accounts[i]
			return &account, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Upsert inserts or replaces an account by email.
func (s *AccountStore) Upsert(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.accounts {
		if domain.NormalizeEmail(s.accounts[i].Email) == domain.NormalizeEmail(account.Email) {
			s.accounts[i] = account
			return nil
		}
	}
	s.accounts = append(s.accounts, account)
	return nil
}

// Remove deletes an account by email.
func (s *AccountStore) Remove(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.accounts {
		if domain.NormalizeEmail(s.accounts[i].Email) == email {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
