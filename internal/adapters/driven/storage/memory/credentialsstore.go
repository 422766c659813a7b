package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
	"github.com/custodia-labs/gsuite-mcp/internal/core/ports/driven"
)

// Ensure CredentialsStore implements the interface.
var _ driven.CredentialsStore = (*CredentialsStore)(nil)

// CredentialsStore is an in-memory implementation of
// driven.CredentialsStore for testing.
type CredentialsStore struct {
	mu    sync.RWMutex
	creds map[string]domain.Credentials
}

// NewCredentialsStore creates a new in-memory credentials store.
func NewCredentialsStore() *CredentialsStore {
	return &CredentialsStore{
		creds: make(map[string]domain.Credentials),
	}
}

// Load retrieves the credential record for an email.
func (s *CredentialsStore) Load(_ context.Context, email string) (*domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds, ok := s.creds[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &creds, nil
}

// Save overwrites the whole credential record for an email.
func (s *CredentialsStore) Save(_ context.Context, email string, creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds[domain.NormalizeEmail(email)] = creds
	return nil
}

// Delete removes the credential record for an email.
func (s *CredentialsStore) Delete(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = domain.NormalizeEmail(email)
	if _, ok := s.creds[email]; !ok {
		return false, nil
	}
	delete(s.creds, email)
	return true, nil
}
