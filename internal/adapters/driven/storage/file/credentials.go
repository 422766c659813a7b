package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
	"github.com/custodia-labs/gsuite-mcp/internal/core/ports/driven"
)

// Ensure CredentialsStore implements the interface.
var _ driven.CredentialsStore = (*CredentialsStore)(nil)

// CredentialsStore keeps one JSON credential file per account in a
// dedicated directory, separate from the registry, so losing one record
// never corrupts another. Files are written 0600 and replaced whole.
type CredentialsStore struct {
	mu  sync.Mutex
	dir string
}

// NewCredentialsStore creates a file-backed credential store rooted at dir,
// creating it with owner-only permissions if needed.
func NewCredentialsStore(dir string) (*CredentialsStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("credentials directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating credentials directory: %w", err)
	}
	return &CredentialsStore{dir: dir}, nil
}

// Load returns the stored credentials for a normalised email.
func (s *CredentialsStore) Load(_ context.Context, email string) (*domain.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.filename(email))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var creds domain.Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	return &creds, nil
}

// Save replaces the whole credential record for an email.
func (s *CredentialsStore) Save(_ context.Context, email string, creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	if err := writeFileAtomic(s.filename(email), raw); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// Delete removes the credential record for an email.
func (s *CredentialsStore) Delete(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.filename(email))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("deleting credentials: %w", err)
	}
	return true, nil
}

// Dir returns the credentials directory.
func (s *CredentialsStore) Dir() string {
	return s.dir
}

func (s *CredentialsStore) filename(email string) string {
	return filepath.Join(s.dir, fmt.Sprintf("oauth2.%s.json", domain.NormalizeEmail(email)))
}
