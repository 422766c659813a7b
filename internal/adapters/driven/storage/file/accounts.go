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

// Ensure AccountStore implements the interface.
var _ driven.AccountStore = (*AccountStore)(nil)

// AccountStore keeps the registry in a single JSON file as an ordered list,
// so insertion order survives reloads. Every mutation rewrites the file
// before returning.
type AccountStore struct {
	mu   sync.Mutex
	path string
}

// accountsFile is the persisted shape of the registry.
type accountsFile struct {
	Accounts []domain.Account `json:"accounts"`
}

// NewAccountStore creates a file-backed account store at path, creating the
// parent directory and an empty registry if needed.
func NewAccountStore(path string) (*AccountStore, error) {
	if path == "" {
		return nil, fmt.Errorf("accounts file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating accounts directory: %w", err)
	}

	s := &AccountStore{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(accountsFile{Accounts: []domain.Account{}}); err != nil {
			return nil, fmt.Errorf("initialising accounts file: %w", err)
		}
	}
	return s, nil
}

// List returns all accounts in file order.
func (s *AccountStore) List(_ context.Context) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	return data.Accounts, nil
}

// Get returns the account for a normalised email.
func (s *AccountStore) Get(_ context.Context, email string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := range data.Accounts {
		if domain.NormalizeEmail(data.Accounts[i].Email) == email {
			account := data.Accounts[i]
			return &account, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Upsert inserts or replaces an account by email, keeping its position when
// replacing.
func (s *AccountStore) Upsert(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}

	replaced := false
	for i := range data.Accounts {
		if domain.NormalizeEmail(data.Accounts[i].Email) == domain.NormalizeEmail(account.Email) {
			data.Accounts[i] = account
			replaced = true
			break
		}
	}
	if !replaced {
		data.Accounts = append(data.Accounts, account)
	}
	return s.write(*data)
}

// Remove deletes an account by email.
func (s *AccountStore) Remove(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return false, err
	}

	kept := data.Accounts[:0]
	removed := false
	for _, account := range data.Accounts {
		if domain.NormalizeEmail(account.Email) == email {
			removed = true
			continue
		}
		kept = append(kept, account)
	}
	if !removed {
		return false, nil
	}

	data.Accounts = kept
	if err := s.write(*data); err != nil {
		return false, err
	}
	return true, nil
}

// Path returns the accounts file path.
func (s *AccountStore) Path() string {
	return s.path
}

func (s *AccountStore) read() (*accountsFile, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading accounts file: %w", err)
	}
	var data accountsFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing accounts file: %w", err)
	}
	return &data, nil
}

func (s *AccountStore) write(data accountsFile) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding accounts file: %w", err)
	}
	if err := writeFileAtomic(s.path, raw); err != nil {
		return fmt.Errorf("writing accounts file: %w", err)
	}
	return nil
}
