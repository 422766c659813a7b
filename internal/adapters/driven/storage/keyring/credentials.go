// Package keyring provides a credential store backed by the OS-native
// secret service: macOS Keychain, Windows Credential Manager, or the Linux
// Secret Service.
package keyring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
	"github.com/custodia-labs/gsuite-mcp/internal/core/ports/driven"
)

// Ensure CredentialsStore implements the interface.
var _ driven.CredentialsStore = (*CredentialsStore)(nil)

// CredentialsStore keeps one keyring entry per account, keyed by the
// service name and the account's email.
type CredentialsStore struct {
	service string
}

// NewCredentialsStore creates a keyring-backed credential store under the
// given service name.
func NewCredentialsStore(service string) (*CredentialsStore, error) {
	if service == "" {
		return nil, fmt.Errorf("keyring service name cannot be empty")
	}
	return &CredentialsStore{service: service}, nil
}

// Load retrieves the credential record for an email.
func (s *CredentialsStore) Load(ctx context.Context, email string) (*domain.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := keyring.Get(s.service, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading keyring entry: %w", err)
	}

	var creds domain.Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, fmt.Errorf("parsing keyring entry: %w", err)
	}
	return &creds, nil
}

// Save overwrites the keyring entry for an email.
func (s *CredentialsStore) Save(ctx context.Context, email string, creds domain.Credentials) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	if err := keyring.Set(s.service, domain.NormalizeEmail(email), string(raw)); err != nil {
		return fmt.Errorf("writing keyring entry: %w", err)
	}
	return nil
}

// Delete removes the keyring entry for an email.
func (s *CredentialsStore) Delete(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	err := keyring.Delete(s.service, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("deleting keyring entry: %w", err)
	}
	return true, nil
}
