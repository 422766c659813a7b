package driven

import (
	"context"

	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
)

// CredentialsStore persists per-account OAuth token material, isolated from
// the account registry. Records contain secrets: implementations must write
// with restrictive access and never log token values.
type CredentialsStore interface {
	// Load returns the credentials stored for a normalised email.
	// Returns domain.ErrNotFound if absent.
	Load(ctx context.Context, email string) (*domain.Credentials, error)

	// Save overwrites the whole credential record for an email. Partial
	// updates are never visible to other readers.
	Save(ctx context.Context, email string, creds domain.Credentials) error

	// Delete removes the credential record for an email.
	// Returns true if a record was present and removed.
	Delete(ctx context.Context, email string) (bool, error)
}
