package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
	"github.com/custodia-labs/gsuite-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/gsuite-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/gsuite-mcp/internal/logger"
)

// defaultExpiryMargin is how close to expiry a token may be before it is
// refreshed anyway.
const defaultExpiryMargin = 60 * time.Second

// Ensure TokenService implements the interface.
var _ driving.TokenProvider = (*TokenService)(nil)

// TokenService is the credential accessor: a lazy validity check with
// refresh-on-demand. It fails closed on orphaned credentials and never
// starts a browser flow on its own.
type TokenService struct {
	accounts  driven.AccountStore
	creds     driven.CredentialsStore
	exchanger driven.CodeExchanger
	margin    time.Duration

	mu sync.Mutex
}

// NewTokenService creates a new credential accessor with the default
// 60-second expiry safety margin.
func NewTokenService(accounts driven.AccountStore, creds driven.CredentialsStore, exchanger driven.CodeExchanger) *TokenService {
	return &TokenService{
		accounts:  accounts,
		creds:     creds,
		exchanger: exchanger,
		margin:    defaultExpiryMargin,
	}
}

// GetToken returns a valid access token for an account, refreshing and
// persisting it if the stored token is expired or about to expire.
func (s *TokenService) GetToken(ctx context.Context, email string) (string, error) {
	email = domain.NormalizeEmail(email)

	// A credential with no matching registry entry is invalid.
	if _, err := s.accounts.Get(ctx, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrUnknownAccount
		}
		return "", fmt.Errorf("looking up account: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.creds.Load(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotAuthorized
		}
		return "", fmt.Errorf("loading credentials: %w", err)
	}

	if !creds.ExpiresWithin(s.margin) {
		return creds.AccessToken, nil
	}

	if !creds.HasRefreshToken() {
		// Nothing left to refresh with; drop the stale record so the next
		// attempt forces a clean re-authorization.
		s.deleteStale(ctx, email)
		return "", domain.ErrReauthorizationRequired
	}

	refreshed, err := s.exchanger.Refresh(ctx, creds.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrRefreshRejected) {
			s.deleteStale(ctx, email)
			return "", fmt.Errorf("%v: %w", err, domain.ErrReauthorizationRequired)
		}
		return "", fmt.Errorf("refreshing token: %w", err)
	}

	// The refresh token is retained unless the provider issued a new one.
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = creds.RefreshToken
	}
	if len(refreshed.Scopes) == 0 {
		refreshed.Scopes = creds.Scopes
	}

	if err := s.creds.Save(ctx, email, *refreshed); err != nil {
		return "", fmt.Errorf("saving refreshed credentials: %w", err)
	}

	logger.Debug("refreshed access token for %s", email)
	return refreshed.AccessToken, nil
}

// deleteStale removes a credential record that can no longer produce valid
// tokens. The account itself is kept.
func (s *TokenService) deleteStale(ctx context.Context, email string) {
	if _, err := s.creds.Delete(ctx, email); err != nil {
		logger.Warn("failed to delete stale credentials for %s: %v", email, err)
	}
}
