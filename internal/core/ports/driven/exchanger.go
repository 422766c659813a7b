package driven

import (
	"context"

	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
)

// CodeExchanger talks to the provider's OAuth2 endpoints: authorization URL
// construction, authorization-code exchange and refresh exchange.
type CodeExchanger interface {
	// AuthCodeURL builds the provider authorization URL carrying the client
	// identifier, requested scopes, redirect target, the state token and an
	// offline-access request.
	AuthCodeURL(state string) string

	// RedirectURI returns the redirect target embedded in authorization URLs.
	RedirectURI() string

	// Exchange swaps a one-time authorization code for tokens.
	// Provider rejections wrap domain.ErrExchangeFailed.
	Exchange(ctx context.Context, code string) (*domain.Credentials, error)

	// Refresh obtains a new access token using a refresh token.
	// Provider rejections (revoked token) wrap domain.ErrRefreshRejected;
	// transport failures do not.
	Refresh(ctx context.Context, refreshToken string) (*domain.Credentials, error)

	// UserEmail fetches the authenticated account's email address, used to
	// confirm the authorized account matches the requested one.
	UserEmail(ctx context.Context, accessToken string) (string, error)
}
