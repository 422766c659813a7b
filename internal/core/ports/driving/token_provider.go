package driving

import "context"

// TokenProvider is the single entry point API clients use to obtain a
// usable access token for an account. Expired tokens are refreshed
// transparently; conditions requiring user interaction are surfaced as
// domain errors and never trigger a browser flow.
type TokenProvider interface {
	// GetToken returns a valid access token for the account's email.
	// Fails with domain.ErrUnknownAccount, domain.ErrNotAuthorized or
	// domain.ErrReauthorizationRequired.
	GetToken(ctx context.Context, email string) (string, error)
}
