package google

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/gsuite-mcp/internal/core/ports/driving"
)

// TokenSourceAdapter adapts the manager's TokenProvider to
// oauth2.TokenSource for one account. Google API clients pull tokens
// through it on demand, so expiry and refresh stay the manager's concern.
type TokenSourceAdapter struct {
	provider driving.TokenProvider
	email    string
	ctx      context.Context
}

// NewTokenSource creates an oauth2.TokenSource bound to one account. The
// returned TokenSource can be used with option.WithTokenSource() when
// creating Google API services.
func NewTokenSource(ctx context.Context, provider driving.TokenProvider, email string) oauth2.TokenSource {
	return &TokenSourceAdapter{
		provider: provider,
		email:    email,
		ctx:      ctx,
	}
}

// Token implements oauth2.TokenSource.
func (t *TokenSourceAdapter) Token() (*oauth2.Token, error) {
	accessToken, err := t.provider.GetToken(t.ctx, t.email)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}, nil
}
