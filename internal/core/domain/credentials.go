package domain

import "time"

// Credentials stores the OAuth token material for one account.
// A Credentials record exists if and only if its Account exists in the
// registry; the services enforce that invariant, not the storage layer.
type Credentials struct {
	// AccessToken is the short-lived bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is the long-lived secret used to obtain new access
	// tokens. Empty if the provider did not grant offline access.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// Expiry is when the access token expires.
	Expiry time.Time `json:"expiry,omitempty"`
	// Scopes is the set of scopes the provider actually granted.
	Scopes []string `json:"scopes,omitempty"`
}

// IsExpired returns true if the access token has expired.
func (c *Credentials) IsExpired() bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Now().After(c.Expiry)
}

// ExpiresWithin returns true if the access token expires before the given
// margin elapses. Tokens with no recorded expiry never expire.
func (c *Credentials) ExpiresWithin(margin time.Duration) bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Now().Add(margin).After(c.Expiry)
}

// HasRefreshToken returns true if a refresh token is available.
func (c *Credentials) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// HasScope returns true if the given scope was granted.
func (c *Credentials) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
