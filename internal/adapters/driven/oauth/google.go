// Package oauth implements the provider-facing OAuth2 exchanges for Google:
// authorization URL construction, code exchange and token refresh.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
	"github.com/custodia-labs/gsuite-mcp/internal/core/ports/driven"
)

// Google OAuth2 endpoints.
const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"
	userInfoURL    = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Token endpoint rate limit, conservative to stay well below Google's.
const (
	tokenRequestsPerSecond = 1.0
	tokenBurstSize         = 3
)

// Ensure Client implements the exchanger port.
var _ driven.CodeExchanger = (*Client)(nil)

// Client performs OAuth2 exchanges against Google's endpoints on behalf of
// one configured OAuth application.
type Client struct {
	cfg     *oauth2.Config
	limiter *rate.Limiter
	http    *http.Client
}

// NewClient creates a Google exchanger for the given OAuth application.
func NewClient(clientID, clientSecret, redirectURI string, scopes []string) *Client {
	return &Client{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  googleAuthURL,
				TokenURL: googleTokenURL,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(tokenRequestsPerSecond), tokenBurstSize),
		http:    http.DefaultClient,
	}
}

// AuthCodeURL builds the authorization URL. access_type=offline requests a
// refresh token; prompt=consent makes Google issue one even for accounts
// that authorized the application before.
func (c *Client) AuthCodeURL(state string) string {
	return c.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// RedirectURI returns the redirect target embedded in authorization URLs.
func (c *Client) RedirectURI() string {
	return c.cfg.RedirectURL
}

// Exchange swaps an authorization code for tokens.
func (c *Client) Exchange(ctx context.Context, code string) (*domain.Credentials, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	token, err := c.cfg.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("%s: %w", retrieveErr.ErrorCode, domain.ErrExchangeFailed)
		}
		return nil, fmt.Errorf("exchanging code: %w", err)
	}

	return credentialsFromToken(token), nil
}

// Refresh obtains a new access token. A token-endpoint error response means
// the refresh token was revoked or is invalid and wraps
// domain.ErrRefreshRejected; transport failures are returned as-is so the
// caller can retry them.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.Credentials, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	source := c.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("%s: %w", retrieveErr.ErrorCode, domain.ErrRefreshRejected)
		}
		return nil, fmt.Errorf("refreshing token: %w", err)
	}

	return credentialsFromToken(token), nil
}

// UserEmail fetches the authenticated user's email address from the
// userinfo endpoint.
func (c *Client) UserEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("user info request failed with status %d", resp.StatusCode)
	}

	var userInfo struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return "", fmt.Errorf("decode user info: %w", err)
	}
	return userInfo.Email, nil
}

// credentialsFromToken maps an oauth2 token to the domain record, including
// the granted scope set Google reports in the token response.
func credentialsFromToken(token *oauth2.Token) *domain.Credentials {
	creds := &domain.Credentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}
	if granted, ok := token.Extra("scope").(string); ok && granted != "" {
		creds.Scopes = strings.Fields(granted)
	}
	return creds
}
