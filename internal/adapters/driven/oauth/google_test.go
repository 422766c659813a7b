package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
)

// newTestClient points a client at a stand-in token endpoint.
func newTestClient(tokenURL string) *Client {
	return &Client{
		cfg: &oauth2.Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  "http://localhost:8080/callback",
			Scopes:       []string{"openid", "https://mail.google.com/"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  googleAuthURL,
				TokenURL: tokenURL,
			},
		},
		limiter: rate.NewLimiter(rate.Inf, 1),
		http:    http.DefaultClient,
	}
}

func TestClient_AuthCodeURL(t *testing.T) {
	client := NewClient("client-id", "client-secret", "http://localhost:8080/callback",
		[]string{"openid", "https://mail.google.com/"})

	raw := client.AuthCodeURL("state-token")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "accounts.google.com", u.Host)
	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "http://localhost:8080/callback", q.Get("redirect_uri"))
	assert.Equal(t, "state-token", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Contains(t, q.Get("scope"), "https://mail.google.com/")
}

func TestClient_RedirectURI(t *testing.T) {
	client := NewClient("id", "secret", "http://localhost:9090/callback", nil)
	assert.Equal(t, "http://localhost:9090/callback", client.RedirectURI())
}

func TestClient_Exchange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "auth-code", r.Form.Get("code"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "access-123",
			"refresh_token": "refresh-456",
			"token_type": "Bearer",
			"expires_in": 3600,
			"scope": "openid https://mail.google.com/"
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	creds, err := client.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "access-123", creds.AccessToken)
	assert.Equal(t, "refresh-456", creds.RefreshToken)
	assert.Equal(t, "Bearer", creds.TokenType)
	assert.True(t, creds.Expiry.After(time.Now()))
	assert.Equal(t, []string{"openid", "https://mail.google.com/"}, creds.Scopes)
}

func TestClient_Exchange_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid_grant"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Exchange(context.Background(), "used-code")

	require.ErrorIs(t, err, domain.ErrExchangeFailed)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestClient_Refresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "refresh-456", r.Form.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "access-789",
			"token_type": "Bearer",
			"expires_in": 3600
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	creds, err := client.Refresh(context.Background(), "refresh-456")
	require.NoError(t, err)

	assert.Equal(t, "access-789", creds.AccessToken)
	assert.Empty(t, creds.RefreshToken, "response carried no new refresh token")
}

func TestClient_Refresh_Revoked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid_grant"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Refresh(context.Background(), "revoked-token")

	assert.ErrorIs(t, err, domain.ErrRefreshRejected)
}

func TestClient_Refresh_TransportFailure(t *testing.T) {
	// A closed server produces a connection error, not a provider rejection.
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)
	_, err := client.Refresh(context.Background(), "refresh-456")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRefreshRejected)
}

func TestCredentialsFromToken_NoScopeExtra(t *testing.T) {
	token := &oauth2.Token{
		AccessToken: "access",
		TokenType:   "Bearer",
	}

	creds := credentialsFromToken(token)
	assert.Empty(t, creds.Scopes)
}
