package services

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
	"github.com/custodia-labs/gsuite-mcp/internal/core/ports/driven"
)

// fakeExchanger is a scriptable driven.CodeExchanger for service tests.
type fakeExchanger struct {
	mu sync.Mutex

	exchangeErr  error
	refreshErr   error
	userEmail    string
	userEmailErr error

	refreshCalls  int
	exchangedCode string

	// issued by Exchange/Refresh; defaults are filled in lazily
	creds *domain.Credentials
}

func newFakeExchanger() *fakeExchanger {
	return &fakeExchanger{}
}

func (f *fakeExchanger) AuthCodeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/v2/auth?state=" + url.QueryEscape(state)
}

func (f *fakeExchanger) RedirectURI() string {
	return "http://localhost:8080/callback"
}

func (f *fakeExchanger) Exchange(_ context.Context, code string) (*domain.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	f.exchangedCode = code
	return f.issue(), nil
}

func (f *fakeExchanger) Refresh(_ context.Context, _ string) (*domain.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.refreshCalls++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.issue(), nil
}

func (f *fakeExchanger) UserEmail(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.userEmailErr != nil {
		return "", f.userEmailErr
	}
	return f.userEmail, nil
}

func (f *fakeExchanger) issue() *domain.Credentials {
	if f.creds != nil {
		c := *f.creds
		return &c
	}
	return &domain.Credentials{
		AccessToken:  fmt.Sprintf("access-%d", time.Now().UnixNano()),
		RefreshToken: "refresh-token",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
		Scopes:       []string{"openid", "https://mail.google.com/"},
	}
}

// fakeListener is a scriptable driven.CallbackListener.
type fakeListener struct {
	startErr error
	redirect *driven.Redirect
	awaitErr error

	// when set, AwaitRedirect blocks until context cancellation or timeout
	block bool

	closed bool
}

var _ driven.CallbackListener = (*fakeListener)(nil)

func (f *fakeListener) Start() error { return f.startErr }

func (f *fakeListener) AwaitRedirect(ctx context.Context, timeout time.Duration) (*driven.Redirect, error) {
	if f.block {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(timeout):
			return nil, domain.ErrCallbackTimeout
		}
	}
	if f.awaitErr != nil {
		return nil, f.awaitErr
	}
	return f.redirect, nil
}

func (f *fakeListener) RedirectURI() string { return "http://localhost:8080/callback" }

func (f *fakeListener) Close() error {
	f.closed = true
	return nil
}

func listenerFactory(l *fakeListener) driven.ListenerFactory {
	return func() driven.CallbackListener { return l }
}
