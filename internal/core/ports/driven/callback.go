package driven

import (
	"context"
	"time"
)

// Redirect carries the query parameters of one provider redirect.
type Redirect struct {
	Code  string
	State string
}

// CallbackListener is a single-use local endpoint that captures one OAuth
// redirect. Start binds the port; AwaitRedirect blocks until a well-formed
// redirect arrives, the timeout elapses, or the context is cancelled.
// Close releases the port on every exit path and is idempotent.
type CallbackListener interface {
	// Start binds the listener's port.
	// Wraps domain.ErrPortUnavailable if the port is already in use.
	Start() error

	// AwaitRedirect blocks for the first well-formed redirect. Returns
	// domain.ErrCallbackTimeout when the deadline elapses, ctx.Err() when
	// cancelled, and an error wrapping domain.ErrProviderDenied when the
	// redirect carries an error parameter.
	AwaitRedirect(ctx context.Context, timeout time.Duration) (*Redirect, error)

	// RedirectURI returns the redirect target served by this listener.
	RedirectURI() string

	// Close stops accepting connections, releases the port and joins the
	// serving goroutine.
	Close() error
}

// ListenerFactory creates a fresh CallbackListener per authorization
// attempt; listeners are never reused.
type ListenerFactory func() CallbackListener
