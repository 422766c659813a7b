package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
)

// BeginOptions controls how an authorization flow starts.
type BeginOptions struct {
	// Force bypasses the already-authorized check so an account can be
	// re-authorized, e.g. after a scope change.
	Force bool
}

// AuthFlowService drives the authorization-code grant for one account at a
// time per email.
type AuthFlowService interface {
	// Begin issues the provider authorization URL for an email and records
	// the pending flow. Fails with domain.ErrAlreadyAuthorized if a valid
	// credential exists (unless forced) and domain.ErrFlowInProgress if a
	// flow is already pending for this email.
	Begin(ctx context.Context, email string, opts BeginOptions) (string, error)

	// Complete waits for the redirect on the local callback listener, then
	// exchanges the received code and persists the resulting account and
	// credentials. The listener is torn down before Complete returns.
	Complete(ctx context.Context, email string, timeout time.Duration) (*domain.Account, error)

	// CompleteWithCode finishes a pending flow with an externally captured
	// code and state token. Fails with domain.ErrNoPendingFlow or
	// domain.ErrStateMismatch; provider rejections wrap
	// domain.ErrExchangeFailed and discard the pending flow.
	CompleteWithCode(ctx context.Context, email, code, state string) (*domain.Account, error)

	// Cancel discards any pending flow for an email without side effects.
	// Safe to call concurrently with an in-flight Complete; idempotent.
	Cancel(email string)
}
