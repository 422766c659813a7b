package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Credential accessor errors. These are surfaced to every token
	// consumer and never trigger a new browser flow on their own.

	// ErrUnknownAccount indicates the account is absent from the registry.
	// Credentials with no matching registry entry are treated as invalid.
	ErrUnknownAccount = errors.New("unknown account")

	// ErrNotAuthorized indicates the account has no stored credentials.
	ErrNotAuthorized = errors.New("account not authorized")

	// ErrReauthorizationRequired indicates the stored credentials cannot be
	// refreshed; only a fresh Begin/Complete cycle can resolve this.
	ErrReauthorizationRequired = errors.New("reauthorization required")

	// Authorization flow errors.

	// ErrAlreadyAuthorized indicates a valid credential already exists and
	// no forced re-authorization was requested.
	ErrAlreadyAuthorized = errors.New("account already authorized")

	// ErrFlowInProgress indicates an authorization flow is already pending
	// for this email.
	ErrFlowInProgress = errors.New("authorization flow already in progress")

	// ErrNoPendingFlow indicates Complete was called without Begin.
	ErrNoPendingFlow = errors.New("no pending authorization flow")

	// ErrStateMismatch indicates the callback's state token does not match
	// the one bound to the pending flow.
	ErrStateMismatch = errors.New("state token mismatch")

	// ErrExchangeFailed indicates the provider rejected the code exchange.
	// Authorization codes are single-use; the caller must Begin again.
	ErrExchangeFailed = errors.New("code exchange failed")

	// ErrRefreshRejected indicates the provider rejected a refresh exchange
	// (refresh token revoked or invalid).
	ErrRefreshRejected = errors.New("refresh exchange rejected")

	// Callback listener errors.

	// ErrPortUnavailable indicates the callback port is already in use.
	// This is a setup error; resource contention is the caller's to resolve.
	ErrPortUnavailable = errors.New("callback port unavailable")

	// ErrCallbackTimeout indicates no redirect arrived before the deadline.
	ErrCallbackTimeout = errors.New("timeout waiting for authorization callback")

	// ErrProviderDenied indicates the redirect carried an error parameter
	// (user denied consent, etc.) instead of an authorization code.
	ErrProviderDenied = errors.New("provider returned an authorization error")
)
