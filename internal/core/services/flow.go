package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
	"github.com/custodia-labs/gsuite-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/gsuite-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/gsuite-mcp/internal/logger"
)

// Ensure FlowService implements the interface.
var _ driving.AuthFlowService = (*FlowService)(nil)

// FlowService drives the authorization-code grant. It keeps at most one
// pending flow per email, binds each flow to a fresh state token, and tears
// the callback listener down before Complete returns.
type FlowService struct {
	exchanger   driven.CodeExchanger
	accounts    driven.AccountStore
	creds       driven.CredentialsStore
	newListener driven.ListenerFactory

	mu      sync.Mutex
	pending map[string]*domain.PendingFlow
	cancels map[string]context.CancelFunc
}

// NewFlowService creates a new authorization flow service.
func NewFlowService(
	exchanger driven.CodeExchanger,
	accounts driven.AccountStore,
	creds driven.CredentialsStore,
	newListener driven.ListenerFactory,
) *FlowService {
	return &FlowService{
		exchanger:   exchanger,
		accounts:    accounts,
		creds:       creds,
		newListener: newListener,
		pending:     make(map[string]*domain.PendingFlow),
		cancels:     make(map[string]context.CancelFunc),
	}
}

// Begin issues the provider authorization URL for an email and records the
// pending flow.
func (s *FlowService) Begin(ctx context.Context, email string, opts driving.BeginOptions) (string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return "", domain.ErrInvalidInput
	}

	if !opts.Force {
		creds, err := s.creds.Load(ctx, email)
		if err == nil && !creds.IsExpired() {
			return "", domain.ErrAlreadyAuthorized
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("loading credentials: %w", err)
		}
	}

	state, err := generateState()
	if err != nil {
		return "", fmt.Errorf("generating state token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pending[email]; exists {
		return "", domain.ErrFlowInProgress
	}

	flow := &domain.PendingFlow{
		ID:        uuid.NewString(),
		Email:     email,
		State:     state,
		CreatedAt: time.Now(),
	}
	s.pending[email] = flow

	logger.Debug("flow %s: issued authorization URL for %s", flow.ID, email)
	return s.exchanger.AuthCodeURL(state), nil
}

// Complete waits for the provider redirect on a fresh callback listener and
// finishes the pending flow with the received code. The listener is started,
// awaited and closed entirely within this call; it never outlives it.
func (s *FlowService) Complete(ctx context.Context, email string, timeout time.Duration) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)

	s.mu.Lock()
	flow, ok := s.pending[email]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrNoPendingFlow
	}
	cctx, cancel := context.WithCancel(ctx)
	s.cancels[email] = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		if s.cancels[email] != nil {
			delete(s.cancels, email)
		}
		s.mu.Unlock()
	}()

	logger.Section("Authorization: " + email)

	listener := s.newListener()
	if err := listener.Start(); err != nil {
		// Setup error: the pending flow survives so the caller can retry
		// Complete once the port is free.
		return nil, err
	}
	defer func() {
		if err := listener.Close(); err != nil {
			logger.Warn("flow %s: closing callback listener: %v", flow.ID, err)
		}
	}()

	redirect, err := listener.AwaitRedirect(cctx, timeout)
	if err != nil {
		// A timed-out or denied flow is dead: the browser session it was
		// bound to is gone, so the caller must Begin again.
		if errors.Is(err, domain.ErrCallbackTimeout) || errors.Is(err, domain.ErrProviderDenied) {
			s.discard(email)
		}
		return nil, err
	}

	return s.CompleteWithCode(ctx, email, redirect.Code, redirect.State)
}

// CompleteWithCode finishes a pending flow with an externally captured code
// and state token. On success the credentials and account are persisted and
// the pending flow is discarded.
func (s *FlowService) CompleteWithCode(ctx context.Context, email, code, state string) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)

	s.mu.Lock()
	flow, ok := s.pending[email]
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrNoPendingFlow
	}

	if state != flow.State {
		return nil, domain.ErrStateMismatch
	}

	creds, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		// Codes are single-use; this attempt cannot be retried.
		s.discard(email)
		return nil, fmt.Errorf("flow %s: %w", flow.ID, err)
	}

	if got, err := s.exchanger.UserEmail(ctx, creds.AccessToken); err != nil {
		logger.Warn("flow %s: could not verify account identity: %v", flow.ID, err)
	} else if domain.NormalizeEmail(got) != email {
		s.discard(email)
		return nil, fmt.Errorf("authorized account %q does not match requested %q: %w",
			got, email, domain.ErrExchangeFailed)
	}

	// Credentials first: if the registry write fails afterwards the
	// orphaned record is treated as invalid by the accessor.
	if err := s.creds.Save(ctx, email, *creds); err != nil {
		return nil, fmt.Errorf("saving credentials: %w", err)
	}

	account := domain.Account{Email: email, AccountType: "user"}
	if existing, err := s.accounts.Get(ctx, email); err == nil {
		account = *existing
	}
	if err := s.accounts.Upsert(ctx, account); err != nil {
		return nil, fmt.Errorf("saving account: %w", err)
	}

	s.discard(email)
	logger.Info("flow %s: authorization complete for %s", flow.ID, email)
	return &account, nil
}

// Cancel discards any pending flow for an email and interrupts an in-flight
// Complete. Idempotent.
func (s *FlowService) Cancel(email string) {
	email = domain.NormalizeEmail(email)

	s.mu.Lock()
	delete(s.pending, email)
	cancel := s.cancels[email]
	delete(s.cancels, email)
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// discard drops the pending flow for an email.
func (s *FlowService) discard(email string) {
	s.mu.Lock()
	delete(s.pending, email)
	s.mu.Unlock()
}
