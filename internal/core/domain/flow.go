package domain

import "time"

// PendingFlow is the in-memory record of one authorization attempt awaiting
// its redirect callback. It is never persisted; at most one pending flow
// exists per email at a time.
type PendingFlow struct {
	// ID identifies this attempt in logs.
	ID string
	// Email is the account under authorization, normalised.
	Email string
	// State is the one-time token binding the callback to this attempt.
	State string
	// CreatedAt is when Begin issued the authorization URL.
	CreatedAt time.Time
}
