package domain

import "strings"

// Account describes one registered Google Workspace account.
// The email address is the unique key; lookups are case-insensitive.
type Account struct {
	// Email is the account's address, stored in normalised form.
	Email string `json:"email"`
	// AccountType is a free-form tag (e.g. "user", "service").
	AccountType string `json:"account_type"`
	// ExtraInfo is a free-form annotation shown in listings.
	ExtraInfo string `json:"extra_info,omitempty"`
}

// NormalizeEmail returns the canonical form of an email address used as a
// registry key: trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks the account has a usable identity.
func (a *Account) Validate() error {
	if NormalizeEmail(a.Email) == "" {
		return ErrInvalidInput
	}
	return nil
}
