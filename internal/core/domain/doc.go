// Package domain contains the core types of the account manager:
// accounts, their OAuth credentials, pending authorization flows, and the
// sentinel errors shared across services and adapters.
package domain
