// Package driving defines the primary ports: the interfaces through which
// API clients and server adapters drive the account manager.
package driving
