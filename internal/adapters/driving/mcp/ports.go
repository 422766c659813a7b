package mcp

import (
	"github.com/custodia-labs/gsuite-mcp/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Accounts administers the account registry.
	Accounts driving.AccountService

	// Flow drives the authorization-code grant.
	Flow driving.AuthFlowService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Accounts == nil {
		return ErrMissingAccountService
	}
	if p.Flow == nil {
		return ErrMissingFlowService
	}
	return nil
}
