// Package mcp provides an MCP (Model Context Protocol) server adapter for
// administering Google Workspace accounts: listing, authorizing and
// removing them. Token values are never exposed through this surface.
package mcp

import "errors"

// ErrMissingAccountService is returned when the account service is not provided.
var ErrMissingAccountService = errors.New("mcp: account service is required")

// ErrMissingFlowService is returned when the authorization flow service is not provided.
var ErrMissingFlowService = errors.New("mcp: authorization flow service is required")
