package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/gsuite-mcp/internal/core/ports/driving"
)

// defaultCompleteTimeout bounds how long complete_authorization waits for
// the browser redirect.
const defaultCompleteTimeout = 300 * time.Second

// AccountOutput describes one registered account.
type AccountOutput struct {
	Email       string `json:"email"`
	AccountType string `json:"account_type"`
	ExtraInfo   string `json:"extra_info,omitempty"`
	Authorized  bool   `json:"authorized"`
}

// ListAccountsOutput is the output schema for the list_accounts tool.
type ListAccountsOutput struct {
	Accounts []AccountOutput `json:"accounts"`
	Count    int             `json:"count"`
}

// BeginAuthorizationInput is the input schema for begin_authorization.
type BeginAuthorizationInput struct {
	Email string `json:"email" jsonschema:"the email address of the Google account to authorize"`
	Force bool   `json:"force,omitempty" jsonschema:"re-authorize even if valid credentials already exist"`
}

// BeginAuthorizationOutput carries the URL the user must open in a browser.
type BeginAuthorizationOutput struct {
	AuthorizationURL string `json:"authorization_url"`
}

// CompleteAuthorizationInput is the input schema for complete_authorization.
type CompleteAuthorizationInput struct {
	Email          string `json:"email" jsonschema:"the email address of the account being authorized"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" jsonschema:"how long to wait for the browser redirect (default 300)"`
}

// AccountStatusInput is the input schema for account_status.
type AccountStatusInput struct {
	Email string `json:"email" jsonschema:"the email address of the account to inspect"`
}

// RemoveAccountInput is the input schema for remove_account.
type RemoveAccountInput struct {
	Email string `json:"email" jsonschema:"the email address of the account to remove"`
}

// RemoveAccountOutput reports whether an account was removed.
type RemoveAccountOutput struct {
	Removed bool `json:"removed"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_accounts",
		Description: "List all configured Google Workspace accounts and their authorization status",
	}, s.handleListAccounts)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "account_status",
		Description: "Show one account's registration and authorization status",
	}, s.handleAccountStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "begin_authorization",
		Description: "Start an OAuth authorization flow for an account and return the URL to open in a browser",
	}, s.handleBeginAuthorization)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "complete_authorization",
		Description: "Wait for the browser redirect and finish a previously started authorization flow",
	}, s.handleCompleteAuthorization)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_account",
		Description: "Remove an account and its stored credentials",
	}, s.handleRemoveAccount)
}

func (s *Server) handleListAccounts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListAccountsOutput, error) {
	accounts, err := s.ports.Accounts.List(ctx)
	if err != nil {
		return nil, ListAccountsOutput{}, err
	}

	output := ListAccountsOutput{
		Accounts: make([]AccountOutput, len(accounts)),
		Count:    len(accounts),
	}
	for i := range accounts {
		output.Accounts[i] = AccountOutput{
			Email:       accounts[i].Email,
			AccountType: accounts[i].AccountType,
			ExtraInfo:   accounts[i].ExtraInfo,
			Authorized:  s.ports.Accounts.IsAuthorized(ctx, accounts[i].Email),
		}
	}
	return nil, output, nil
}

func (s *Server) handleAccountStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AccountStatusInput,
) (*mcp.CallToolResult, AccountOutput, error) {
	account, err := s.ports.Accounts.Get(ctx, input.Email)
	if err != nil {
		return nil, AccountOutput{}, err
	}

	return nil, AccountOutput{
		Email:       account.Email,
		AccountType: account.AccountType,
		ExtraInfo:   account.ExtraInfo,
		Authorized:  s.ports.Accounts.IsAuthorized(ctx, account.Email),
	}, nil
}

func (s *Server) handleBeginAuthorization(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BeginAuthorizationInput,
) (*mcp.CallToolResult, BeginAuthorizationOutput, error) {
	url, err := s.ports.Flow.Begin(ctx, input.Email, driving.BeginOptions{Force: input.Force})
	if err != nil {
		return nil, BeginAuthorizationOutput{}, err
	}
	return nil, BeginAuthorizationOutput{AuthorizationURL: url}, nil
}

func (s *Server) handleCompleteAuthorization(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompleteAuthorizationInput,
) (*mcp.CallToolResult, AccountOutput, error) {
	timeout := defaultCompleteTimeout
	if input.TimeoutSeconds > 0 {
		timeout = time.Duration(input.TimeoutSeconds) * time.Second
	}

	account, err := s.ports.Flow.Complete(ctx, input.Email, timeout)
	if err != nil {
		return nil, AccountOutput{}, err
	}

	return nil, AccountOutput{
		Email:       account.Email,
		AccountType: account.AccountType,
		ExtraInfo:   account.ExtraInfo,
		Authorized:  true,
	}, nil
}

func (s *Server) handleRemoveAccount(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RemoveAccountInput,
) (*mcp.CallToolResult, RemoveAccountOutput, error) {
	removed, err := s.ports.Accounts.Remove(ctx, input.Email)
	if err != nil {
		return nil, RemoveAccountOutput{}, err
	}
	return nil, RemoveAccountOutput{Removed: removed}, nil
}
