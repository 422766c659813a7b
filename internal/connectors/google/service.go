package google

import (
	"context"

	"golang.org/x/oauth2"
	analyticsadmin "google.golang.org/api/analyticsadmin/v1beta"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// NewGmailService creates a Gmail API service using the provided TokenSource.
func NewGmailService(ctx context.Context, ts oauth2.TokenSource) (*gmail.Service, error) {
	return gmail.NewService(ctx, option.WithTokenSource(ts))
}

// NewAnalyticsDataService creates a GA4 Data API service using the provided
// TokenSource.
func NewAnalyticsDataService(ctx context.Context, ts oauth2.TokenSource) (*analyticsdata.Service, error) {
	return analyticsdata.NewService(ctx, option.WithTokenSource(ts))
}

// NewAnalyticsAdminService creates a GA4 Admin API service, used to
// enumerate the accounts and properties visible to the user.
func NewAnalyticsAdminService(ctx context.Context, ts oauth2.TokenSource) (*analyticsadmin.Service, error) {
	return analyticsadmin.NewService(ctx, option.WithTokenSource(ts))
}
