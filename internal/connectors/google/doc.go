// Package google provides the thin glue between the credential manager and
// Google API clients: an oauth2.TokenSource bridge, service constructors
// for the APIs the application consumes, error mapping and rate limiting.
// The API surfaces themselves are not wrapped here.
package google
