// Package services implements the core business logic: the account
// registry, the authorization flow controller and the credential accessor.
package services
