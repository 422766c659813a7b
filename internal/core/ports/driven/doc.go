// Package driven defines the secondary ports: interfaces the core services
// depend on, implemented by storage, OAuth and listener adapters.
package driven
