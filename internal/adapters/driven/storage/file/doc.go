// Package file provides the on-disk storage adapters: an ordered JSON
// accounts file and one JSON credential file per account. Writes replace
// the whole file atomically (temp file + rename) with 0600 permissions.
package file
