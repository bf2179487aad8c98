// Package mocks provides in-memory implementations of the store interfaces
// for testing handlers and middleware without a database. Each mock keeps
// state behind a mutex and supports per-method function overrides for error
// injection.
package mocks
