// Package postgres provides PostgreSQL implementations of the store
// interfaces. All SQL lives here; the rest of the application only sees the
// interfaces and sentinel errors defined in the store package.
package postgres
