package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token is malformed or its signature does
	// not match the configured secret (a forged or foreign token).
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token's expiry has passed.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingSubject indicates the token verified but carries no subject
	// claim, so no user identity can be established from it.
	ErrMissingSubject = errors.New("authentication token is missing subject")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")
)
