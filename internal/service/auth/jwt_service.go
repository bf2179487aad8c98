package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for managing JWT session tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT carrying the user's identity and an
	// optional email claim, expiring after the service's default lifetime.
	// Returns the token string or an error if signing fails.
	GenerateToken(ctx context.Context, userID uuid.UUID, email string) (string, error)

	// GenerateTokenWithTTL behaves like GenerateToken but with an explicit
	// lifetime. A non-positive ttl produces an already-expired token, which is
	// useful to exercise expiry handling.
	GenerateTokenWithTTL(
		ctx context.Context,
		userID uuid.UUID,
		email string,
		ttl time.Duration,
	) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns ErrInvalidToken for a forged or malformed token,
	// ErrExpiredToken when the expiry has passed, and ErrMissingSubject when
	// the token verified but carries no user identity. Never panics.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// DecodeUnverified parses the claims of a token whose signature checks
	// out, without enforcing expiry. Intended for diagnostic and refresh
	// flows only; never use its result for authorization decisions.
	DecodeUnverified(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the verified contents of a session token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"user_id"`

	// Email is the optional email claim captured at issuance.
	Email string `json:"email,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
}
