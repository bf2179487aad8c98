package auth

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher defines the interface for hashing and verifying passwords.
type PasswordHasher interface {
	// Hash produces a salted, irreversible digest of the plaintext. Each call
	// embeds a fresh random salt, so hashing the same input twice yields
	// different outputs.
	Hash(password string) (string, error)

	// Compare compares a hashed password with its possible plaintext
	// equivalent. Returns nil on match. A malformed stored hash is treated as
	// a mismatch, never propagated as a failure of a different kind.
	Compare(hashedPassword, password string) error
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher with the given cost.
// A cost below bcrypt.MinCost falls back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash implements PasswordHasher.Hash using bcrypt.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare implements PasswordHasher.Compare using bcrypt. bcrypt reports a
// corrupt stored hash as an error, which callers must treat the same as a
// mismatch rather than a crash.
func (h *BcryptHasher) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// passwordSymbols is the punctuation/symbol set accepted by the strength
// policy.
const passwordSymbols = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// MinPasswordLength is the minimum accepted password length at signup.
const MinPasswordLength = 8

// ValidatePasswordStrength applies the signup password policy. It returns nil
// for an acceptable password, or an error describing exactly one violation:
// the first failing rule wins. The message is meant for the end user and is
// surfaced by the signup endpoint, not logged as a security event.
func ValidatePasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return fmt.Errorf("password must contain at least one uppercase letter")
	case !hasLower:
		return fmt.Errorf("password must contain at least one lowercase letter")
	case !hasDigit:
		return fmt.Errorf("password must contain at least one digit")
	case !hasSymbol:
		return fmt.Errorf("password must contain at least one special character")
	}

	return nil
}
