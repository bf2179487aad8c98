package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	// MinCost keeps the tests fast; production uses DefaultCost.
	hasher := NewBcryptHasher(bcrypt.MinCost)

	t.Run("verify round trip", func(t *testing.T) {
		t.Parallel()
		hash, err := hasher.Hash("Abcd123!")
		require.NoError(t, err)
		require.NotEmpty(t, hash)

		assert.NoError(t, hasher.Compare(hash, "Abcd123!"))
		assert.Error(t, hasher.Compare(hash, "Abcd123?"))
	})

	t.Run("fresh salt per call", func(t *testing.T) {
		t.Parallel()
		first, err := hasher.Hash("Abcd123!")
		require.NoError(t, err)
		second, err := hasher.Hash("Abcd123!")
		require.NoError(t, err)

		assert.NotEqual(t, first, second, "two hashes of the same password must differ")

		// Both still verify
		assert.NoError(t, hasher.Compare(first, "Abcd123!"))
		assert.NoError(t, hasher.Compare(second, "Abcd123!"))
	})

	t.Run("malformed stored hash is a mismatch not a panic", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, hasher.Compare("not-a-bcrypt-hash", "Abcd123!"))
		assert.Error(t, hasher.Compare("", "Abcd123!"))
	})

	t.Run("cost below minimum falls back to default", func(t *testing.T) {
		t.Parallel()
		h := NewBcryptHasher(-1)
		assert.Equal(t, bcrypt.DefaultCost, h.cost)
	})
}

func TestValidatePasswordStrength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantMsg  string
	}{
		{
			name:     "valid password",
			password: "Abcd123!",
		},
		{
			name:     "too short",
			password: "Ab1!",
			wantMsg:  "password must be at least 8 characters long",
		},
		{
			name:     "no uppercase",
			password: "abcd123!",
			wantMsg:  "password must contain at least one uppercase letter",
		},
		{
			name:     "no lowercase",
			password: "ABCD123!",
			wantMsg:  "password must contain at least one lowercase letter",
		},
		{
			name:     "no digit",
			password: "Abcdefg!",
			wantMsg:  "password must contain at least one digit",
		},
		{
			name:     "no symbol",
			password: "Abcd1234",
			wantMsg:  "password must contain at least one special character",
		},
		{
			name: "length violation reported before missing classes",
			// Short AND missing every class: the first failing rule wins.
			password: "abc",
			wantMsg:  "password must be at least 8 characters long",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePasswordStrength(tc.password)
			if tc.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.wantMsg, err.Error())
		})
	}
}
