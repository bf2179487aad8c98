package auth

import "time"

// NewTestJWTService creates a JWT service with an injectable time function
// for deterministic expiry testing. Test-only constructor; production code
// goes through NewJWTService with configuration.
func NewTestJWTService(
	secret string,
	tokenLifetime time.Duration,
	timeFunc func() time.Time,
) JWTService {
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: tokenLifetime,
		timeFunc:      timeFunc,
	}
}
