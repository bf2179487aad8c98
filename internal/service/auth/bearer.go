package auth

import "strings"

// ExtractBearer pulls the token out of an Authorization header value.
// Returns ErrMissingToken when the header is absent and ErrInvalidToken when
// it does not follow the "Bearer <token>" scheme.
func ExtractBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}
