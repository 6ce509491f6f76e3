package validators

import (
	"errors"
	"strings"
)

var ErrInvalidToken = errors.New("invalid auth token")

// ParseBearerToken extracts the token from an Authorization header value.
func ParseBearerToken(raw string) (string, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return "", ErrInvalidToken
	}
	if len(token) < 7 || !strings.EqualFold(token[:7], "bearer ") {
		return "", ErrInvalidToken
	}
	token = strings.TrimSpace(token[7:])
	if token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}
