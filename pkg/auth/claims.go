package auth

import (
	"github.com/angelmondragon/tastetrack-storefront/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	SessionID string
	Email     string
	Role      enums.Role
}

// AccessTokenClaims represents the typed JWT issued to the storefront UI.
// The registered jti carries the session ID that keys the identity record.
type AccessTokenClaims struct {
	Email string     `json:"email"`
	Role  enums.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionID returns the session the token was minted for.
func (c *AccessTokenClaims) SessionID() string {
	return c.ID
}
