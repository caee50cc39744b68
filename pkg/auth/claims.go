package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the verified contents of an access token
type Claims struct {
	jwt.RegisteredClaims
	TokenUse string `json:"token_use,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Username string `json:"username,omitempty"`
}

// UserID returns the stable user identifier the token was issued for
func (c *Claims) UserID() string {
	return c.Subject
}
