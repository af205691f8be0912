package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the structure of the JWT token claims
type JWTClaims struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token carries the admin role.
func (c *JWTClaims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
