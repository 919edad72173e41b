package models

import "github.com/golang-jwt/jwt/v5"

// OperatorClaims are the JWT claims carried by operator access tokens.
type OperatorClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
