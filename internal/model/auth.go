package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the JWT claims for an anonymous practice session.
type UserClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// SessionTokenResponse is returned when an anonymous session is created.
type SessionTokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}
