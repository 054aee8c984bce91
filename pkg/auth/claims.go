package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/retailnet/backend/pkg/enums"
)

// AccessTokenClaims is the JWT payload issued at login.
type AccessTokenClaims struct {
	UserID   uint           `json:"uid"`
	Email    string         `json:"email"`
	UserType enums.UserType `json:"utype"`
	jwt.RegisteredClaims
}

// AccessTokenPayload carries the fields minted into a new token.
type AccessTokenPayload struct {
	UserID   uint
	Email    string
	UserType enums.UserType
	JTI      string
}
