package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

// AccessClaims identify the caller on every protected request.
type AccessClaims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	UserID   uint     `json:"uid"`
	jwt.RegisteredClaims
}

// RefreshClaims carry only the username; the rest of the identity is
// re-read from the store when a new access token is minted.
type RefreshClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
