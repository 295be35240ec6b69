package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// GatewayClaims are the JWT claims issued to a storefront client after a
// successful API key exchange.
type GatewayClaims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}
