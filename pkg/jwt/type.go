package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config holds JWT configuration.
type Config struct {
	SecretKey string
	Issuer    string
	TTL       time.Duration
}

// Claims represents the JWT claims carried by dashboard tokens.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Manager issues and verifies dashboard tokens.
type Manager struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}
