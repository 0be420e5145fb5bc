// Package auth provides JWT token generation and validation plus password
// hashing for the API.
//
// AUTHENTICATION FLOW:
//  1. POST /api/v1/users (register) or POST /api/v1/auth (login) → server
//     verifies credentials and issues a signed JWT
//  2. The client sends the token back on every request in the x-auth-token
//     header
//  3. RequireAuth validates the token and puts the userID in the request
//     context; handlers read it from there
//
// The token is stateless — everything needed (user ID, expiry) is inside the
// signed payload, so validation needs no DB lookup, only the shared secret.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is the token lifetime: 360000 seconds (100 hours).
const tokenTTL = 360000 * time.Second

// TokenService handles JWT creation and validation.
// It holds the HMAC secret used to sign and verify tokens.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// userClaim carries the user's ID inside the token payload.
type userClaim struct {
	ID string `json:"id"`
}

// claims is the JWT payload. The user's identity lives under a "user" key
// ({"user":{"id":...}}) — this is the wire format existing clients already
// decode, so it is part of the API contract, not just an implementation
// detail.
type claims struct {
	User userClaim `json:"user"`
	jwt.RegisteredClaims
}

// Generate creates and signs a new JWT for the given userID.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies. Fine for a single-server deployment; RS256 would be the choice
// if other services needed to verify tokens without the secret.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, tokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used in tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		User: userClaim{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    "devnetwork",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the userID it
// encodes.
//
// Checks performed by the jwt library: signature, expiry, issuer, and that
// the algorithm really is HS256 (jwt.WithValidMethods prevents algorithm
// confusion attacks where an attacker supplies an unsigned "none" token).
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("devnetwork"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.User.ID == "" {
		return "", fmt.Errorf("auth: token has no user id")
	}

	return c.User.ID, nil
}
