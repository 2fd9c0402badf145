// Package jwtauth resolves HS256 bearer tokens to actors.
//
// A token carries the actor id in "sub" and its role in "role":
//
//	{"sub": "7b0c...", "role": "courier", "exp": 1760000000}
package jwtauth

import (
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v4"
)

var (
	// ErrInvalidToken wraps every reason a token is rejected.
	ErrInvalidToken = errors.New("invalid token")

	ErrSecretIsRequired = errors.New("jwt secret is required")
)

// Claims is the token payload.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier implements ports.Authenticator and mints tokens for tooling and tests.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, ErrSecretIsRequired
	}

	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}, nil
}

// Authenticate validates signature and expiry and returns the actor in the token.
func (v *Verifier) Authenticate(token string) (actor.Actor, error) {
	claims := &Claims{}
	if _, err := v.parser.ParseWithClaims(token, claims, v.key); err != nil {
		return actor.Actor{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return actor.Actor{}, fmt.Errorf("%w: subject: %w", ErrInvalidToken, err)
	}

	role, err := actor.ParseRole(claims.Role)
	if err != nil {
		return actor.Actor{}, fmt.Errorf("%w: role: %w", ErrInvalidToken, err)
	}

	a, err := actor.New(id, role)
	if err != nil {
		return actor.Actor{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return a, nil
}

// Sign issues a token for a valid for ttl. A zero ttl issues a token without expiry.
func (v *Verifier) Sign(a actor.Actor, ttl time.Duration) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		Role: a.Role().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  a.ID().String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func (v *Verifier) key(_ *jwt.Token) (any, error) {
	return v.secret, nil
}
