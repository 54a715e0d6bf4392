// Package apikey issues and decodes the signed API keys handed to approved
// dataset requesters. Keys are HMAC-signed so download endpoints can verify
// them offline; a key that fails the signature check is rejected before any
// of its fields are trusted.
package apikey

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Set of errors returned when decoding keys.
var (
	ErrInvalidKey = errors.New("api key is invalid")
	ErrExpiredKey = errors.New("api key is expired")
)

// Claims represents the signed payload carried by an API key.
type Claims struct {
	jwt.RegisteredClaims
	ConnectionID string `json:"connection_id"`
}

// Key represents the decoded, verified content of an API key.
type Key struct {
	ConnectionID uuid.UUID
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// Signer issues and decodes API keys using a server-held secret.
type Signer struct {
	secret []byte
	issuer string
	method jwt.SigningMethod
	parser *jwt.Parser
}

// NewSigner constructs a Signer for use.
func NewSigner(secret []byte, issuer string) *Signer {
	return &Signer{
		secret: secret,
		issuer: issuer,
		method: jwt.GetSigningMethod(jwt.SigningMethodHS256.Name),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name})),
	}
}

// Issuer provides the configured issuer embedded in the keys.
func (s *Signer) Issuer() string {
	return s.issuer
}

// Issue mints a signed API key bound to the connection id and expiry.
func (s *Signer) Issue(connectionID uuid.UUID, expiresAt time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   connectionID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		ConnectionID: connectionID.String(),
	}

	token := jwt.NewWithClaims(s.method, claims)

	str, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing key: %w", err)
	}

	return str, nil
}

// Decode verifies the signature on the key and returns its content. It is a
// pure function of the key string and the current time: a tampered or
// malformed key returns ErrInvalidKey, a lapsed one ErrExpiredKey.
func (s *Signer) Decode(key string) (Key, error) {
	var claims Claims
	token, err := s.parser.ParseWithClaims(key, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Key{}, ErrExpiredKey
		}
		return Key{}, fmt.Errorf("%w: %s", ErrInvalidKey, err)
	}

	if !token.Valid {
		return Key{}, ErrInvalidKey
	}

	if claims.Issuer != s.issuer {
		return Key{}, fmt.Errorf("%w: unknown issuer %q", ErrInvalidKey, claims.Issuer)
	}

	connectionID, err := uuid.Parse(claims.ConnectionID)
	if err != nil {
		return Key{}, fmt.Errorf("%w: malformed connection id", ErrInvalidKey)
	}

	k := Key{
		ConnectionID: connectionID,
		IssuedAt:     claims.IssuedAt.Time,
		ExpiresAt:    claims.ExpiresAt.Time,
	}

	return k, nil
}
