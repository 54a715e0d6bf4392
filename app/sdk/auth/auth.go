// Package auth provides authentication and authorization support for the
// dashboard API. Owners and admins sign in with email and password and get
// back an RS256 signed JWT.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dattastudio/studio-api/business/types/role"
	"github.com/dattastudio/studio-api/foundation/logger"
	"github.com/golang-jwt/jwt/v5"
)

// ErrForbidden is returned when an auth issue is identified.
var ErrForbidden = errors.New("attempted action is not allowed")

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// HasRole reports whether the claims carry the specified role.
func (c Claims) HasRole(r role.Role) bool {
	for _, rl := range c.Roles {
		if rl == r.String() {
			return true
		}
	}

	return false
}

// KeyLookup declares a method set of behavior for looking up
// private and public keys for JWT use. The return could be a
// PEM encoded string or a JWS based key.
type KeyLookup interface {
	PrivateKey(kid string) (key string, err error)
	PublicKey(kid string) (key string, err error)
}

// Config represents information required to initialize auth.
type Config struct {
	Log       *logger.Logger
	KeyLookup KeyLookup
	Issuer    string
	ActiveKID string
}

// Auth is used to authenticate clients. It can generate a token for a
// set of user claims and recreate the claims by parsing the token.
type Auth struct {
	log       *logger.Logger
	keyLookup KeyLookup
	method    jwt.SigningMethod
	parser    *jwt.Parser
	issuer    string
	activeKID string
}

// New creates an Auth to support authentication/authorization.
func New(cfg Config) (*Auth, error) {
	a := Auth{
		log:       cfg.Log,
		keyLookup: cfg.KeyLookup,
		method:    jwt.GetSigningMethod(jwt.SigningMethodRS256.Name),
		parser:    jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name})),
		issuer:    cfg.Issuer,
		activeKID: cfg.ActiveKID,
	}

	return &a, nil
}

// Issuer provides the configured issuer used to authenticate tokens.
func (a *Auth) Issuer() string {
	return a.issuer
}

// GenerateToken generates a signed JWT token string representing the user
// Claims. The token is signed with the active private key.
func (a *Auth) GenerateToken(claims Claims) (string, error) {
	token := jwt.NewWithClaims(a.method, claims)
	token.Header["kid"] = a.activeKID

	privateKeyPEM, err := a.keyLookup.PrivateKey(a.activeKID)
	if err != nil {
		return "", fmt.Errorf("private key: %w", err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return "", fmt.Errorf("parsing private pem: %w", err)
	}

	str, err := token.SignedString(privateKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return str, nil
}

// Authenticate processes the token to validate the sender's token is valid.
func (a *Auth) Authenticate(ctx context.Context, bearerToken string) (Claims, error) {
	if len(bearerToken) < 7 || bearerToken[:7] != "Bearer " {
		return Claims{}, errors.New("expected authorization header format: Bearer <token>")
	}

	var claims Claims
	token, err := a.parser.ParseWithClaims(bearerToken[7:], &claims, a.publicKeyLookup())
	if err != nil {
		return Claims{}, fmt.Errorf("parse with claims: %w", err)
	}

	if !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	if claims.Issuer != a.issuer {
		return Claims{}, errors.New("invalid issuer")
	}

	return claims, nil
}

// Authorize checks the claims carry at least one of the specified roles.
func (a *Auth) Authorize(ctx context.Context, claims Claims, roles ...role.Role) error {
	for _, r := range roles {
		if claims.HasRole(r) {
			return nil
		}
	}

	return fmt.Errorf("roles[%v]: %w", claims.Roles, ErrForbidden)
}

// NewClaims constructs the claims for the specified user and roles with
// the configured issuer.
func (a *Auth) NewClaims(subject string, roles []role.Role, ttl time.Duration) Claims {
	rls := make([]string, len(roles))
	for i, r := range roles {
		rls[i] = r.String()
	}

	now := time.Now()

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Roles: rls,
	}
}

func (a *Auth) publicKeyLookup() func(t *jwt.Token) (any, error) {
	return func(t *jwt.Token) (any, error) {
		kid, ok := t.Header["kid"]
		if !ok {
			return nil, errors.New("kid missing from header")
		}

		kidID, ok := kid.(string)
		if !ok {
			return nil, errors.New("kid malformed")
		}

		pem, err := a.keyLookup.PublicKey(kidID)
		if err != nil {
			return nil, fmt.Errorf("fetch public key: %w", err)
		}

		publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			return nil, fmt.Errorf("parsing public pem: %w", err)
		}

		return publicKey, nil
	}
}
