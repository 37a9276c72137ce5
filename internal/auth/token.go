package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the single failure result of Validate. Malformed
// tokens, bad signatures, and expired tokens are indistinguishable to
// callers.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the decoded contents of an access token.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// TokenIssuer issues and validates signed access tokens. The signing
// secret is fixed at construction; there is no package-level state.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer constructs a TokenIssuer with the given signing secret
// and default token lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs an access token for the subject, embedding the role claim.
// The role is upper-cased at issuance so every token ever issued carries
// the canonical spelling.
func (t *TokenIssuer) Issue(subject, role string) (string, error) {
	return t.IssueWithTTL(subject, role, t.ttl)
}

// IssueWithTTL is Issue with an explicit lifetime.
func (t *TokenIssuer) IssueWithTTL(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: strings.ToUpper(strings.TrimSpace(role)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Validate verifies the signature and expiry of tokenString and returns
// the decoded claims. Every decode failure maps to ErrInvalidToken; the
// function never panics on garbage input.
func (t *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
