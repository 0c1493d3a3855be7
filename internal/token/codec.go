// Package token signs and verifies the compact auth token. The codec pins the
// signing algorithm to HMAC-SHA-512 and refuses anything else, including the
// classic "alg: none" bypass, before trusting a single claim.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tableforge/tableforge/internal/session"
	"github.com/tableforge/tableforge/internal/shared"
)

const signingMethod = "HS512"

// Claims is the verified payload of a decoded token.
type Claims struct {
	CredentialID string
	ExpiresAt    time.Time
}

// Codec signs and verifies tokens with the server-side secret.
type Codec struct {
	secret []byte
}

// NewCodec constructs a Codec.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Generate encodes {sub: credential id, exp: session expiry} as a signed token.
func (c *Codec) Generate(sess *session.Session) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   sess.CredentialID(),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	})
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Decode verifies the token and extracts its claims.
//
// Failure taxonomy: ErrMalformedToken for strings that do not parse as a JWT,
// ErrInvalidToken for bad signatures, wrong algorithms or absent sub/exp
// claims, ErrExpiredToken for correctly signed tokens whose exp has passed.
func (c *Codec) Decode(raw string) (*Claims, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{signingMethod}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, shared.ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenExpired):
			// Signature verification precedes claim validation, so an
			// expired report here is trustworthy.
			return nil, shared.ErrExpiredToken
		default:
			return nil, shared.ErrInvalidToken
		}
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, shared.ErrInvalidToken
	}
	return &Claims{CredentialID: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}
