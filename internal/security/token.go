package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds keep the two credentials apart: an access token can never be
// replayed as a refresh token or vice versa.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

type TokenClaims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// MintToken signs a self-contained credential for the given user. Nothing is
// persisted server side; expiry and subject travel inside the token.
func MintToken(secret string, kind string, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// ParseToken verifies signature and expiry and checks that the token carries
// the expected kind.
func ParseToken(tokenStr string, secret string, kind string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
