// Package auth issues and validates the bearer tokens handed out by
// validatePassword.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "glucosync"

// Claims are the standard registered claims plus the client label the
// token was issued to.
type Claims struct {
	jwt.RegisteredClaims
	Client string `json:"client,omitempty"`
}

// GenerateToken signs an HS256 token for client valid for ttl.
func GenerateToken(client string, secretKey []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Client: client,
	})

	signed, err := token.SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expires, nil
}

// ValidateToken parses tokenString and checks signature, issuer and expiry.
// Every failure matches common.ErrInvalidToken.
func ValidateToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: expired", common.ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
