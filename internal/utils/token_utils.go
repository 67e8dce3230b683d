package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSettings holds what is needed to mint and verify bearer tokens.
type TokenSettings struct {
	Secret string
	Issuer string
	Expiry time.Duration
}

// ErrEmptySubject is returned for tokens without a subject claim.
var ErrEmptySubject = errors.New("token subject is empty")

// GenerateJWT signs an HS256 token for subject (a user or a CLI operator).
func GenerateJWT(subject string, s TokenSettings, now time.Time) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, ErrEmptySubject
	}
	expiresAt := now.Add(s.Expiry)
	claims := jwt.RegisteredClaims{
		Issuer:    s.Issuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseAndValidateJWT checks signature, expiry and, when set, the issuer.
// It returns the subject of a valid token.
func ParseAndValidateJWT(tokenString string, s TokenSettings) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.Issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(s.Secret), nil
	}, opts...)
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}
	if claims.Subject == "" {
		return "", ErrEmptySubject
	}
	return claims.Subject, nil
}
