package admingate

import (
	"fmt"
	"time"

	"github.com/brightloom/storefront-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSigningMethod = jwt.SigningMethodHS256

const adminSubject = "admin"

// SessionClaims are the claims carried by an admin session token.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// MintSessionToken issues a signed admin session JWT.
func MintSessionToken(cfg config.AdminGateConfig, now time.Time) (string, time.Time, error) {
	if cfg.JWTSecret == "" {
		return "", time.Time{}, fmt.Errorf("admin jwt secret is required")
	}
	if cfg.SessionTTL <= 0 {
		return "", time.Time{}, fmt.Errorf("admin session ttl must be positive")
	}

	expiresAt := now.Add(cfg.SessionTTL)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.JWTIssuer,
			Subject:   adminSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing jwt: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseSessionToken validates an admin session JWT.
func ParseSessionToken(cfg config.AdminGateConfig, tokenString string) (*SessionClaims, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("admin jwt secret is required")
	}

	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.JWTIssuer),
		jwt.WithSubject(adminSubject),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
