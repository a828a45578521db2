// Package security provides JWT token utilities for the admin surface
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// RoleAdmin is the only role allowed to edit banners.
const RoleAdmin = "admin"

var (
	ErrMissingSecret = errors.New("jwt secret is not configured")
	ErrInvalidToken  = errors.New("invalid token")
	ErrForbidden     = errors.New("token lacks admin role")
)

// AdminClaims are issued by the storefront's auth service to operators.
type AdminClaims struct {
	Role string `json:"role"`
	// BannerID scopes an editor ticket to one banner. Empty on regular admin tokens.
	BannerID string `json:"bannerId,omitempty"`
	jwt.RegisteredClaims
}

// ValidateAdminToken checks signature, expiry, issuer and role. Only HMAC-signed tokens
// are accepted.
func ValidateAdminToken(tokenString, jwtSecret, issuer string) (*AdminClaims, error) {
	if jwtSecret == "" {
		return nil, ErrMissingSecret
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if issuer != "" && !claims.VerifyIssuer(issuer, true) {
		return nil, fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	}
	if claims.Role != RoleAdmin {
		return nil, ErrForbidden
	}
	return claims, nil
}

// GenerateAdminToken signs an admin token. The service only validates tokens in
// production; this is used for editor tickets, local development and tests.
func GenerateAdminToken(subject, jwtSecret, issuer string, ttl time.Duration) (string, error) {
	return sign(&AdminClaims{Role: RoleAdmin, RegisteredClaims: registered(subject, issuer, ttl)}, jwtSecret)
}

// GenerateEditorTicket signs a short-lived token scoped to one banner. Browsers cannot set
// headers on websocket upgrades, so the editor passes it as a query parameter.
func GenerateEditorTicket(subject, bannerID, jwtSecret, issuer string, ttl time.Duration) (string, error) {
	return sign(&AdminClaims{Role: RoleAdmin, BannerID: bannerID, RegisteredClaims: registered(subject, issuer, ttl)}, jwtSecret)
}

func registered(subject, issuer string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now().UTC()
	return jwt.RegisteredClaims{
		ID:        GenerateULID(),
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func sign(claims *AdminClaims, jwtSecret string) (string, error) {
	if jwtSecret == "" {
		return "", ErrMissingSecret
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
