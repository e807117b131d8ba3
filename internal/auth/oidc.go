// Package auth provides authentication middleware and token validation for
// service-to-service calls into plannerd.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/iamthegreatdestroyer/classical-planner/internal/config"
)

// Claims represents the claims from a validated bearer token.
type Claims struct {
	Subject   string
	Issuer    string
	Audience  string
	ExpiresAt int64
	// AllowedHeuristics scopes a caller to a subset of named heuristics.
	// Nil or empty means the caller may request any heuristic plannerd
	// knows about.
	AllowedHeuristics []string
}

// TokenValidator validates HS256 bearer tokens issued by a trusted caller
// sharing config.AuthConfig.SigningSecret. Planner clients are internal
// services, not end users, so a shared-secret scheme stands in for the
// external-IdP discovery flow a public-facing API would need.
type TokenValidator struct {
	config *config.AuthConfig
}

// NewTokenValidator creates a new validator with the given configuration.
func NewTokenValidator(cfg *config.AuthConfig) *TokenValidator {
	return &TokenValidator{config: cfg}
}

// ValidateToken validates a bearer token and returns its claims. It checks
// the signature, issuer, audience, and expiry.
func (v *TokenValidator) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token is required")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.config.SigningSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(v.config.Issuer),
		jwt.WithAudience(v.config.Audience))

	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("failed to parse claims")
	}

	claims := &Claims{}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Subject = sub
	}
	if iss, ok := mapClaims["iss"].(string); ok {
		claims.Issuer = iss
	}
	switch aud := mapClaims["aud"].(type) {
	case string:
		claims.Audience = aud
	case []interface{}:
		if len(aud) > 0 {
			if audStr, ok := aud[0].(string); ok {
				claims.Audience = audStr
			}
		}
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = int64(exp)
	}
	if heuristics, ok := mapClaims["heuristics"].([]interface{}); ok {
		allowed := make([]string, 0, len(heuristics))
		for _, h := range heuristics {
			if name, ok := h.(string); ok {
				allowed = append(allowed, name)
			}
		}
		claims.AllowedHeuristics = allowed
	}

	return claims, nil
}

// IssueToken mints an HS256 token for a subject, for use by trusted internal
// callers (tests, the planctl CLI talking to a local plannerd) that need to
// generate their own bearer token rather than obtain one externally.
func IssueToken(cfg *config.AuthConfig, subject string, expiresAt int64) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"iss": cfg.Issuer,
		"aud": cfg.Audience,
		"exp": expiresAt,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SigningSecret))
}

// IssueScopedToken mints an HS256 token restricted to a subset of named
// heuristics, for callers (e.g. a low-trust batch client) that should only
// be able to run cheaper search strategies.
func IssueScopedToken(cfg *config.AuthConfig, subject string, expiresAt int64, allowedHeuristics []string) (string, error) {
	claims := jwt.MapClaims{
		"sub":        subject,
		"iss":        cfg.Issuer,
		"aud":        cfg.Audience,
		"exp":        expiresAt,
		"heuristics": allowedHeuristics,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SigningSecret))
}
