// Package auth provides authentication middleware and token validation for
// service-to-service calls into plannerd.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iamthegreatdestroyer/classical-planner/internal/config"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

// ClaimsContextKey is the context key for storing claims.
const ClaimsContextKey contextKey = "claims"

// Middleware gates requests behind a bearer token and, for a caller whose
// token scopes it to a subset of heuristics, rejects a /plans request that
// asks for a heuristic outside that scope.
type Middleware struct {
	validator *TokenValidator
	enabled   bool
	log       zerolog.Logger
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(cfg *config.AuthConfig, log zerolog.Logger) *Middleware {
	return &Middleware{
		validator: NewTokenValidator(cfg),
		enabled:   cfg.SigningSecret != "",
		log:       log,
	}
}

// Authenticate is HTTP middleware that validates authentication tokens and
// the caller's entitlement to the heuristic a /plans request selects. It
// returns 401 for a missing or invalid token, and 403 for a heuristic
// outside a scoped caller's entitlement, when authentication is enabled.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled {
			next.ServeHTTP(w, r)
			return
		}

		claims, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		if !m.authorizeHeuristic(w, r, claims) {
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth is HTTP middleware that validates a token if present but
// allows unauthenticated requests through unscoped. A present-but-invalid
// token, or a present-and-valid token scoped away from the requested
// heuristic, is still rejected.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled || r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		if !m.authorizeHeuristic(w, r, claims) {
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate extracts and validates the bearer token, writing a 401
// response and reporting ok=false on failure.
func (m *Middleware) authenticate(w http.ResponseWriter, r *http.Request) (claims *Claims, ok bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		http.Error(w, "Authorization header required", http.StatusUnauthorized)
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
		return nil, false
	}

	claims, err := m.validator.ValidateToken(parts[1])
	if err != nil {
		m.log.Warn().Err(err).Msg("token validation failed")
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return nil, false
	}

	m.log.Info().Str("subject", claims.Subject).Msg("authenticated caller")
	return claims, true
}

// authorizeHeuristic rejects a /plans request whose "heuristic" query
// parameter falls outside a scoped caller's AllowedHeuristics. Callers with
// no scope configured on their token — the common case, since planctl and
// other trusted internal callers mint unscoped tokens — may request any
// heuristic plannerd knows about.
func (m *Middleware) authorizeHeuristic(w http.ResponseWriter, r *http.Request, claims *Claims) bool {
	if len(claims.AllowedHeuristics) == 0 {
		return true
	}

	requested := r.URL.Query().Get("heuristic")
	if requested == "" {
		return true
	}

	for _, allowed := range claims.AllowedHeuristics {
		if allowed == requested {
			return true
		}
	}

	m.log.Warn().Str("subject", claims.Subject).Str("heuristic", requested).
		Msg("caller not entitled to requested heuristic")
	http.Error(w, "heuristic not permitted for this caller", http.StatusForbidden)
	return false
}

// GetClaims retrieves claims from the request context.
// Returns nil if no claims are present (unauthenticated request with optional auth).
func GetClaims(ctx context.Context) *Claims {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}
