package auth

import (
	"context"
	"log"
	"net/http"
	"strings"
)

// Identity describes the authenticated caller of a request
type Identity struct {
	ClientID string
	Role     string
	Method   string // "jwt" or "apikey"
}

type contextKey struct{}

var identityKey contextKey

// WithIdentity returns a context carrying the caller's identity
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext returns the identity attached by the middleware, if any
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok
}

// AuthMiddleware authenticates requests with a bearer token or an
// X-API-Key header. With optional set, unauthenticated requests pass
// through without an identity.
type AuthMiddleware struct {
	jwtManager    *JWTManager
	apiKeyManager *APIKeyManager
	optional      bool
}

// NewAuthMiddleware creates the authentication middleware
func NewAuthMiddleware(jwtManager *JWTManager, apiKeyManager *APIKeyManager, optional bool) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:    jwtManager,
		apiKeyManager: apiKeyManager,
		optional:      optional,
	}
}

// Handler wraps next with authentication
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			token := strings.TrimPrefix(authHeader, "Bearer ")
			id, err := m.verifyJWT(token)
			if err != nil {
				http.Error(w, "Unauthorized: Invalid or expired token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
			return
		}

		if key := r.Header.Get("X-API-Key"); key != "" {
			id, err := m.verifyAPIKey(key)
			if err != nil {
				log.Printf("rejected API key %s: %v", Redact(key), err)
				http.Error(w, "Unauthorized: Invalid API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
			return
		}

		if m.optional {
			next.ServeHTTP(w, r)
			return
		}

		http.Error(w, "Unauthorized: No valid authentication provided", http.StatusUnauthorized)
	})
}

func (m *AuthMiddleware) verifyJWT(token string) (*Identity, error) {
	claims, err := m.jwtManager.Verify(token)
	if err != nil {
		return nil, err
	}
	return &Identity{ClientID: claims.ClientID, Role: claims.Role, Method: "jwt"}, nil
}

func (m *AuthMiddleware) verifyAPIKey(key string) (*Identity, error) {
	apiKey, err := m.apiKeyManager.Verify(key)
	if err != nil {
		return nil, err
	}
	return &Identity{ClientID: apiKey.ClientID, Method: "apikey"}, nil
}

// RequireRole rejects requests whose identity does not carry the role.
// Keys carry no role, so key-authenticated callers never pass.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if !ok || id.Role != role {
				http.Error(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
