package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/santihernandis/lobos-go/internal/api/apierr"
	"github.com/santihernandis/lobos-go/internal/model"
	"github.com/santihernandis/lobos-go/internal/services/auth"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
	sessionContextKey  contextKey = "session"
)

// IdentityHeader carries the caller's anonymous identity token.
const IdentityHeader = "X-Identity"

// IdentityCookie is the cookie fallback for browser clients.
const IdentityCookie = "identity"

// Identity requires an identity token on the request and stores it in
// the context. Room operations are keyed by this token rather than by
// an account.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := ExtractIdentity(r)
			if identity == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractIdentity pulls the identity token from the request
func ExtractIdentity(r *http.Request) model.Identity {
	if v := r.Header.Get(IdentityHeader); v != "" {
		return model.Identity(v)
	}
	if cookie, err := r.Cookie(IdentityCookie); err == nil {
		return model.Identity(cookie.Value)
	}
	return ""
}

// Auth creates session authentication middleware for account endpoints
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the session token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	cookie, err := r.Cookie("session")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetIdentity returns the identity token from the request context
func GetIdentity(ctx context.Context) model.Identity {
	identity, _ := ctx.Value(identityContextKey).(model.Identity)
	return identity
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// MustGetIdentity returns the identity token or panics
func MustGetIdentity(ctx context.Context) model.Identity {
	identity := GetIdentity(ctx)
	if identity == "" {
		panic("no identity in context - identity middleware not applied?")
	}
	return identity
}
