package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Gbun420/TalentVault-app/internal/contextkeys"
	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/Gbun420/TalentVault-app/internal/handler"
	"github.com/Gbun420/TalentVault-app/internal/logger"
	"github.com/Gbun420/TalentVault-app/internal/service"
)

// SessionResolver turns a raw credential into a session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) domain.Session
}

// Auth creates the API authentication middleware. The credential is read
// from the Authorization bearer header, falling back to the session cookie.
func Auth(resolver SessionResolver, cookieName string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := resolver.Resolve(r.Context(), extractToken(r, cookieName))
			if !session.Authenticated() {
				handler.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session)))
		})
	}
}

// RequireRole rejects sessions whose profile role is not in roles.
// Must be used AFTER Auth or PageGuard, which store the session in context.
func RequireRole(roles ...domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := contextkeys.SessionFrom(r.Context()).Role()
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			handler.JSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		})
	}
}

// PageGuard protects the role dashboards. Unauthenticated visitors go to the
// login page, visitors with the wrong role go to their own home page.
func PageGuard(guard *service.RouteGuard, resolver SessionResolver, cookieName string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := resolver.Resolve(r.Context(), extractToken(r, cookieName))

			decision := guard.CheckAccess(r.URL.Path, session)
			switch decision.Outcome {
			case service.Redirect:
				http.Redirect(w, r, decision.Location, http.StatusFound)
			case service.Forbid:
				handler.JSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
			default:
				next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session)))
			}
		})
	}
}

func withSession(ctx context.Context, session domain.Session) context.Context {
	ctx = contextkeys.WithSession(ctx, session)
	if session.Authenticated() {
		ctx = logger.WithUserID(ctx, session.IdentityID)
	}
	return ctx
}

func extractToken(r *http.Request, cookieName string) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookieName == "" {
		return ""
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}
