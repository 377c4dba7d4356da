package contextkeys

import (
	"context"

	"github.com/Gbun420/TalentVault-app/internal/domain"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// Session is the context key for the resolved request session.
const Session contextKey = "session"

// WithSession stores the resolved session on ctx.
func WithSession(ctx context.Context, s domain.Session) context.Context {
	return context.WithValue(ctx, Session, s)
}

// SessionFrom returns the session stored by the auth middleware, or an
// unauthenticated session.
func SessionFrom(ctx context.Context) domain.Session {
	s, _ := ctx.Value(Session).(domain.Session)
	return s
}
