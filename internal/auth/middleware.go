package auth

import (
	"context"
	"net/http"

	"healthai-backend/internal/apperr"
	"healthai-backend/internal/platform/web"
)

// SessionCookie is the HTTP-only cookie carrying the session token.
const SessionCookie = "healthai_session"

type ctxKey struct{}

// FromContext returns the identity placed by the middleware, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// WithIdentity is used by handler tests to inject an actor directly.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

type Middleware struct {
	svc Service
}

func NewMiddleware(svc Service) *Middleware {
	return &Middleware{svc: svc}
}

// Optional lets anonymous requests through without a session cookie.
// Needed for contact inquiries, which allow unauthenticated
// submitters. A cookie that is present but invalid is still rejected,
// so an expired session gets a re-login signal instead of being
// treated as anonymous.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		id, err := m.svc.ParseToken(cookie.Value)
		if err != nil {
			web.Error(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireAuth rejects requests without a valid session.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			web.Error(w, apperr.Permission("authentication required"))
			return
		}
		id, err := m.svc.ParseToken(cookie.Value)
		if err != nil {
			web.Error(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireAdmin rejects requests whose session does not carry the
// reviewer role.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := FromContext(r.Context())
		if !id.IsAdmin() {
			web.Error(w, apperr.Permission("admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	}))
}
