package middleware

import (
	"context"
	"net/http"

	"microblog/internal/app/session"
	"microblog/internal/domain/model"
)

type contextKey string

const identityCtxKey contextKey = "identity"

// Identity resolves the session cookie to an identity on every request
// and stores it in the request context. A missing, expired or
// unresolvable token yields Anonymous; the request always proceeds.
func Identity(sessions *session.Manager, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := model.Anonymous
			if cookie, err := r.Cookie(cookieName); err == nil {
				identity = sessions.Resolve(r.Context(), cookie.Value)
			}
			ctx := context.WithValue(r.Context(), identityCtxKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser redirects anonymous requests to the login page.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFromContext(r.Context()).IsAnonymous() {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromContext returns the identity placed by the Identity
// middleware, or Anonymous when none is present.
func IdentityFromContext(ctx context.Context) model.Identity {
	if identity, ok := ctx.Value(identityCtxKey).(model.Identity); ok {
		return identity
	}
	return model.Anonymous
}
