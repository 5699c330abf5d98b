package api

import (
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"microblog/internal/api/handler"
	"microblog/internal/api/middleware"
	"microblog/internal/app/service"
	"microblog/internal/app/session"
	"microblog/internal/common"
	"microblog/internal/platform/config"
)

func NewRouter(
	authService *service.AuthService,
	postService *service.PostService,
	sessions *session.Manager,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Resolves the session cookie to an identity (or Anonymous) on
	// every request.
	r.Use(middleware.Identity(sessions, cfg.SessionCookieName))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handler.NewAuthHandler(authService, cfg.SessionCookieName, cfg.SessionTTL)
	authHandler.RegisterRoutes(r)

	postHandler := handler.NewPostHandler(postService)
	postHandler.RegisterRoutes(r)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithText(w, http.StatusNotFound, "404 page not found")
	})

	return r
}

// recoverer turns a panicking request into a plain-text 500. The stack
// stays server-side; the client sees a generic body.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil && rvr != http.ErrAbortHandler {
				log.Printf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rvr, debug.Stack())
				common.RespondWithText(w, http.StatusInternalServerError, "500 internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
