package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"microblog/internal/app/service"
	"microblog/internal/common"
)

type AuthHandler struct {
	authService *service.AuthService
	cookieName  string
	cookieTTL   time.Duration
}

func NewAuthHandler(authService *service.AuthService, cookieName string, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, cookieName: cookieName, cookieTTL: cookieTTL}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/signup", h.getSignup)
	r.Post("/signup", h.postSignup)
	r.Get("/login", h.getLogin)
	r.Post("/login", h.postLogin)
	r.Get("/logout", h.logout)
}

func (h *AuthHandler) getSignup(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"page": "signup"})
}

func (h *AuthHandler) postSignup(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("user")
	password := r.PostFormValue("pass")

	err := h.authService.Signup(r.Context(), username, password)
	if err != nil {
		// Duplicate username responds 401, matching the original surface.
		if errors.Is(err, common.ErrConflict) {
			common.RespondWithError(w, http.StatusUnauthorized, "user already exists")
			return
		}
		respondError(w, err)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *AuthHandler) getLogin(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"page": "login"})
}

func (h *AuthHandler) postLogin(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("user")
	password := r.PostFormValue("pass")

	_, token, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			// Bad credentials bounce back to the login page.
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		respondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		h.authService.Logout(r.Context(), cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}
