package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"microblog/internal/api/middleware"
	"microblog/internal/app/service"
	"microblog/internal/common"
	"microblog/internal/domain/model"
)

const pageTitle = "Microblog"

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

func (h *PostHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listAll)
	r.Get("/user/{author}", h.listByAuthor)
	r.Get("/about", h.about)

	// Creation is open by policy: only a non-empty author field is
	// required, the session is not consulted.
	r.Post("/newblog", h.createPost)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireUser)
		protected.Get("/newblog", h.getNewPost)
		protected.Get("/editblog/{id}", h.getEditPost)
		protected.Post("/editblog/{id}", h.postEditPost)
		protected.Post("/deleteblog/{id}", h.deletePost)
	})
}

type listingResponse struct {
	Title string           `json:"title"`
	User  *model.Identity  `json:"user,omitempty"`
	Blogs []model.PostView `json:"blogs"`
}

func viewerOf(r *http.Request) (model.Identity, *model.Identity) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity.IsAnonymous() {
		return identity, nil
	}
	return identity, &identity
}

func (h *PostHandler) listAll(w http.ResponseWriter, r *http.Request) {
	viewer, user := viewerOf(r)
	blogs, err := h.postService.ListAll(r.Context(), viewer)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, listingResponse{Title: pageTitle, User: user, Blogs: blogs})
}

func (h *PostHandler) listByAuthor(w http.ResponseWriter, r *http.Request) {
	author := chi.URLParam(r, "author")
	viewer, user := viewerOf(r)
	blogs, err := h.postService.ListByAuthor(r.Context(), author, viewer)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, listingResponse{Title: pageTitle, User: user, Blogs: blogs})
}

func (h *PostHandler) getNewPost(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	common.RespondWithJSON(w, http.StatusOK, map[string]string{
		"page":     "new_blog",
		"title":    pageTitle,
		"username": identity.Username,
	})
}

func (h *PostHandler) createPost(w http.ResponseWriter, r *http.Request) {
	author := r.PostFormValue("user")
	topic := r.PostFormValue("topic")
	message := r.PostFormValue("message")

	if _, err := h.postService.Create(r.Context(), author, topic, message); err != nil {
		respondError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *PostHandler) getEditPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity := middleware.IdentityFromContext(r.Context())

	post, err := h.postService.GetForEdit(r.Context(), id, identity)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"page":  "edit_blog",
		"title": pageTitle,
		"user":  identity,
		"blog":  post,
	})
}

func (h *PostHandler) postEditPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity := middleware.IdentityFromContext(r.Context())

	author := r.PostFormValue("user")
	topic := r.PostFormValue("topic")
	message := r.PostFormValue("message")

	if err := h.postService.Edit(r.Context(), id, author, topic, message, identity); err != nil {
		respondError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *PostHandler) deletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity := middleware.IdentityFromContext(r.Context())

	if err := h.postService.Delete(r.Context(), id, identity); err != nil {
		respondError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *PostHandler) about(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, map[string]string{
		"name":        pageTitle,
		"description": "A small multi-user blog.",
	})
}
