package handler

import (
	"net/http"

	"edulearn/internal/model"
	"edulearn/internal/service"

	"github.com/rs/zerolog"
)

// BlogHandler handles blog requests.
type BlogHandler struct {
	service service.BlogService
	logger  zerolog.Logger
}

// NewBlogHandler creates a new blog handler.
func NewBlogHandler(service service.BlogService, logger zerolog.Logger) *BlogHandler {
	return &BlogHandler{
		service: service,
		logger:  logger.With().Str("handler", "blog").Logger(),
	}
}

// List handles GET /api/blogs requests.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	blogs, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	if blogs == nil {
		blogs = []model.Blog{}
	}

	writeJSON(w, http.StatusOK, blogs)
}

// Get handles GET /api/blogs/{blogID} requests.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "blogID")
	if !ok {
		return
	}

	blog, err := h.service.Get(r.Context(), ids[0])
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, blog)
}

// Create handles POST /api/blogs requests.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req model.BlogRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	blog, err := h.service.Create(r.Context(), a, &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, blog)
}

// Update handles PUT /api/blogs/{blogID} requests.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "blogID")
	if !ok {
		return
	}
	var req model.BlogRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	blog, err := h.service.Update(r.Context(), a, ids[0], &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, blog)
}

// Delete handles DELETE /api/blogs/{blogID} requests.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "blogID")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), a, ids[0]); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
