package handler

import (
	"net/http"

	"edulearn/internal/model"
	"edulearn/internal/service"

	"github.com/rs/zerolog"
)

// CourseListHandler serves a cart or a wishlist.
type CourseListHandler struct {
	service service.CourseListService
	logger  zerolog.Logger
}

// NewCourseListHandler creates a handler for the named list ("cart" or "wishlist").
func NewCourseListHandler(name string, service service.CourseListService, logger zerolog.Logger) *CourseListHandler {
	return &CourseListHandler{
		service: service,
		logger:  logger.With().Str("handler", name).Logger(),
	}
}

// List handles GET requests for the caller's list.
func (h *CourseListHandler) List(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	list, err := h.service.List(r.Context(), a)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// Add handles POST requests with a {"courseId": n} body.
func (h *CourseListHandler) Add(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req model.SavedCourseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CourseID <= 0 {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "courseId is required")
		return
	}

	if err := h.service.Add(r.Context(), a, req.CourseID); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Remove handles DELETE requests for /{courseID}.
func (h *CourseListHandler) Remove(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "courseID")
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), a, ids[0]); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
