package handler

import (
	"net/http"

	"edulearn/internal/model"
	"edulearn/internal/service"

	"github.com/rs/zerolog"
)

// ProgressHandler handles learning progress requests.
type ProgressHandler struct {
	service service.ProgressService
	logger  zerolog.Logger
}

// NewProgressHandler creates a new progress handler.
func NewProgressHandler(service service.ProgressService, logger zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		service: service,
		logger:  logger.With().Str("handler", "progress").Logger(),
	}
}

// Initialize handles POST /api/courses/{courseID}/progress requests.
func (h *ProgressHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "courseID")
	if !ok {
		return
	}

	progress, err := h.service.Initialize(r.Context(), a, ids[0])
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, progress)
}

// Get handles GET /api/courses/{courseID}/progress requests.
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "courseID")
	if !ok {
		return
	}

	progress, err := h.service.Get(r.Context(), a, ids[0])
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

// UpdateLesson handles PUT /api/courses/{courseID}/progress/lessons/{lessonID} requests.
func (h *ProgressHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "courseID", "lessonID")
	if !ok {
		return
	}
	var req model.LessonProgressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	progress, err := h.service.UpdateLesson(r.Context(), a, ids[0], ids[1], req.Completed)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}
