package handler

import (
	"net/http"

	"edulearn/internal/model"
	"edulearn/internal/service"

	"github.com/rs/zerolog"
)

// CourseHandler handles catalog requests for courses, modules and lessons.
type CourseHandler struct {
	service service.CourseService
	logger  zerolog.Logger
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(service service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		logger:  logger.With().Str("handler", "course").Logger(),
	}
}

// List handles GET /api/courses requests.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	courses, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}

	writeJSON(w, http.StatusOK, courses)
}

// Get handles GET /api/courses/{courseID} requests.
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "courseID")
	if !ok {
		return
	}

	course, err := h.service.Get(r.Context(), ids[0])
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, course)
}

// Create handles POST /api/courses requests.
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req model.CourseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	course, err := h.service.Create(r.Context(), a, &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, course)
}

// Update handles PUT /api/courses/{courseID} requests.
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "courseID")
	if !ok {
		return
	}
	var req model.CourseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	course, err := h.service.Update(r.Context(), a, ids[0], &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, course)
}

// Delete handles DELETE /api/courses/{courseID} requests.
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "courseID")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), a, ids[0]); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateModule handles POST /api/courses/{courseID}/modules requests.
func (h *CourseHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "courseID")
	if !ok {
		return
	}
	var req model.ModuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	module, err := h.service.CreateModule(r.Context(), a, ids[0], &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, module)
}

// UpdateModule handles PUT /api/courses/{courseID}/modules/{moduleID} requests.
func (h *CourseHandler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "courseID", "moduleID")
	if !ok {
		return
	}
	var req model.ModuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	module, err := h.service.UpdateModule(r.Context(), a, ids[0], ids[1], &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, module)
}

// DeleteModule handles DELETE /api/courses/{courseID}/modules/{moduleID} requests.
func (h *CourseHandler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "courseID", "moduleID")
	if !ok {
		return
	}

	if err := h.service.DeleteModule(r.Context(), a, ids[0], ids[1]); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateLesson handles POST /api/courses/{courseID}/lessons requests.
func (h *CourseHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "courseID")
	if !ok {
		return
	}
	var req model.LessonRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lesson, err := h.service.CreateLesson(r.Context(), a, ids[0], &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, lesson)
}

// UpdateLesson handles PUT /api/courses/{courseID}/lessons/{lessonID} requests.
func (h *CourseHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "courseID", "lessonID")
	if !ok {
		return
	}
	var req model.LessonRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lesson, err := h.service.UpdateLesson(r.Context(), a, ids[0], ids[1], &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, lesson)
}

// DeleteLesson handles DELETE /api/courses/{courseID}/lessons/{lessonID} requests.
func (h *CourseHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "courseID", "lessonID")
	if !ok {
		return
	}

	if err := h.service.DeleteLesson(r.Context(), a, ids[0], ids[1]); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
