package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Course is a sellable unit of the catalog.
type Course struct {
	ID           int64           `json:"id" db:"id"`
	Title        string          `json:"title" db:"title"`
	Description  string          `json:"description" db:"description"`
	Price        decimal.Decimal `json:"price" db:"price"`
	InstructorID int64           `json:"instructorId" db:"instructor_id"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`

	Modules []Module `json:"modules,omitempty" db:"-"`
	Lessons []Lesson `json:"lessons,omitempty" db:"-"`
}

// Module groups lessons inside a course.
type Module struct {
	ID        int64     `json:"id" db:"id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	Title     string    `json:"title" db:"title"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Lesson is the smallest unit of progress.
type Lesson struct {
	ID        int64     `json:"id" db:"id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	ModuleID  *int64    `json:"moduleId,omitempty" db:"module_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	VideoURL  string    `json:"videoUrl" db:"video_url"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CourseRequest is the payload for creating or updating a course.
type CourseRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// Validate checks the course payload.
func (r *CourseRequest) Validate() error {
	if r.Title == "" {
		return Validationf("title is required")
	}
	// Providers charge whole VND, so the stored price must round-trip through them.
	if r.Price.IsNegative() || !r.Price.Equal(r.Price.Truncate(0)) {
		return ErrInvalidPrice
	}
	return nil
}

// ModuleRequest is the payload for creating or updating a module.
type ModuleRequest struct {
	Title    string `json:"title"`
	Position int    `json:"position"`
}

// LessonRequest is the payload for creating or updating a lesson.
type LessonRequest struct {
	ModuleID *int64 `json:"moduleId,omitempty"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	VideoURL string `json:"videoUrl"`
	Position int    `json:"position"`
}
