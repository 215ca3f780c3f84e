package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavedCourse is an entry of a cart or wishlist.
type SavedCourse struct {
	CourseID int64           `json:"courseId" db:"course_id"`
	Title    string          `json:"title" db:"title"`
	Price    decimal.Decimal `json:"price" db:"price"`
	AddedAt  time.Time       `json:"addedAt" db:"created_at"`
}

// CourseList is a cart or wishlist with its running subtotal.
type CourseList struct {
	Items    []SavedCourse   `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// SavedCourseRequest adds a course to a cart or wishlist.
type SavedCourseRequest struct {
	CourseID int64 `json:"courseId"`
}

// Review is a student's rating of a purchased course.
type Review struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ReviewRequest is the payload for creating or updating a review.
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Validate checks the review payload.
func (r *ReviewRequest) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

// CourseReviews lists a course's reviews with their average rating.
type CourseReviews struct {
	Reviews []Review `json:"reviews"`
	Average float64  `json:"average"`
	Count   int      `json:"count"`
}

// Blog is an editorial post.
type Blog struct {
	ID        int64     `json:"id" db:"id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Published bool      `json:"published" db:"published"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// BlogRequest is the payload for creating or updating a post.
type BlogRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}
