package model

import "time"

// Progress tracks how far a user is through a purchased course.
type Progress struct {
	ID               int64     `json:"id" db:"id"`
	UserID           int64     `json:"userId" db:"user_id"`
	CourseID         int64     `json:"courseId" db:"course_id"`
	TotalLessons     int       `json:"totalLessons" db:"total_lessons"`
	PercentComplete  int       `json:"percentComplete" db:"percent_complete"`
	CompletedLessons []int64   `json:"completedLessons" db:"-"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// LessonProgressRequest marks a lesson as completed or not.
type LessonProgressRequest struct {
	Completed bool `json:"completed"`
}

// ProgressPercent returns the rounded share of courseLessons present in
// completed, scaled to total. Lessons no longer in the course do not count.
// The result is 0 when total is not positive and never leaves [0, 100].
func ProgressPercent(completed, courseLessons []int64, total int) int {
	if total <= 0 {
		return 0
	}

	inCourse := make(map[int64]struct{}, len(courseLessons))
	for _, id := range courseLessons {
		inCourse[id] = struct{}{}
	}

	done := 0
	for _, id := range completed {
		if _, ok := inCourse[id]; ok {
			done++
			delete(inCourse, id)
		}
	}

	// round half up in integer arithmetic
	percent := (done*200 + total) / (2 * total)
	if percent > 100 {
		return 100
	}
	return percent
}
