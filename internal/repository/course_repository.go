package repository

import (
	"context"
	"errors"
	"fmt"

	"edulearn/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	courseColumns = `id, title, description, price, instructor_id, created_at, updated_at`
	moduleColumns = `id, course_id, title, position, created_at`
	lessonColumns = `id, course_id, module_id, title, content, video_url, position, created_at`
)

// courseRepository implements the CourseRepository interface using PostgreSQL.
type courseRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCourseRepository creates a new PostgreSQL-backed course repository.
func NewCourseRepository(pool *pgxpool.Pool, logger zerolog.Logger) CourseRepository {
	return &courseRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "course").Logger(),
	}
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	query := `
		INSERT INTO courses (title, description, price, instructor_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, course.Title, course.Description, course.Price, course.InstructorID).
		Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to create course")
		return fmt.Errorf("failed to create course: %w", err)
	}

	r.logger.Debug().Int64("course_id", course.ID).Msg("course created")
	return nil
}

func (r *courseRepository) Update(ctx context.Context, course *model.Course) error {
	query := `
		UPDATE courses SET title = $2, description = $3, price = $4, updated_at = NOW()
		WHERE id = $1 AND ` + activeOnly("") + `
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query, course.ID, course.Title, course.Description, course.Price).
		Scan(&course.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrCourseNotFound
		}
		r.logger.Error().Err(err).Int64("course_id", course.ID).Msg("failed to update course")
		return fmt.Errorf("failed to update course: %w", err)
	}

	return nil
}

func (r *courseRepository) SoftDelete(ctx context.Context, id int64) error {
	deleted, err := softDelete(ctx, r.pool, "courses", "id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Int64("course_id", id).Msg("failed to delete course")
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if !deleted {
		return model.ErrCourseNotFound
	}
	return nil
}

// GetByID retrieves an active course without its modules and lessons.
func (r *courseRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1 AND ` + activeOnly("")

	rows, err := r.pool.Query(ctx, query, id)
	course, err := collectOne[model.Course](rows, err, model.ErrCourseNotFound)
	if err != nil {
		if errors.Is(err, model.ErrCourseNotFound) {
			return nil, err
		}
		r.logger.Error().Err(err).Int64("course_id", id).Msg("failed to query course")
		return nil, fmt.Errorf("failed to query course: %w", err)
	}

	return course, nil
}

// List retrieves active courses with pagination support.
func (r *courseRepository) List(ctx context.Context, limit, offset int) ([]model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE ` + activeOnly("") + ` ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query courses")
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}

	courses, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Course])
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan courses")
		return nil, fmt.Errorf("failed to scan courses: %w", err)
	}

	return courses, nil
}

func (r *courseRepository) CreateModule(ctx context.Context, module *model.Module) error {
	query := `
		INSERT INTO modules (course_id, title, position)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, module.CourseID, module.Title, module.Position).
		Scan(&module.ID, &module.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Int64("course_id", module.CourseID).Msg("failed to create module")
		return fmt.Errorf("failed to create module: %w", err)
	}

	return nil
}

func (r *courseRepository) UpdateModule(ctx context.Context, module *model.Module) error {
	query := `
		UPDATE modules SET title = $3, position = $4, updated_at = NOW()
		WHERE id = $1 AND course_id = $2 AND ` + activeOnly("")

	tag, err := r.pool.Exec(ctx, query, module.ID, module.CourseID, module.Title, module.Position)
	if err != nil {
		r.logger.Error().Err(err).Int64("module_id", module.ID).Msg("failed to update module")
		return fmt.Errorf("failed to update module: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrModuleNotFound
	}

	return nil
}

func (r *courseRepository) SoftDeleteModule(ctx context.Context, courseID, moduleID int64) error {
	deleted, err := softDelete(ctx, r.pool, "modules", "id = $1 AND course_id = $2", moduleID, courseID)
	if err != nil {
		r.logger.Error().Err(err).Int64("module_id", moduleID).Msg("failed to delete module")
		return fmt.Errorf("failed to delete module: %w", err)
	}
	if !deleted {
		return model.ErrModuleNotFound
	}
	return nil
}

func (r *courseRepository) GetModule(ctx context.Context, courseID, moduleID int64) (*model.Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM modules WHERE id = $1 AND course_id = $2 AND ` + activeOnly("")

	rows, err := r.pool.Query(ctx, query, moduleID, courseID)
	module, err := collectOne[model.Module](rows, err, model.ErrModuleNotFound)
	if err != nil {
		if errors.Is(err, model.ErrModuleNotFound) {
			return nil, err
		}
		r.logger.Error().Err(err).Int64("module_id", moduleID).Msg("failed to query module")
		return nil, fmt.Errorf("failed to query module: %w", err)
	}

	return module, nil
}

func (r *courseRepository) ListModules(ctx context.Context, courseID int64) ([]model.Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM modules WHERE course_id = $1 AND ` + activeOnly("") + ` ORDER BY position, id`

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		r.logger.Error().Err(err).Int64("course_id", courseID).Msg("failed to query modules")
		return nil, fmt.Errorf("failed to query modules: %w", err)
	}

	modules, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Module])
	if err != nil {
		return nil, fmt.Errorf("failed to scan modules: %w", err)
	}

	return modules, nil
}

func (r *courseRepository) CreateLesson(ctx context.Context, lesson *model.Lesson) error {
	query := `
		INSERT INTO lessons (course_id, module_id, title, content, video_url, position)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		lesson.CourseID, lesson.ModuleID, lesson.Title, lesson.Content, lesson.VideoURL, lesson.Position,
	).Scan(&lesson.ID, &lesson.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Int64("course_id", lesson.CourseID).Msg("failed to create lesson")
		return fmt.Errorf("failed to create lesson: %w", err)
	}

	r.logger.Debug().Int64("lesson_id", lesson.ID).Int64("course_id", lesson.CourseID).Msg("lesson created")
	return nil
}

func (r *courseRepository) UpdateLesson(ctx context.Context, lesson *model.Lesson) error {
	query := `
		UPDATE lessons
		SET module_id = $3, title = $4, content = $5, video_url = $6, position = $7, updated_at = NOW()
		WHERE id = $1 AND course_id = $2 AND ` + activeOnly("")

	tag, err := r.pool.Exec(ctx, query,
		lesson.ID, lesson.CourseID, lesson.ModuleID, lesson.Title, lesson.Content, lesson.VideoURL, lesson.Position,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("lesson_id", lesson.ID).Msg("failed to update lesson")
		return fmt.Errorf("failed to update lesson: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLessonNotFound
	}

	return nil
}

func (r *courseRepository) SoftDeleteLesson(ctx context.Context, courseID, lessonID int64) error {
	deleted, err := softDelete(ctx, r.pool, "lessons", "id = $1 AND course_id = $2", lessonID, courseID)
	if err != nil {
		r.logger.Error().Err(err).Int64("lesson_id", lessonID).Msg("failed to delete lesson")
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	if !deleted {
		return model.ErrLessonNotFound
	}
	return nil
}

// GetLesson retrieves an active lesson that belongs to the course.
func (r *courseRepository) GetLesson(ctx context.Context, courseID, lessonID int64) (*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1 AND course_id = $2 AND ` + activeOnly("")

	rows, err := r.pool.Query(ctx, query, lessonID, courseID)
	lesson, err := collectOne[model.Lesson](rows, err, model.ErrLessonNotFound)
	if err != nil {
		if errors.Is(err, model.ErrLessonNotFound) {
			return nil, err
		}
		r.logger.Error().Err(err).Int64("lesson_id", lessonID).Msg("failed to query lesson")
		return nil, fmt.Errorf("failed to query lesson: %w", err)
	}

	return lesson, nil
}

func (r *courseRepository) ListLessons(ctx context.Context, courseID int64) ([]model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE course_id = $1 AND ` + activeOnly("") + ` ORDER BY position, id`

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		r.logger.Error().Err(err).Int64("course_id", courseID).Msg("failed to query lessons")
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}

	lessons, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Lesson])
	if err != nil {
		return nil, fmt.Errorf("failed to scan lessons: %w", err)
	}

	return lessons, nil
}

// LessonIDs returns the ids of the active lessons of a course within tx.
func (r *courseRepository) LessonIDs(ctx context.Context, tx pgx.Tx, courseID int64) ([]int64, error) {
	query := `SELECT id FROM lessons WHERE course_id = $1 AND ` + activeOnly("") + ` ORDER BY id`

	rows, err := tx.Query(ctx, query, courseID)
	if err != nil {
		r.logger.Error().Err(err).Int64("course_id", courseID).Msg("failed to query lesson ids")
		return nil, fmt.Errorf("failed to query lesson ids: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan lesson ids: %w", err)
	}

	return ids, nil
}
