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

const progressColumns = `id, user_id, course_id, total_lessons, percent_complete, created_at, updated_at`

type progressRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProgressRepository creates a new PostgreSQL-backed progress repository.
func NewProgressRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProgressRepository {
	return &progressRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "progress").Logger(),
	}
}

func (r *progressRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(ctx, r.pool, r.logger)
}

// Create inserts a progress record unless one is already active.
func (r *progressRepository) Create(ctx context.Context, tx pgx.Tx, progress *model.Progress) (bool, error) {
	query := `
		INSERT INTO progress (user_id, course_id, total_lessons, percent_complete)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, course_id) WHERE is_deleted = FALSE DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query, progress.UserID, progress.CourseID, progress.TotalLessons, progress.PercentComplete).
		Scan(&progress.ID, &progress.CreatedAt, &progress.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		r.logger.Error().
			Err(err).
			Int64("user_id", progress.UserID).
			Int64("course_id", progress.CourseID).
			Msg("failed to create progress")
		return false, fmt.Errorf("failed to create progress: %w", err)
	}

	return true, nil
}

// Get retrieves the active record with its completed lesson ids.
func (r *progressRepository) Get(ctx context.Context, userID, courseID int64) (*model.Progress, error) {
	progress, err := r.get(ctx, r.pool, userID, courseID, false)
	if err != nil {
		return nil, err
	}

	progress.CompletedLessons, err = r.completedLessons(ctx, r.pool, userID, courseID)
	if err != nil {
		return nil, err
	}

	return progress, nil
}

// GetForUpdate retrieves and locks the active record within tx.
func (r *progressRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, userID, courseID int64) (*model.Progress, error) {
	return r.get(ctx, tx, userID, courseID, true)
}

func (r *progressRepository) get(ctx context.Context, q Querier, userID, courseID int64, lock bool) (*model.Progress, error) {
	query := `SELECT ` + progressColumns + ` FROM progress WHERE user_id = $1 AND course_id = $2 AND ` + activeOnly("")
	if lock {
		query += ` FOR UPDATE`
	}

	rows, err := q.Query(ctx, query, userID, courseID)
	progress, err := collectOne[model.Progress](rows, err, model.ErrProgressNotFound)
	if err != nil {
		if errors.Is(err, model.ErrProgressNotFound) {
			return nil, err
		}
		r.logger.Error().Err(err).Int64("user_id", userID).Int64("course_id", courseID).Msg("failed to query progress")
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}

	return progress, nil
}

// MarkLesson adds or removes a lesson from the completed set.
func (r *progressRepository) MarkLesson(ctx context.Context, tx pgx.Tx, userID, courseID, lessonID int64, completed bool) error {
	query := `
		INSERT INTO completed_lessons (user_id, course_id, lesson_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`
	if !completed {
		query = `DELETE FROM completed_lessons WHERE user_id = $1 AND course_id = $2 AND lesson_id = $3`
	}

	if _, err := tx.Exec(ctx, query, userID, courseID, lessonID); err != nil {
		r.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Int64("lesson_id", lessonID).
			Bool("completed", completed).
			Msg("failed to mark lesson")
		return fmt.Errorf("failed to mark lesson: %w", err)
	}

	return nil
}

func (r *progressRepository) CompletedLessons(ctx context.Context, tx pgx.Tx, userID, courseID int64) ([]int64, error) {
	return r.completedLessons(ctx, tx, userID, courseID)
}

func (r *progressRepository) completedLessons(ctx context.Context, q Querier, userID, courseID int64) ([]int64, error) {
	query := `SELECT lesson_id FROM completed_lessons WHERE user_id = $1 AND course_id = $2 ORDER BY lesson_id`

	rows, err := q.Query(ctx, query, userID, courseID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Int64("course_id", courseID).Msg("failed to query completed lessons")
		return nil, fmt.Errorf("failed to query completed lessons: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan completed lessons: %w", err)
	}

	return ids, nil
}

// UpdateStats stores the cached lesson total and percentage.
func (r *progressRepository) UpdateStats(ctx context.Context, tx pgx.Tx, id int64, totalLessons, percent int) error {
	query := `
		UPDATE progress SET total_lessons = $2, percent_complete = $3, updated_at = NOW()
		WHERE id = $1 AND ` + activeOnly("")

	if _, err := tx.Exec(ctx, query, id, totalLessons, percent); err != nil {
		r.logger.Error().Err(err).Int64("progress_id", id).Msg("failed to update progress")
		return fmt.Errorf("failed to update progress: %w", err)
	}

	return nil
}
