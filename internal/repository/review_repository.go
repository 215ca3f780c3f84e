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

const reviewColumns = `id, user_id, course_id, rating, comment, created_at, updated_at`

type reviewRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReviewRepository {
	return &reviewRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "review").Logger(),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (user_id, course_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, review.UserID, review.CourseID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrAlreadyReviewed
		}
		r.logger.Error().Err(err).Int64("course_id", review.CourseID).Msg("failed to create review")
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	query := `
		UPDATE reviews SET rating = $2, comment = $3, updated_at = NOW()
		WHERE id = $1 AND ` + activeOnly("") + `
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query, review.ID, review.Rating, review.Comment).Scan(&review.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrReviewNotFound
		}
		r.logger.Error().Err(err).Int64("review_id", review.ID).Msg("failed to update review")
		return fmt.Errorf("failed to update review: %w", err)
	}

	return nil
}

func (r *reviewRepository) SoftDelete(ctx context.Context, id int64) error {
	deleted, err := softDelete(ctx, r.pool, "reviews", "id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Int64("review_id", id).Msg("failed to delete review")
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if !deleted {
		return model.ErrReviewNotFound
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1 AND ` + activeOnly("")

	rows, err := r.pool.Query(ctx, query, id)
	review, err := collectOne[model.Review](rows, err, model.ErrReviewNotFound)
	if err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil, err
		}
		r.logger.Error().Err(err).Int64("review_id", id).Msg("failed to query review")
		return nil, fmt.Errorf("failed to query review: %w", err)
	}

	return review, nil
}

func (r *reviewRepository) ListByCourse(ctx context.Context, courseID int64) ([]model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE course_id = $1 AND ` + activeOnly("") + ` ORDER BY created_at DESC, id`

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		r.logger.Error().Err(err).Int64("course_id", courseID).Msg("failed to query reviews")
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}

	reviews, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Review])
	if err != nil {
		return nil, fmt.Errorf("failed to scan reviews: %w", err)
	}

	return reviews, nil
}
