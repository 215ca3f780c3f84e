package repository

import (
	"context"
	"fmt"

	"edulearn/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// savedCourseRepository backs both carts and wishlists; only the table differs.
type savedCourseRepository struct {
	pool     *pgxpool.Pool
	table    string
	conflict error
	logger   zerolog.Logger
}

// NewCartRepository creates a cart repository over cart_items.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) SavedCourseRepository {
	return &savedCourseRepository{
		pool:     pool,
		table:    "cart_items",
		conflict: model.ErrAlreadyInCart,
		logger:   logger.With().Str("repository", "cart").Logger(),
	}
}

// NewWishlistRepository creates a wishlist repository over wishlist_items.
func NewWishlistRepository(pool *pgxpool.Pool, logger zerolog.Logger) SavedCourseRepository {
	return &savedCourseRepository{
		pool:     pool,
		table:    "wishlist_items",
		conflict: model.ErrAlreadyInWishlist,
		logger:   logger.With().Str("repository", "wishlist").Logger(),
	}
}

func (r *savedCourseRepository) Add(ctx context.Context, userID, courseID int64) error {
	query := `INSERT INTO ` + r.table + ` (user_id, course_id) VALUES ($1, $2)`

	if _, err := r.pool.Exec(ctx, query, userID, courseID); err != nil {
		if isUniqueViolation(err) {
			return r.conflict
		}
		r.logger.Error().Err(err).Int64("user_id", userID).Int64("course_id", courseID).Msg("failed to add course")
		return fmt.Errorf("failed to add course to %s: %w", r.table, err)
	}

	return nil
}

func (r *savedCourseRepository) Remove(ctx context.Context, userID, courseID int64) (bool, error) {
	return r.remove(ctx, r.pool, userID, courseID)
}

func (r *savedCourseRepository) RemoveTx(ctx context.Context, tx pgx.Tx, userID, courseID int64) (bool, error) {
	return r.remove(ctx, tx, userID, courseID)
}

func (r *savedCourseRepository) remove(ctx context.Context, q Querier, userID, courseID int64) (bool, error) {
	removed, err := softDelete(ctx, q, r.table, "user_id = $1 AND course_id = $2", userID, courseID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Int64("course_id", courseID).Msg("failed to remove course")
		return false, fmt.Errorf("failed to remove course from %s: %w", r.table, err)
	}
	return removed, nil
}

// List returns the user's saved courses that are still on sale.
func (r *savedCourseRepository) List(ctx context.Context, userID int64) ([]model.SavedCourse, error) {
	query := `
		SELECT s.course_id, c.title, c.price, s.created_at
		FROM ` + r.table + ` s
		JOIN courses c ON c.id = s.course_id
		WHERE s.user_id = $1 AND ` + activeOnly("s") + ` AND ` + activeOnly("c") + `
		ORDER BY s.created_at, s.id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query saved courses")
		return nil, fmt.Errorf("failed to query %s: %w", r.table, err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.SavedCourse])
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", r.table, err)
	}

	return items, nil
}
