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

const blogColumns = `id, author_id, title, content, published, created_at, updated_at`

type blogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewBlogRepository creates a new PostgreSQL-backed blog repository.
func NewBlogRepository(pool *pgxpool.Pool, logger zerolog.Logger) BlogRepository {
	return &blogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "blog").Logger(),
	}
}

func (r *blogRepository) Create(ctx context.Context, blog *model.Blog) error {
	query := `
		INSERT INTO blogs (author_id, title, content, published)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, blog.AuthorID, blog.Title, blog.Content, blog.Published).
		Scan(&blog.ID, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to create blog")
		return fmt.Errorf("failed to create blog: %w", err)
	}

	return nil
}

func (r *blogRepository) Update(ctx context.Context, blog *model.Blog) error {
	query := `
		UPDATE blogs SET title = $2, content = $3, published = $4, updated_at = NOW()
		WHERE id = $1 AND ` + activeOnly("") + `
		RETURNING author_id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, blog.ID, blog.Title, blog.Content, blog.Published).
		Scan(&blog.AuthorID, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrBlogNotFound
		}
		r.logger.Error().Err(err).Int64("blog_id", blog.ID).Msg("failed to update blog")
		return fmt.Errorf("failed to update blog: %w", err)
	}

	return nil
}

func (r *blogRepository) SoftDelete(ctx context.Context, id int64) error {
	deleted, err := softDelete(ctx, r.pool, "blogs", "id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Int64("blog_id", id).Msg("failed to delete blog")
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	if !deleted {
		return model.ErrBlogNotFound
	}
	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, id int64, publishedOnly bool) (*model.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1 AND ` + activeOnly("") + ` AND (published OR NOT $2)`

	rows, err := r.pool.Query(ctx, query, id, publishedOnly)
	blog, err := collectOne[model.Blog](rows, err, model.ErrBlogNotFound)
	if err != nil {
		if errors.Is(err, model.ErrBlogNotFound) {
			return nil, err
		}
		r.logger.Error().Err(err).Int64("blog_id", id).Msg("failed to query blog")
		return nil, fmt.Errorf("failed to query blog: %w", err)
	}

	return blog, nil
}

func (r *blogRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]model.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs
		WHERE ` + activeOnly("") + ` AND (published OR NOT $1)
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, publishedOnly, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query blogs")
		return nil, fmt.Errorf("failed to query blogs: %w", err)
	}

	blogs, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Blog])
	if err != nil {
		return nil, fmt.Errorf("failed to scan blogs: %w", err)
	}

	return blogs, nil
}
