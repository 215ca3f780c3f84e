package service

import (
	"context"
	"strings"

	"edulearn/internal/model"
	"edulearn/internal/repository"

	"github.com/rs/zerolog"
)

type blogService struct {
	repo   repository.BlogRepository
	logger zerolog.Logger
}

// NewBlogService creates a new blog service.
func NewBlogService(repo repository.BlogRepository, logger zerolog.Logger) BlogService {
	return &blogService{
		repo:   repo,
		logger: logger.With().Str("service", "blog").Logger(),
	}
}

func (s *blogService) List(ctx context.Context, limit, offset int) ([]model.Blog, error) {
	return s.repo.List(ctx, true, limit, offset)
}

func (s *blogService) Get(ctx context.Context, id int64) (*model.Blog, error) {
	return s.repo.GetByID(ctx, id, true)
}

func (s *blogService) Create(ctx context.Context, actor model.Actor, req *model.BlogRequest) (*model.Blog, error) {
	if !actor.IsAdmin() {
		return nil, model.ErrForbidden
	}
	if err := validateBlog(req); err != nil {
		return nil, err
	}

	blog := &model.Blog{
		AuthorID:  actor.UserID,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Published: req.Published,
	}
	if err := s.repo.Create(ctx, blog); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("blog_id", blog.ID).Bool("published", blog.Published).Msg("blog created")
	return blog, nil
}

func (s *blogService) Update(ctx context.Context, actor model.Actor, id int64, req *model.BlogRequest) (*model.Blog, error) {
	if !actor.IsAdmin() {
		return nil, model.ErrForbidden
	}
	if err := validateBlog(req); err != nil {
		return nil, err
	}

	blog, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	blog.Title = strings.TrimSpace(req.Title)
	blog.Content = req.Content
	blog.Published = req.Published
	if err := s.repo.Update(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

func (s *blogService) Delete(ctx context.Context, actor model.Actor, id int64) error {
	if !actor.IsAdmin() {
		return model.ErrForbidden
	}
	return s.repo.SoftDelete(ctx, id)
}

func validateBlog(req *model.BlogRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return model.Validationf("title is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return model.Validationf("content is required")
	}
	return nil
}
