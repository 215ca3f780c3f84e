package service

import (
	"context"
	"math"

	"edulearn/internal/model"
	"edulearn/internal/repository"

	"github.com/rs/zerolog"
)

type reviewService struct {
	repo       repository.ReviewRepository
	courseRepo repository.CourseRepository
	orderRepo  repository.OrderRepository
	logger     zerolog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	repo repository.ReviewRepository,
	courseRepo repository.CourseRepository,
	orderRepo repository.OrderRepository,
	logger zerolog.Logger,
) ReviewService {
	return &reviewService{
		repo:       repo,
		courseRepo: courseRepo,
		orderRepo:  orderRepo,
		logger:     logger.With().Str("service", "review").Logger(),
	}
}

// Create requires the caller to have bought the course.
func (s *reviewService) Create(ctx context.Context, actor model.Actor, courseID int64, req *model.ReviewRequest) (*model.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	purchased, err := s.orderRepo.HasCompleted(ctx, actor.UserID, courseID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, model.ErrCourseNotPurchased
	}

	review := &model.Review{
		UserID:   actor.UserID,
		CourseID: courseID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, actor model.Actor, id int64, req *model.ReviewRequest) (*model.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	review, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	review.Rating = req.Rating
	review.Comment = req.Comment
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, actor model.Actor, id int64) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *reviewService) authorize(ctx context.Context, actor model.Actor, id int64) (*model.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(review.UserID) {
		return nil, model.ErrForbidden
	}
	return review, nil
}

// ListByCourse returns the reviews with their average rating to two decimals.
func (s *reviewService) ListByCourse(ctx context.Context, courseID int64) (*model.CourseReviews, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	reviews, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	result := &model.CourseReviews{Reviews: reviews, Count: len(reviews)}
	if result.Reviews == nil {
		result.Reviews = []model.Review{}
	}
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		result.Average = math.Round(float64(sum)/float64(len(reviews))*100) / 100
	}

	return result, nil
}
