package service

import (
	"context"

	"edulearn/internal/model"
	"edulearn/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// courseListService backs both the cart and the wishlist.
type courseListService struct {
	repo       repository.SavedCourseRepository
	courseRepo repository.CourseRepository
	// orderRepo is set for the cart only; purchased courses cannot be added.
	orderRepo repository.OrderRepository
	notFound  error
	logger    zerolog.Logger
}

// NewCartService creates the cart service.
func NewCartService(
	repo repository.SavedCourseRepository,
	courseRepo repository.CourseRepository,
	orderRepo repository.OrderRepository,
	logger zerolog.Logger,
) CourseListService {
	return &courseListService{
		repo:       repo,
		courseRepo: courseRepo,
		orderRepo:  orderRepo,
		notFound:   model.ErrNotInCart,
		logger:     logger.With().Str("service", "cart").Logger(),
	}
}

// NewWishlistService creates the wishlist service.
func NewWishlistService(
	repo repository.SavedCourseRepository,
	courseRepo repository.CourseRepository,
	logger zerolog.Logger,
) CourseListService {
	return &courseListService{
		repo:       repo,
		courseRepo: courseRepo,
		notFound:   model.ErrNotInWishlist,
		logger:     logger.With().Str("service", "wishlist").Logger(),
	}
}

func (s *courseListService) Add(ctx context.Context, actor model.Actor, courseID int64) error {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return err
	}

	if s.orderRepo != nil {
		purchased, err := s.orderRepo.HasCompleted(ctx, actor.UserID, courseID)
		if err != nil {
			return err
		}
		if purchased {
			return model.ErrCourseAlreadyPurchased
		}
	}

	if err := s.repo.Add(ctx, actor.UserID, courseID); err != nil {
		return err
	}

	s.logger.Debug().Int64("user_id", actor.UserID).Int64("course_id", courseID).Msg("course added")
	return nil
}

func (s *courseListService) Remove(ctx context.Context, actor model.Actor, courseID int64) error {
	removed, err := s.repo.Remove(ctx, actor.UserID, courseID)
	if err != nil {
		return err
	}
	if !removed {
		return s.notFound
	}
	return nil
}

// List returns the saved courses with the sum of their current prices.
func (s *courseListService) List(ctx context.Context, actor model.Actor) (*model.CourseList, error) {
	items, err := s.repo.List(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price)
	}
	if items == nil {
		items = []model.SavedCourse{}
	}

	return &model.CourseList{Items: items, Subtotal: subtotal}, nil
}
