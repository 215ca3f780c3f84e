package service

import (
	"context"
	"testing"

	"edulearn/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartService_Add(t *testing.T) {
	t.Run("Purchased course is rejected", func(t *testing.T) {
		repo, courses, orders := new(MockSavedCourseRepository), new(MockCourseRepository), new(MockOrderRepository)
		svc := NewCartService(repo, courses, orders, zerolog.Nop())
		courses.On("GetByID", mock.Anything, int64(9)).Return(&model.Course{ID: 9}, nil)
		orders.On("HasCompleted", mock.Anything, int64(5), int64(9)).Return(true, nil)

		err := svc.Add(context.Background(), student, 9)

		assert.ErrorIs(t, err, model.ErrCourseAlreadyPurchased)
		repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Duplicate entry", func(t *testing.T) {
		repo, courses, orders := new(MockSavedCourseRepository), new(MockCourseRepository), new(MockOrderRepository)
		svc := NewCartService(repo, courses, orders, zerolog.Nop())
		courses.On("GetByID", mock.Anything, int64(9)).Return(&model.Course{ID: 9}, nil)
		orders.On("HasCompleted", mock.Anything, int64(5), int64(9)).Return(false, nil)
		repo.On("Add", mock.Anything, int64(5), int64(9)).Return(model.ErrAlreadyInCart)

		assert.ErrorIs(t, svc.Add(context.Background(), student, 9), model.ErrAlreadyInCart)
	})
}

func TestWishlistService_AddIgnoresPurchases(t *testing.T) {
	repo, courses := new(MockSavedCourseRepository), new(MockCourseRepository)
	svc := NewWishlistService(repo, courses, zerolog.Nop())
	courses.On("GetByID", mock.Anything, int64(9)).Return(&model.Course{ID: 9}, nil)
	repo.On("Add", mock.Anything, int64(5), int64(9)).Return(nil)

	assert.NoError(t, svc.Add(context.Background(), student, 9))
}

func TestCourseListService_Remove(t *testing.T) {
	cartRepo, wishRepo := new(MockSavedCourseRepository), new(MockSavedCourseRepository)
	cart := NewCartService(cartRepo, new(MockCourseRepository), new(MockOrderRepository), zerolog.Nop())
	wishlist := NewWishlistService(wishRepo, new(MockCourseRepository), zerolog.Nop())

	cartRepo.On("Remove", mock.Anything, int64(5), int64(9)).Return(false, nil)
	wishRepo.On("Remove", mock.Anything, int64(5), int64(9)).Return(false, nil)

	assert.ErrorIs(t, cart.Remove(context.Background(), student, 9), model.ErrNotInCart)
	assert.ErrorIs(t, wishlist.Remove(context.Background(), student, 9), model.ErrNotInWishlist)
}

func TestCourseListService_List(t *testing.T) {
	t.Run("Sums current prices", func(t *testing.T) {
		repo := new(MockSavedCourseRepository)
		svc := NewWishlistService(repo, new(MockCourseRepository), zerolog.Nop())
		repo.On("List", mock.Anything, int64(5)).Return([]model.SavedCourse{
			{CourseID: 1, Price: decimal.NewFromInt(200000)},
			{CourseID: 2, Price: decimal.NewFromInt(350000)},
		}, nil)

		list, err := svc.List(context.Background(), student)

		require.NoError(t, err)
		assert.Len(t, list.Items, 2)
		assert.True(t, decimal.NewFromInt(550000).Equal(list.Subtotal))
	})

	t.Run("Empty list", func(t *testing.T) {
		repo := new(MockSavedCourseRepository)
		svc := NewWishlistService(repo, new(MockCourseRepository), zerolog.Nop())
		repo.On("List", mock.Anything, int64(5)).Return(nil, nil)

		list, err := svc.List(context.Background(), student)

		require.NoError(t, err)
		assert.NotNil(t, list.Items)
		assert.True(t, list.Subtotal.IsZero())
	})
}
