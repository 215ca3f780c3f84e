package service

import (
	"context"
	"testing"

	"edulearn/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReviewServiceWithMocks() (ReviewService, *MockReviewRepository, *MockCourseRepository, *MockOrderRepository) {
	repo, courses, orders := new(MockReviewRepository), new(MockCourseRepository), new(MockOrderRepository)
	return NewReviewService(repo, courses, orders, zerolog.Nop()), repo, courses, orders
}

func TestReviewService_Create(t *testing.T) {
	t.Run("Purchased course", func(t *testing.T) {
		svc, repo, courses, orders := newReviewServiceWithMocks()
		courses.On("GetByID", mock.Anything, int64(9)).Return(&model.Course{ID: 9}, nil)
		orders.On("HasCompleted", mock.Anything, int64(5), int64(9)).Return(true, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(r *model.Review) bool {
			return r.UserID == 5 && r.CourseID == 9 && r.Rating == 4
		})).Return(nil)

		review, err := svc.Create(context.Background(), student, 9, &model.ReviewRequest{Rating: 4, Comment: "solid"})

		require.NoError(t, err)
		assert.Equal(t, 4, review.Rating)
	})

	t.Run("Not purchased", func(t *testing.T) {
		svc, _, courses, orders := newReviewServiceWithMocks()
		courses.On("GetByID", mock.Anything, int64(9)).Return(&model.Course{ID: 9}, nil)
		orders.On("HasCompleted", mock.Anything, int64(5), int64(9)).Return(false, nil)

		_, err := svc.Create(context.Background(), student, 9, &model.ReviewRequest{Rating: 4})

		assert.ErrorIs(t, err, model.ErrCourseNotPurchased)
	})

	t.Run("Rating out of range", func(t *testing.T) {
		svc, _, _, _ := newReviewServiceWithMocks()

		_, err := svc.Create(context.Background(), student, 9, &model.ReviewRequest{Rating: 6})

		assert.ErrorIs(t, err, model.ErrInvalidRating)
	})
}

func TestReviewService_Delete_NotOwner(t *testing.T) {
	svc, repo, _, _ := newReviewServiceWithMocks()
	repo.On("GetByID", mock.Anything, int64(3)).Return(&model.Review{ID: 3, UserID: 99}, nil)

	err := svc.Delete(context.Background(), student, 3)

	assert.ErrorIs(t, err, model.ErrForbidden)
	repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestReviewService_ListByCourse_Average(t *testing.T) {
	svc, repo, courses, _ := newReviewServiceWithMocks()
	courses.On("GetByID", mock.Anything, int64(9)).Return(&model.Course{ID: 9}, nil)
	repo.On("ListByCourse", mock.Anything, int64(9)).Return([]model.Review{{Rating: 5}, {Rating: 4}, {Rating: 4}}, nil)

	result, err := svc.ListByCourse(context.Background(), 9)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Count)
	assert.Equal(t, 4.33, result.Average)
}
