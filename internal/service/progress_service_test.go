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

type progressMocks struct {
	progress *MockProgressRepository
	courses  *MockCourseRepository
	orders   *MockOrderRepository
}

func newProgressServiceWithMocks() (ProgressTracker, *progressMocks) {
	m := &progressMocks{
		progress: new(MockProgressRepository),
		courses:  new(MockCourseRepository),
		orders:   new(MockOrderRepository),
	}
	return NewProgressService(m.progress, m.courses, m.orders, zerolog.Nop()), m
}

func TestProgressService_Initialize(t *testing.T) {
	course := &model.Course{ID: 9}

	t.Run("Purchased course", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks()
		tx := new(MockTx)
		m.courses.On("GetByID", mock.Anything, int64(9)).Return(course, nil)
		m.progress.On("BeginTx", mock.Anything).Return(tx, nil)
		m.orders.On("HasCompletedTx", mock.Anything, tx, int64(5), int64(9)).Return(true, nil)
		m.courses.On("LessonIDs", mock.Anything, tx, int64(9)).Return([]int64{1, 2, 3, 4}, nil)
		m.progress.On("Create", mock.Anything, tx, mock.MatchedBy(func(p *model.Progress) bool {
			return p.TotalLessons == 4 && p.PercentComplete == 0
		})).Return(true, nil)
		tx.On("Commit", mock.Anything).Return(nil)
		m.progress.On("Get", mock.Anything, int64(5), int64(9)).Return(&model.Progress{ID: 1, TotalLessons: 4}, nil)

		p, err := svc.Initialize(context.Background(), student, 9)

		require.NoError(t, err)
		assert.Equal(t, 4, p.TotalLessons)
	})

	t.Run("Not purchased", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks()
		tx := new(MockTx)
		m.courses.On("GetByID", mock.Anything, int64(9)).Return(course, nil)
		m.progress.On("BeginTx", mock.Anything).Return(tx, nil)
		m.orders.On("HasCompletedTx", mock.Anything, tx, int64(5), int64(9)).Return(false, nil)
		tx.On("Rollback", mock.Anything).Return(nil)

		_, err := svc.Initialize(context.Background(), student, 9)

		assert.ErrorIs(t, err, model.ErrCourseNotPurchased)
	})

	t.Run("Already initialised", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks()
		tx := new(MockTx)
		m.courses.On("GetByID", mock.Anything, int64(9)).Return(course, nil)
		m.progress.On("BeginTx", mock.Anything).Return(tx, nil)
		m.orders.On("HasCompletedTx", mock.Anything, tx, int64(5), int64(9)).Return(true, nil)
		m.courses.On("LessonIDs", mock.Anything, tx, int64(9)).Return([]int64{1}, nil)
		m.progress.On("Create", mock.Anything, tx, mock.Anything).Return(false, nil)
		tx.On("Rollback", mock.Anything).Return(nil)

		_, err := svc.Initialize(context.Background(), student, 9)

		assert.ErrorIs(t, err, model.ErrProgressExists)
	})
}

func TestProgressService_UpdateLesson(t *testing.T) {
	lessons := []int64{1, 2, 3, 4}

	tests := []struct {
		name        string
		lessonID    int64
		completed   bool
		done        []int64
		wantPercent int
	}{
		{"Two of four complete", 2, true, []int64{1, 2}, 50},
		{"Removing lesson two leaves one of four", 2, false, []int64{1}, 25},
		{"Marking a completed lesson again is unchanged", 1, true, []int64{1}, 25},
		{"All complete", 4, true, []int64{1, 2, 3, 4}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newProgressServiceWithMocks()
			tx := new(MockTx)

			m.progress.On("BeginTx", mock.Anything).Return(tx, nil)
			m.progress.On("GetForUpdate", mock.Anything, tx, int64(5), int64(9)).Return(&model.Progress{ID: 11, UserID: 5, CourseID: 9}, nil)
			m.courses.On("LessonIDs", mock.Anything, tx, int64(9)).Return(lessons, nil)
			m.progress.On("MarkLesson", mock.Anything, tx, int64(5), int64(9), tt.lessonID, tt.completed).Return(nil)
			m.progress.On("CompletedLessons", mock.Anything, tx, int64(5), int64(9)).Return(tt.done, nil)
			m.progress.On("UpdateStats", mock.Anything, tx, int64(11), 4, tt.wantPercent).Return(nil)
			tx.On("Commit", mock.Anything).Return(nil)

			p, err := svc.UpdateLesson(context.Background(), student, 9, tt.lessonID, tt.completed)

			require.NoError(t, err)
			assert.Equal(t, tt.wantPercent, p.PercentComplete)
			assert.Equal(t, 4, p.TotalLessons)
			assert.Equal(t, tt.done, p.CompletedLessons)
			m.progress.AssertExpectations(t)
		})
	}
}

func TestProgressService_UpdateLesson_LessonNotInCourse(t *testing.T) {
	svc, m := newProgressServiceWithMocks()
	tx := new(MockTx)

	m.progress.On("BeginTx", mock.Anything).Return(tx, nil)
	m.progress.On("GetForUpdate", mock.Anything, tx, int64(5), int64(9)).Return(&model.Progress{ID: 11}, nil)
	m.courses.On("LessonIDs", mock.Anything, tx, int64(9)).Return([]int64{1, 2}, nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	_, err := svc.UpdateLesson(context.Background(), student, 9, 42, true)

	assert.ErrorIs(t, err, model.ErrLessonNotFound)
	m.progress.AssertNotCalled(t, "MarkLesson", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProgressService_UpdateLesson_NoProgress(t *testing.T) {
	svc, m := newProgressServiceWithMocks()
	tx := new(MockTx)

	m.progress.On("BeginTx", mock.Anything).Return(tx, nil)
	m.progress.On("GetForUpdate", mock.Anything, tx, int64(5), int64(9)).Return(nil, model.ErrProgressNotFound)
	tx.On("Rollback", mock.Anything).Return(nil)

	_, err := svc.UpdateLesson(context.Background(), student, 9, 1, true)

	assert.ErrorIs(t, err, model.ErrProgressNotFound)
}

func TestProgressService_Get_RecomputesAgainstCurrentLessons(t *testing.T) {
	t.Run("Lesson added since last update", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks()
		tx := new(MockTx)

		cached := &model.Progress{ID: 11, UserID: 5, CourseID: 9, TotalLessons: 4, PercentComplete: 25}
		m.progress.On("BeginTx", mock.Anything).Return(tx, nil)
		m.progress.On("GetForUpdate", mock.Anything, tx, int64(5), int64(9)).Return(cached, nil)
		m.courses.On("LessonIDs", mock.Anything, tx, int64(9)).Return([]int64{1, 2, 3, 4, 5}, nil)
		m.progress.On("CompletedLessons", mock.Anything, tx, int64(5), int64(9)).Return([]int64{1}, nil)
		m.progress.On("UpdateStats", mock.Anything, tx, int64(11), 5, 20).Return(nil)
		tx.On("Commit", mock.Anything).Return(nil)

		p, err := svc.Get(context.Background(), student, 9)

		require.NoError(t, err)
		assert.Equal(t, 5, p.TotalLessons)
		assert.Equal(t, 20, p.PercentComplete)
		assert.Equal(t, []int64{1}, p.CompletedLessons)
		m.progress.AssertExpectations(t)
	})

	t.Run("Completed lesson deleted from the course", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks()
		tx := new(MockTx)

		cached := &model.Progress{ID: 11, TotalLessons: 4, PercentComplete: 50}
		m.progress.On("BeginTx", mock.Anything).Return(tx, nil)
		m.progress.On("GetForUpdate", mock.Anything, tx, int64(5), int64(9)).Return(cached, nil)
		m.courses.On("LessonIDs", mock.Anything, tx, int64(9)).Return([]int64{1, 3, 4}, nil)
		m.progress.On("CompletedLessons", mock.Anything, tx, int64(5), int64(9)).Return([]int64{1, 2}, nil)
		m.progress.On("UpdateStats", mock.Anything, tx, int64(11), 3, 33).Return(nil)
		tx.On("Commit", mock.Anything).Return(nil)

		p, err := svc.Get(context.Background(), student, 9)

		require.NoError(t, err)
		assert.Equal(t, 33, p.PercentComplete)
	})

	t.Run("Fresh cache is not rewritten", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks()
		tx := new(MockTx)

		cached := &model.Progress{ID: 11, TotalLessons: 4, PercentComplete: 25}
		m.progress.On("BeginTx", mock.Anything).Return(tx, nil)
		m.progress.On("GetForUpdate", mock.Anything, tx, int64(5), int64(9)).Return(cached, nil)
		m.courses.On("LessonIDs", mock.Anything, tx, int64(9)).Return([]int64{1, 2, 3, 4}, nil)
		m.progress.On("CompletedLessons", mock.Anything, tx, int64(5), int64(9)).Return([]int64{2}, nil)
		tx.On("Commit", mock.Anything).Return(nil)

		p, err := svc.Get(context.Background(), student, 9)

		require.NoError(t, err)
		assert.Equal(t, 25, p.PercentComplete)
		m.progress.AssertNotCalled(t, "UpdateStats", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("No progress", func(t *testing.T) {
		svc, m := newProgressServiceWithMocks()
		tx := new(MockTx)

		m.progress.On("BeginTx", mock.Anything).Return(tx, nil)
		m.progress.On("GetForUpdate", mock.Anything, tx, int64(5), int64(9)).Return(nil, model.ErrProgressNotFound)
		tx.On("Rollback", mock.Anything).Return(nil)

		_, err := svc.Get(context.Background(), student, 9)

		assert.ErrorIs(t, err, model.ErrProgressNotFound)
	})
}

func TestProgressService_InitializeTx_EmptyCourse(t *testing.T) {
	svc, m := newProgressServiceWithMocks()
	tx := new(MockTx)

	m.courses.On("LessonIDs", mock.Anything, tx, int64(9)).Return([]int64{}, nil)
	m.progress.On("Create", mock.Anything, tx, mock.MatchedBy(func(p *model.Progress) bool {
		return p.TotalLessons == 0 && p.PercentComplete == 0
	})).Return(true, nil)

	created, err := svc.InitializeTx(context.Background(), tx, 5, 9)

	require.NoError(t, err)
	assert.True(t, created)
}
