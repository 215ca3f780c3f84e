package service

import (
	"context"
	"slices"

	"edulearn/internal/model"
	"edulearn/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type progressService struct {
	progressRepo repository.ProgressRepository
	courseRepo   repository.CourseRepository
	orderRepo    repository.OrderRepository
	logger       zerolog.Logger
}

// NewProgressService creates a new progress service.
func NewProgressService(
	progressRepo repository.ProgressRepository,
	courseRepo repository.CourseRepository,
	orderRepo repository.OrderRepository,
	logger zerolog.Logger,
) ProgressTracker {
	return &progressService{
		progressRepo: progressRepo,
		courseRepo:   courseRepo,
		orderRepo:    orderRepo,
		logger:       logger.With().Str("service", "progress").Logger(),
	}
}

// Initialize starts tracking a purchased course.
func (s *progressService) Initialize(ctx context.Context, actor model.Actor, courseID int64) (*model.Progress, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	err := inTx(ctx, s.progressRepo, s.logger, func(tx pgx.Tx) error {
		purchased, err := s.orderRepo.HasCompletedTx(ctx, tx, actor.UserID, courseID)
		if err != nil {
			return err
		}
		if !purchased {
			return model.ErrCourseNotPurchased
		}

		created, err := s.InitializeTx(ctx, tx, actor.UserID, courseID)
		if err != nil {
			return err
		}
		if !created {
			return model.ErrProgressExists
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.progressRepo.Get(ctx, actor.UserID, courseID)
}

// InitializeTx creates a 0% record sized to the course's current lessons.
func (s *progressService) InitializeTx(ctx context.Context, tx pgx.Tx, userID, courseID int64) (bool, error) {
	lessons, err := s.courseRepo.LessonIDs(ctx, tx, courseID)
	if err != nil {
		return false, err
	}

	created, err := s.progressRepo.Create(ctx, tx, &model.Progress{
		UserID:          userID,
		CourseID:        courseID,
		TotalLessons:    len(lessons),
		PercentComplete: 0,
	})
	if err != nil {
		return false, err
	}

	if created {
		s.logger.Info().
			Int64("user_id", userID).
			Int64("course_id", courseID).
			Int("total_lessons", len(lessons)).
			Msg("progress initialised")
	}

	return created, nil
}

// UpdateLesson adds or removes a lesson from the completed set and recomputes
// the cached total and percentage from the current catalog.
func (s *progressService) UpdateLesson(ctx context.Context, actor model.Actor, courseID, lessonID int64, completed bool) (*model.Progress, error) {
	var progress *model.Progress

	err := inTx(ctx, s.progressRepo, s.logger, func(tx pgx.Tx) error {
		var err error
		progress, err = s.progressRepo.GetForUpdate(ctx, tx, actor.UserID, courseID)
		if err != nil {
			return err
		}

		lessons, err := s.courseRepo.LessonIDs(ctx, tx, courseID)
		if err != nil {
			return err
		}
		if !slices.Contains(lessons, lessonID) {
			return model.ErrLessonNotFound
		}

		if err := s.progressRepo.MarkLesson(ctx, tx, actor.UserID, courseID, lessonID, completed); err != nil {
			return err
		}

		done, err := s.progressRepo.CompletedLessons(ctx, tx, actor.UserID, courseID)
		if err != nil {
			return err
		}

		progress.TotalLessons = len(lessons)
		progress.PercentComplete = model.ProgressPercent(done, lessons, len(lessons))
		progress.CompletedLessons = done

		return s.progressRepo.UpdateStats(ctx, tx, progress.ID, progress.TotalLessons, progress.PercentComplete)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int64("user_id", actor.UserID).
		Int64("course_id", courseID).
		Int64("lesson_id", lessonID).
		Bool("completed", completed).
		Int("percent", progress.PercentComplete).
		Msg("lesson progress updated")

	return progress, nil
}

// Get recomputes the total and percentage against the course's current
// lessons, storing them again when lessons were added or removed since the
// last update.
func (s *progressService) Get(ctx context.Context, actor model.Actor, courseID int64) (*model.Progress, error) {
	var progress *model.Progress

	err := inTx(ctx, s.progressRepo, s.logger, func(tx pgx.Tx) error {
		var err error
		progress, err = s.progressRepo.GetForUpdate(ctx, tx, actor.UserID, courseID)
		if err != nil {
			return err
		}

		lessons, err := s.courseRepo.LessonIDs(ctx, tx, courseID)
		if err != nil {
			return err
		}

		done, err := s.progressRepo.CompletedLessons(ctx, tx, actor.UserID, courseID)
		if err != nil {
			return err
		}

		total, percent := len(lessons), model.ProgressPercent(done, lessons, len(lessons))
		progress.CompletedLessons = done
		if total == progress.TotalLessons && percent == progress.PercentComplete {
			return nil
		}

		s.logger.Debug().
			Int64("progress_id", progress.ID).
			Int("total_lessons", total).
			Int("percent", percent).
			Msg("refreshing stale progress")
		progress.TotalLessons = total
		progress.PercentComplete = percent
		return s.progressRepo.UpdateStats(ctx, tx, progress.ID, total, percent)
	})
	if err != nil {
		return nil, err
	}

	return progress, nil
}
