package service

import (
	"context"
	"strings"

	"edulearn/internal/model"
	"edulearn/internal/repository"

	"github.com/rs/zerolog"
)

type courseService struct {
	repo   repository.CourseRepository
	logger zerolog.Logger
}

// NewCourseService creates a new course service.
func NewCourseService(repo repository.CourseRepository, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:   repo,
		logger: logger.With().Str("service", "course").Logger(),
	}
}

func (s *courseService) List(ctx context.Context, limit, offset int) ([]model.Course, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *courseService) Get(ctx context.Context, id int64) (*model.Course, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if course.Modules, err = s.repo.ListModules(ctx, id); err != nil {
		return nil, err
	}
	if course.Lessons, err = s.repo.ListLessons(ctx, id); err != nil {
		return nil, err
	}

	return course, nil
}

func (s *courseService) Create(ctx context.Context, actor model.Actor, req *model.CourseRequest) (*model.Course, error) {
	if actor.Role != model.RoleInstructor && !actor.IsAdmin() {
		return nil, model.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	course := &model.Course{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Price:        req.Price,
		InstructorID: actor.UserID,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("course_id", course.ID).Int64("instructor_id", actor.UserID).Msg("course created")
	return course, nil
}

func (s *courseService) Update(ctx context.Context, actor model.Actor, id int64, req *model.CourseRequest) (*model.Course, error) {
	course, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	course.Title = strings.TrimSpace(req.Title)
	course.Description = req.Description
	course.Price = req.Price
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

func (s *courseService) Delete(ctx context.Context, actor model.Actor, id int64) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("course_id", id).Int64("by", actor.UserID).Msg("course deleted")
	return nil
}

// authorize fetches the active course and checks the actor owns it or is an admin.
func (s *courseService) authorize(ctx context.Context, actor model.Actor, courseID int64) (*model.Course, error) {
	course, err := s.repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(course.InstructorID) {
		return nil, model.ErrForbidden
	}
	return course, nil
}

func (s *courseService) CreateModule(ctx context.Context, actor model.Actor, courseID int64, req *model.ModuleRequest) (*model.Module, error) {
	if _, err := s.authorize(ctx, actor, courseID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, model.Validationf("title is required")
	}

	module := &model.Module{CourseID: courseID, Title: strings.TrimSpace(req.Title), Position: req.Position}
	if err := s.repo.CreateModule(ctx, module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *courseService) UpdateModule(ctx context.Context, actor model.Actor, courseID, moduleID int64, req *model.ModuleRequest) (*model.Module, error) {
	if _, err := s.authorize(ctx, actor, courseID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, model.Validationf("title is required")
	}

	module, err := s.repo.GetModule(ctx, courseID, moduleID)
	if err != nil {
		return nil, err
	}
	module.Title = strings.TrimSpace(req.Title)
	module.Position = req.Position
	if err := s.repo.UpdateModule(ctx, module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *courseService) DeleteModule(ctx context.Context, actor model.Actor, courseID, moduleID int64) error {
	if _, err := s.authorize(ctx, actor, courseID); err != nil {
		return err
	}
	return s.repo.SoftDeleteModule(ctx, courseID, moduleID)
}

func (s *courseService) CreateLesson(ctx context.Context, actor model.Actor, courseID int64, req *model.LessonRequest) (*model.Lesson, error) {
	if _, err := s.authorize(ctx, actor, courseID); err != nil {
		return nil, err
	}
	if err := s.checkLesson(ctx, courseID, req); err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		CourseID: courseID,
		ModuleID: req.ModuleID,
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		VideoURL: req.VideoURL,
		Position: req.Position,
	}
	if err := s.repo.CreateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *courseService) UpdateLesson(ctx context.Context, actor model.Actor, courseID, lessonID int64, req *model.LessonRequest) (*model.Lesson, error) {
	if _, err := s.authorize(ctx, actor, courseID); err != nil {
		return nil, err
	}
	if err := s.checkLesson(ctx, courseID, req); err != nil {
		return nil, err
	}

	lesson, err := s.repo.GetLesson(ctx, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	lesson.ModuleID = req.ModuleID
	lesson.Title = strings.TrimSpace(req.Title)
	lesson.Content = req.Content
	lesson.VideoURL = req.VideoURL
	lesson.Position = req.Position
	if err := s.repo.UpdateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *courseService) DeleteLesson(ctx context.Context, actor model.Actor, courseID, lessonID int64) error {
	if _, err := s.authorize(ctx, actor, courseID); err != nil {
		return err
	}
	return s.repo.SoftDeleteLesson(ctx, courseID, lessonID)
}

// checkLesson validates the payload and that its module belongs to the course.
func (s *courseService) checkLesson(ctx context.Context, courseID int64, req *model.LessonRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return model.Validationf("title is required")
	}
	if req.ModuleID != nil {
		if _, err := s.repo.GetModule(ctx, courseID, *req.ModuleID); err != nil {
			return err
		}
	}
	return nil
}
