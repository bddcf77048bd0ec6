package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"devcamp/internal/auth"
	"devcamp/internal/errors"
	"devcamp/internal/model"
	"devcamp/internal/repository"
)

// UpdateCourseInput carries the mutable course fields; nil pointers are left untouched.
type UpdateCourseInput struct {
	Title                *string
	Description          *string
	Weeks                *int
	Tuition              *decimal.Decimal
	MinimumSkill         *model.MinimumSkill
	ScholarshipAvailable *bool
}

// CourseService handles course operations.
type CourseService interface {
	List(ctx context.Context) ([]model.Course, error)
	ListByBootcamp(ctx context.Context, bootcampID uuid.UUID) ([]model.Course, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Course, error)
	Create(ctx context.Context, caller auth.Caller, bootcampID uuid.UUID, course *model.Course) (*model.Course, error)
	Update(ctx context.Context, caller auth.Caller, id uuid.UUID, input UpdateCourseInput) (*model.Course, error)
	Delete(ctx context.Context, caller auth.Caller, id uuid.UUID) error
}

type courseService struct {
	repo         repository.CourseRepository
	bootcampRepo repository.BootcampRepository
}

// NewCourseService creates a new course service.
func NewCourseService(repo repository.CourseRepository, bootcampRepo repository.BootcampRepository) CourseService {
	return &courseService{
		repo:         repo,
		bootcampRepo: bootcampRepo,
	}
}

func (s *courseService) List(ctx context.Context) ([]model.Course, error) {
	return s.repo.List(ctx)
}

func (s *courseService) ListByBootcamp(ctx context.Context, bootcampID uuid.UUID) ([]model.Course, error) {
	if _, err := s.bootcampRepo.FindByID(ctx, bootcampID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBootcampNotFound
		}
		return nil, err
	}
	return s.repo.ListByBootcampID(ctx, bootcampID)
}

func (s *courseService) Get(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// Create adds a course to a bootcamp. The caller must own the bootcamp or be
// an admin.
func (s *courseService) Create(ctx context.Context, caller auth.Caller, bootcampID uuid.UUID, course *model.Course) (*model.Course, error) {
	bootcamp, err := s.bootcampRepo.FindByID(ctx, bootcampID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBootcampNotFound
		}
		return nil, err
	}
	if !caller.CanMutate(bootcamp.UserID) {
		return nil, errors.ErrForbidden
	}

	course.BootcampID = bootcampID
	course.UserID = caller.UserID
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	if err := s.recomputeAverageCost(ctx, bootcampID); err != nil {
		return nil, err
	}
	return course, nil
}

// Update mutates a course after the ownership check.
func (s *courseService) Update(ctx context.Context, caller auth.Caller, id uuid.UUID, input UpdateCourseInput) (*model.Course, error) {
	course, err := s.findForMutation(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		course.Title = *input.Title
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.Weeks != nil {
		course.Weeks = *input.Weeks
	}
	if input.Tuition != nil {
		course.Tuition = *input.Tuition
	}
	if input.MinimumSkill != nil {
		course.MinimumSkill = *input.MinimumSkill
	}
	if input.ScholarshipAvailable != nil {
		course.ScholarshipAvailable = *input.ScholarshipAvailable
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}

	if err := s.recomputeAverageCost(ctx, course.BootcampID); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete removes a course after the ownership check.
func (s *courseService) Delete(ctx context.Context, caller auth.Caller, id uuid.UUID) error {
	course, err := s.findForMutation(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return s.recomputeAverageCost(ctx, course.BootcampID)
}

func (s *courseService) findForMutation(ctx context.Context, caller auth.Caller, id uuid.UUID) (*model.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCourseNotFound
		}
		return nil, err
	}
	if !caller.CanMutate(course.UserID) {
		return nil, errors.ErrForbidden
	}
	return course, nil
}

// recomputeAverageCost refreshes the owning bootcamp's average tuition.
func (s *courseService) recomputeAverageCost(ctx context.Context, bootcampID uuid.UUID) error {
	courses, err := s.repo.ListByBootcampID(ctx, bootcampID)
	if err != nil {
		return fmt.Errorf("list courses for average: %w", err)
	}

	avg := decimal.Zero
	if len(courses) > 0 {
		sum := decimal.Zero
		for _, course := range courses {
			sum = sum.Add(course.Tuition)
		}
		avg = sum.DivRound(decimal.NewFromInt(int64(len(courses))), 2)
	}

	if err := s.bootcampRepo.UpdateFields(ctx, bootcampID, map[string]interface{}{
		"average_cost": avg,
	}); err != nil {
		return fmt.Errorf("update average cost: %w", err)
	}
	return nil
}
