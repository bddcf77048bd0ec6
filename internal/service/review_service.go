package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"devcamp/internal/auth"
	"devcamp/internal/errors"
	"devcamp/internal/model"
	"devcamp/internal/repository"
)

// UpdateReviewInput carries the mutable review fields; nil pointers are left untouched.
type UpdateReviewInput struct {
	Title  *string
	Text   *string
	Rating *int
}

// ReviewService handles review operations.
type ReviewService interface {
	ListByBootcamp(ctx context.Context, bootcampID uuid.UUID) ([]model.Review, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Review, error)
	Create(ctx context.Context, caller auth.Caller, bootcampID uuid.UUID, review *model.Review) (*model.Review, error)
	Update(ctx context.Context, caller auth.Caller, id uuid.UUID, input UpdateReviewInput) (*model.Review, error)
	Delete(ctx context.Context, caller auth.Caller, id uuid.UUID) error
}

type reviewService struct {
	repo         repository.ReviewRepository
	bootcampRepo repository.BootcampRepository
}

// NewReviewService creates a new review service.
func NewReviewService(repo repository.ReviewRepository, bootcampRepo repository.BootcampRepository) ReviewService {
	return &reviewService{
		repo:         repo,
		bootcampRepo: bootcampRepo,
	}
}

func (s *reviewService) ListByBootcamp(ctx context.Context, bootcampID uuid.UUID) ([]model.Review, error) {
	if _, err := s.bootcampRepo.FindByID(ctx, bootcampID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBootcampNotFound
		}
		return nil, err
	}
	return s.repo.ListByBootcampID(ctx, bootcampID)
}

func (s *reviewService) Get(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// Create adds a review to a bootcamp. A user may review a bootcamp only once.
func (s *reviewService) Create(ctx context.Context, caller auth.Caller, bootcampID uuid.UUID, review *model.Review) (*model.Review, error) {
	if _, err := s.bootcampRepo.FindByID(ctx, bootcampID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBootcampNotFound
		}
		return nil, err
	}

	existing, err := s.repo.FindByBootcampAndUser(ctx, bootcampID, caller.UserID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, errors.ErrDuplicateReview
	}

	review.BootcampID = bootcampID
	review.UserID = caller.UserID
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.recomputeAverageRating(ctx, bootcampID); err != nil {
		return nil, err
	}
	return review, nil
}

// Update mutates a review after the ownership check.
func (s *reviewService) Update(ctx context.Context, caller auth.Caller, id uuid.UUID, input UpdateReviewInput) (*model.Review, error) {
	review, err := s.findForMutation(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		review.Title = *input.Title
	}
	if input.Text != nil {
		review.Text = *input.Text
	}
	if input.Rating != nil {
		review.Rating = *input.Rating
	}

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	if err := s.recomputeAverageRating(ctx, review.BootcampID); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review after the ownership check.
func (s *reviewService) Delete(ctx context.Context, caller auth.Caller, id uuid.UUID) error {
	review, err := s.findForMutation(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return s.recomputeAverageRating(ctx, review.BootcampID)
}

func (s *reviewService) findForMutation(ctx context.Context, caller auth.Caller, id uuid.UUID) (*model.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReviewNotFound
		}
		return nil, err
	}
	if !caller.CanMutate(review.UserID) {
		return nil, errors.ErrForbidden
	}
	return review, nil
}

// recomputeAverageRating refreshes the bootcamp's average review rating.
func (s *reviewService) recomputeAverageRating(ctx context.Context, bootcampID uuid.UUID) error {
	reviews, err := s.repo.ListByBootcampID(ctx, bootcampID)
	if err != nil {
		return fmt.Errorf("list reviews for average: %w", err)
	}

	var avg float64
	if len(reviews) > 0 {
		sum := 0
		for _, review := range reviews {
			sum += review.Rating
		}
		avg = float64(sum) / float64(len(reviews))
	}

	if err := s.bootcampRepo.UpdateFields(ctx, bootcampID, map[string]interface{}{
		"average_rating": avg,
	}); err != nil {
		return fmt.Errorf("update average rating: %w", err)
	}
	return nil
}
