package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"devcamp/internal/auth"
	"devcamp/internal/cache"
	"devcamp/internal/errors"
	"devcamp/internal/model"
	"devcamp/internal/repository"
	"devcamp/internal/storage"
)

const bootcampCacheTTL = 5 * time.Minute

// UpdateBootcampInput carries the mutable bootcamp fields; nil pointers are
// left untouched.
type UpdateBootcampInput struct {
	Name          *string
	Description   *string
	Website       *string
	Phone         *string
	Email         *string
	Address       *string
	Careers       *[]string
	Housing       *bool
	JobAssistance *bool
	JobGuarantee  *bool
}

// BootcampService handles bootcamp operations.
type BootcampService interface {
	List(ctx context.Context, page, limit int) ([]model.Bootcamp, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Bootcamp, error)
	Create(ctx context.Context, caller auth.Caller, bootcamp *model.Bootcamp) (*model.Bootcamp, error)
	Update(ctx context.Context, caller auth.Caller, id uuid.UUID, input UpdateBootcampInput) (*model.Bootcamp, error)
	Delete(ctx context.Context, caller auth.Caller, id uuid.UUID) error
	UploadPhoto(ctx context.Context, caller auth.Caller, id uuid.UUID, fileName, contentType string, size int64, r io.Reader) (string, error)
}

type bootcampService struct {
	repo   repository.BootcampRepository
	cache  *cache.Client
	photos *storage.PhotoStore
}

// NewBootcampService creates a new bootcamp service.
func NewBootcampService(repo repository.BootcampRepository, cache *cache.Client, photos *storage.PhotoStore) BootcampService {
	return &bootcampService{
		repo:   repo,
		cache:  cache,
		photos: photos,
	}
}

func (s *bootcampService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("bootcamp:%s", id.String())
}

// List returns a page of bootcamps and the total count.
func (s *bootcampService) List(ctx context.Context, page, limit int) ([]model.Bootcamp, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}
	return s.repo.List(ctx, (page-1)*limit, limit)
}

// Get retrieves a bootcamp by ID with caching.
func (s *bootcampService) Get(ctx context.Context, id uuid.UUID) (*model.Bootcamp, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Bootcamp
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	bootcamp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBootcampNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(bootcamp); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, bootcampCacheTTL)
	}
	return bootcamp, nil
}

// Create publishes a new bootcamp owned by the caller. A publisher may own
// at most one bootcamp; admins are exempt.
func (s *bootcampService) Create(ctx context.Context, caller auth.Caller, bootcamp *model.Bootcamp) (*model.Bootcamp, error) {
	if caller.Role != model.RoleAdmin {
		existing, err := s.repo.FindByUserID(ctx, caller.UserID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("check published bootcamp: %w", err)
		}
		if existing != nil {
			return nil, errors.ErrBootcampAlreadyPublished
		}
	}

	bootcamp.UserID = caller.UserID
	bootcamp.Slug = slugify(bootcamp.Name)
	if err := s.repo.Create(ctx, bootcamp); err != nil {
		return nil, fmt.Errorf("create bootcamp: %w", err)
	}
	return bootcamp, nil
}

// Update mutates a bootcamp after the ownership check.
func (s *bootcampService) Update(ctx context.Context, caller auth.Caller, id uuid.UUID, input UpdateBootcampInput) (*model.Bootcamp, error) {
	bootcamp, err := s.findForMutation(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		bootcamp.Name = *input.Name
		bootcamp.Slug = slugify(*input.Name)
	}
	if input.Description != nil {
		bootcamp.Description = *input.Description
	}
	if input.Website != nil {
		bootcamp.Website = *input.Website
	}
	if input.Phone != nil {
		bootcamp.Phone = *input.Phone
	}
	if input.Email != nil {
		bootcamp.Email = *input.Email
	}
	if input.Address != nil {
		bootcamp.Address = *input.Address
	}
	if input.Careers != nil {
		bootcamp.Careers = *input.Careers
	}
	if input.Housing != nil {
		bootcamp.Housing = *input.Housing
	}
	if input.JobAssistance != nil {
		bootcamp.JobAssistance = *input.JobAssistance
	}
	if input.JobGuarantee != nil {
		bootcamp.JobGuarantee = *input.JobGuarantee
	}

	if err := s.repo.Update(ctx, bootcamp); err != nil {
		return nil, fmt.Errorf("update bootcamp: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return bootcamp, nil
}

// Delete removes a bootcamp after the ownership check.
func (s *bootcampService) Delete(ctx context.Context, caller auth.Caller, id uuid.UUID) error {
	if _, err := s.findForMutation(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete bootcamp: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// UploadPhoto validates and stores a bootcamp photo, then records its name.
func (s *bootcampService) UploadPhoto(ctx context.Context, caller auth.Caller, id uuid.UUID, fileName, contentType string, size int64, r io.Reader) (string, error) {
	if _, err := s.findForMutation(ctx, caller, id); err != nil {
		return "", err
	}

	name, err := s.photos.Save(id, fileName, contentType, size, r)
	if err != nil {
		if err == storage.ErrNotAnImage || err == storage.ErrFileTooLarge {
			return "", fmt.Errorf("%w: %s", errors.ErrInvalidFile, err)
		}
		return "", fmt.Errorf("save photo: %w", err)
	}

	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"photo": name}); err != nil {
		return "", fmt.Errorf("record photo: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return name, nil
}

// findForMutation loads a bootcamp and applies the uniform
// not-found-then-forbidden sequence for mutating endpoints.
func (s *bootcampService) findForMutation(ctx context.Context, caller auth.Caller, id uuid.UUID) (*model.Bootcamp, error) {
	bootcamp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBootcampNotFound
		}
		return nil, err
	}
	if !caller.CanMutate(bootcamp.UserID) {
		return nil, errors.ErrForbidden
	}
	return bootcamp, nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return -1
	}, slug)
}
