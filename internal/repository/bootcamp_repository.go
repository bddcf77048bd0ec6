package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"devcamp/internal/model"
)

// BootcampRepository defines bootcamp persistence operations.
type BootcampRepository interface {
	Create(ctx context.Context, bootcamp *model.Bootcamp) error
	Update(ctx context.Context, bootcamp *model.Bootcamp) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Bootcamp, error)
	FindByUserID(ctx context.Context, userID uint) (*model.Bootcamp, error)
	List(ctx context.Context, offset, limit int) ([]model.Bootcamp, int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type bootcampRepository struct {
	db *gorm.DB
}

// NewBootcampRepository creates a new bootcamp repository.
func NewBootcampRepository(db *gorm.DB) BootcampRepository {
	return &bootcampRepository{db: db}
}

func (r *bootcampRepository) Create(ctx context.Context, bootcamp *model.Bootcamp) error {
	return r.db.WithContext(ctx).Create(bootcamp).Error
}

func (r *bootcampRepository) Update(ctx context.Context, bootcamp *model.Bootcamp) error {
	return r.db.WithContext(ctx).Save(bootcamp).Error
}

func (r *bootcampRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Bootcamp, error) {
	var bootcamp model.Bootcamp
	if err := r.db.WithContext(ctx).Preload("Courses").
		Where("id = ?", id).First(&bootcamp).Error; err != nil {
		return nil, err
	}
	return &bootcamp, nil
}

// FindByUserID returns the bootcamp published by a user, if any.
func (r *bootcampRepository) FindByUserID(ctx context.Context, userID uint) (*model.Bootcamp, error) {
	var bootcamp model.Bootcamp
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&bootcamp).Error; err != nil {
		return nil, err
	}
	return &bootcamp, nil
}

func (r *bootcampRepository) List(ctx context.Context, offset, limit int) ([]model.Bootcamp, int64, error) {
	var bootcamps []model.Bootcamp
	var total int64

	if err := r.db.WithContext(ctx).Model(&model.Bootcamp{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.WithContext(ctx).Offset(offset).Limit(limit).
		Order("created_at DESC").Find(&bootcamps).Error; err != nil {
		return nil, 0, err
	}
	return bootcamps, total, nil
}

func (r *bootcampRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Bootcamp{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *bootcampRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Bootcamp{}).Error
}
