package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Bootcamp represents a published bootcamp in the directory.
type Bootcamp struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Slug        string    `json:"slug" gorm:"size:255;index"`
	Description string    `json:"description" gorm:"size:500;not null"`
	Website     string    `json:"website,omitempty" gorm:"size:255"`
	Phone       string    `json:"phone,omitempty" gorm:"size:20"`
	Email       string    `json:"email,omitempty" gorm:"size:255"`
	Address     string    `json:"address,omitempty" gorm:"size:255"`
	Careers     []string  `json:"careers" gorm:"serializer:json"`

	Housing       bool `json:"housing" gorm:"default:false"`
	JobAssistance bool `json:"job_assistance" gorm:"default:false"`
	JobGuarantee  bool `json:"job_guarantee" gorm:"default:false"`

	// Derived fields, recomputed when courses and reviews change.
	AverageCost   decimal.Decimal `json:"average_cost" gorm:"type:decimal(12,2);default:0"`
	AverageRating float64         `json:"average_rating"`

	Photo  string `json:"photo,omitempty" gorm:"size:255"`
	UserID uint   `json:"user_id" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Courses []Course `json:"courses,omitempty" gorm:"foreignKey:BootcampID"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Bootcamp) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
