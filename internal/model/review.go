package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review represents a user review of a bootcamp. A user may review a
// given bootcamp at most once, enforced by the composite unique index.
type Review struct {
	ID     uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title  string    `json:"title" gorm:"size:100;not null"`
	Text   string    `json:"text" gorm:"size:1000;not null"`
	Rating int       `json:"rating" gorm:"not null"` // 1..10

	BootcampID uuid.UUID `json:"bootcamp_id" gorm:"type:char(36);not null;uniqueIndex:idx_review_bootcamp_user"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_review_bootcamp_user"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
