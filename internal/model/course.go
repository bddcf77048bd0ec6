package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MinimumSkill is the entry skill level required by a course.
type MinimumSkill string

const (
	SkillBeginner     MinimumSkill = "beginner"
	SkillIntermediate MinimumSkill = "intermediate"
	SkillAdvanced     MinimumSkill = "advanced"
)

// Valid reports whether s is one of the known skill levels.
func (s MinimumSkill) Valid() bool {
	switch s {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
		return true
	}
	return false
}

// Course represents a course offered by a bootcamp.
type Course struct {
	ID                   uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Title                string          `json:"title" gorm:"size:255;not null"`
	Description          string          `json:"description" gorm:"size:500;not null"`
	Weeks                int             `json:"weeks" gorm:"not null"`
	Tuition              decimal.Decimal `json:"tuition" gorm:"type:decimal(12,2);not null"`
	MinimumSkill         MinimumSkill    `json:"minimum_skill" gorm:"size:20;not null"`
	ScholarshipAvailable bool            `json:"scholarship_available" gorm:"default:false"`

	BootcampID uuid.UUID `json:"bootcamp_id" gorm:"type:char(36);not null;index"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
