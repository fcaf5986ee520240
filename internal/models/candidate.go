package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/interview-screener/internal/interview"
)

// Candidate is a finished interview: contact details, the weighted score, its
// narrative summary and the raw answers it was computed from.
type Candidate struct {
	ID        uuid.UUID                `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string                   `gorm:"type:varchar(255)" json:"name"`
	Email     string                   `gorm:"type:varchar(255)" json:"email"`
	Phone     string                   `gorm:"type:varchar(50)" json:"phone"`
	Resume    string                   `gorm:"type:text" json:"resume"`
	Score     int                      `gorm:"not null;default:0;index" json:"score"`
	Attended  int                      `gorm:"not null;default:0" json:"attended"`
	Total     int                      `gorm:"not null;default:0" json:"total"`
	Summary   string                   `gorm:"type:text" json:"summary"`
	Answers   []interview.AnswerRecord `gorm:"type:text;serializer:json" json:"answers"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

func (Candidate) TableName() string {
	return "candidates"
}

func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// AfterFind keeps Answers a list even when the stored column is empty.
func (c *Candidate) AfterFind(tx *gorm.DB) error {
	if c.Answers == nil {
		c.Answers = []interview.AnswerRecord{}
	}
	return nil
}
