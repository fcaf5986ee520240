package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IndexStatus string

const (
	IndexSkipped    IndexStatus = "skipped"
	IndexQueued     IndexStatus = "queued"
	IndexProcessing IndexStatus = "processing"
	IndexIndexed    IndexStatus = "indexed"
	IndexFailed     IndexStatus = "failed"
)

// Document is an uploaded résumé together with the text decoded from it and
// the contact fields extracted from that text.
type Document struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Filename         string      `gorm:"type:text" json:"filename"`
	OriginalFileName string      `gorm:"type:text" json:"original_filename"`
	Format           string      `gorm:"type:text" json:"format"`
	FilePath         string      `gorm:"type:text" json:"file_path"`
	Text             string      `gorm:"type:text" json:"-"`
	ParsedName       *string     `gorm:"type:text" json:"parsed_name"`
	ParsedEmail      *string     `gorm:"type:text" json:"parsed_email"`
	ParsedPhone      *string     `gorm:"type:text" json:"parsed_phone"`
	IndexStatus      IndexStatus `gorm:"type:text;not null;default:'skipped'" json:"index_status"`
	IndexError       *string     `gorm:"type:text" json:"index_error,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

func (d *Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.IndexStatus == "" {
		d.IndexStatus = IndexSkipped
	}
	return nil
}
