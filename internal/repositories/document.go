package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/interview-screener/internal/models"
)

var ErrDocumentNotFound = errors.New("document not found")

type DocumentRepository interface {
	Create(document *models.Document) error
	FindByID(id uuid.UUID) (*models.Document, error)
	FindByIDs(ids []uuid.UUID) ([]models.Document, error)
	UpdateIndexStatus(id uuid.UUID, status models.IndexStatus) error
	UpdateIndexError(id uuid.UUID, errorMsg string) error
	FindPendingIndex(limit int) ([]models.Document, error)
	RequeueStale(cutoff time.Time) (int64, error)
	Delete(id uuid.UUID) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create implements DocumentRepository.
func (d *documentRepository) Create(document *models.Document) error {
	if err := d.db.Create(document).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// FindByID implements DocumentRepository.
func (d *documentRepository) FindByID(id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := d.db.Where("id = ?", id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}

		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return &doc, nil
}

// FindByIDs implements DocumentRepository.
func (d *documentRepository) FindByIDs(ids []uuid.UUID) ([]models.Document, error) {
	var docs []models.Document
	if len(ids) == 0 {
		return docs, nil
	}

	if err := d.db.Where("id IN ?", ids).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}

	return docs, nil
}

func (d *documentRepository) UpdateIndexStatus(id uuid.UUID, status models.IndexStatus) error {
	updates := map[string]interface{}{
		"index_status": status,
		"updated_at":   time.Now(),
	}
	if status == models.IndexIndexed {
		updates["index_error"] = nil
	}

	result := d.db.Model(&models.Document{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update index status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}

	return nil
}

func (d *documentRepository) UpdateIndexError(id uuid.UUID, errorMsg string) error {
	result := d.db.Model(&models.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"index_status": models.IndexFailed,
			"index_error":  errorMsg,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update index error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}

	return nil
}

func (d *documentRepository) FindPendingIndex(limit int) ([]models.Document, error) {
	var docs []models.Document
	err := d.db.
		Where("index_status = ?", models.IndexQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&docs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending documents: %w", err)
	}

	return docs, nil
}

// RequeueStale puts documents stuck in processing since before cutoff back
// into the queue, so work interrupted by a crash is retried.
func (d *documentRepository) RequeueStale(cutoff time.Time) (int64, error) {
	result := d.db.Model(&models.Document{}).
		Where("index_status = ? AND updated_at < ?", models.IndexProcessing, cutoff).
		Updates(map[string]interface{}{
			"index_status": models.IndexQueued,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to requeue stale documents: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (d *documentRepository) Delete(id uuid.UUID) error {
	result := d.db.Where("id = ?", id).Delete(&models.Document{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete document: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}

	return nil
}
