package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/interview-screener/internal/logger"
	"alfredoptarigan/interview-screener/internal/models"
	"alfredoptarigan/interview-screener/internal/repositories"
)

// IndexerService moves a queued document through the index pipeline and
// records the outcome on the document row.
type IndexerService interface {
	IndexDocument(ctx context.Context, docID uuid.UUID) error
}

type indexerService struct {
	docRepo repositories.DocumentRepository
	index   ResumeIndex
	log     *zap.Logger
}

func NewIndexerService(docRepo repositories.DocumentRepository, index ResumeIndex, log *zap.Logger) IndexerService {
	return &indexerService{
		docRepo: docRepo,
		index:   index,
		log:     logger.OrNop(log),
	}
}

// IndexDocument implements IndexerService. Documents that are no longer
// queued are left alone, so a job delivered twice is harmless.
func (s *indexerService) IndexDocument(ctx context.Context, docID uuid.UUID) error {
	doc, err := s.docRepo.FindByID(docID)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	if doc.IndexStatus != models.IndexQueued {
		s.log.Debug("Skipping document that is not queued",
			zap.String("doc_id", docID.String()),
			zap.String("status", string(doc.IndexStatus)))
		return nil
	}

	if err := s.docRepo.UpdateIndexStatus(docID, models.IndexProcessing); err != nil {
		return err
	}

	chunks, err := s.index.IndexDocument(ctx, docID.String(), doc.Text)
	if err != nil {
		if updateErr := s.docRepo.UpdateIndexError(docID, err.Error()); updateErr != nil {
			return errors.Join(err, updateErr)
		}
		return err
	}

	if err := s.docRepo.UpdateIndexStatus(docID, models.IndexIndexed); err != nil {
		return err
	}

	s.log.Info("✅ Resume indexed", zap.String("doc_id", docID.String()), zap.Int("chunks", chunks))
	return nil
}
