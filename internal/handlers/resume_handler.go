package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/interview-screener/internal/logger"
	"alfredoptarigan/interview-screener/internal/models"
	"alfredoptarigan/interview-screener/internal/repositories"
	"alfredoptarigan/interview-screener/internal/resume"
	"alfredoptarigan/interview-screener/internal/services"
)

type ResumeHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	decoder        services.DocumentDecoder
	worker         services.Worker
	index          services.ResumeIndex
	maxFileSize    int64
	log            *zap.Logger
}

// NewResumeHandler wires the résumé endpoints. A nil worker disables résumé
// indexing and a nil index leaves vectors alone on delete.
func NewResumeHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	decoder services.DocumentDecoder,
	worker services.Worker,
	index services.ResumeIndex,
	maxFileSize int64,
	log *zap.Logger,
) *ResumeHandler {
	return &ResumeHandler{
		docRepo:        docRepo,
		storageService: storageService,
		decoder:        decoder,
		worker:         worker,
		index:          index,
		maxFileSize:    maxFileSize,
		log:            logger.OrNop(log),
	}
}

func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	if fileHeader.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Maximum size is %dMB.", h.maxFileSize/(1024*1024)),
		})
	}

	data, err := readUpload(fileHeader, h.maxFileSize)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("File too large. Maximum size is %dMB.", h.maxFileSize/(1024*1024)),
			})
		}
		h.log.Error("Failed to read upload", zap.String("filename", fileHeader.Filename), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}

	originalName := filepath.Base(fileHeader.Filename)
	format, err := services.DetectFormat(originalName, data)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported file type. Only PDF and DOCX allowed.",
		})
	}

	text, err := h.decoder.Decode(data, format)
	if err != nil {
		h.log.Error("Failed to parse resume", zap.String("filename", originalName), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to parse resume. Please try another file.",
		})
	}

	fields := resume.Extract(text)

	storedName, filePath, err := h.storageService.Save(data, format, "resume")
	if err != nil {
		h.log.Error("Failed to store resume", zap.String("filename", originalName), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save resume. Please try again.",
		})
	}

	doc := &models.Document{
		Filename:         storedName,
		OriginalFileName: originalName,
		Format:           string(format),
		FilePath:         filePath,
		Text:             text,
		ParsedName:       fields.Name,
		ParsedEmail:      fields.Email,
		ParsedPhone:      fields.Phone,
		IndexStatus:      models.IndexSkipped,
	}
	if h.worker != nil {
		doc.IndexStatus = models.IndexQueued
	}

	if err := h.docRepo.Create(doc); err != nil {
		h.log.Error("Failed to record resume", zap.String("filename", originalName), zap.Error(err))
		if delErr := h.storageService.DeleteFile(storedName); delErr != nil {
			h.log.Warn("Failed to clean up stored resume", zap.String("file", storedName), zap.Error(delErr))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save resume. Please try again.",
		})
	}

	if h.worker != nil {
		h.worker.EnqueueJob(doc.ID)
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		Filename:     originalName,
		ParsedFields: fields,
		DocumentID:   doc.ID.String(),
		IndexStatus:  string(doc.IndexStatus),
	})
}

func (h *ResumeHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid resume ID format",
		})
	}

	doc, err := h.docRepo.FindByID(id)
	if err != nil {
		return h.documentError(c, id, err)
	}

	return c.JSON(doc)
}

// HandleDelete removes a résumé everywhere it lives: its vectors, the stored
// file and the document row. The row goes last so a failed vector delete can
// be retried.
func (h *ResumeHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid resume ID format",
		})
	}

	doc, err := h.docRepo.FindByID(id)
	if err != nil {
		return h.documentError(c, id, err)
	}

	if doc.IndexStatus != models.IndexSkipped {
		if h.index == nil {
			h.log.Warn("Resume index disabled, leaving vectors in place", zap.String("doc_id", id.String()))
		} else if err := h.index.Remove(c.UserContext(), id.String()); err != nil {
			h.log.Error("Failed to remove resume vectors", zap.String("doc_id", id.String()), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to delete resume. Please try again.",
			})
		}
	}

	if doc.Filename != "" {
		if err := h.storageService.DeleteFile(doc.Filename); err != nil {
			h.log.Warn("Failed to delete stored resume", zap.String("file", doc.Filename), zap.Error(err))
		}
	}

	if err := h.docRepo.Delete(id); err != nil {
		return h.documentError(c, id, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ResumeHandler) documentError(c *fiber.Ctx, id uuid.UUID, err error) error {
	if errors.Is(err, repositories.ErrDocumentNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resume not found",
		})
	}

	h.log.Error("Resume lookup failed", zap.String("doc_id", id.String()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to load resume",
	})
}

var errUploadTooLarge = errors.New("upload exceeds size limit")

func readUpload(fileHeader *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errUploadTooLarge
	}
	return data, nil
}
