package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type StorageService interface {
	Save(data []byte, format Format, prefix string) (string, string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// Save writes data under a unique name and returns that name and its full
// path.
func (s *storageService) Save(data []byte, format Format, prefix string) (string, string, error) {
	if format != FormatPDF && format != FormatDOCX {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	uniqueFilename := fmt.Sprintf("%s_%s.%s", prefix, uuid.New().String(), format)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filepath.Base(filename))
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := s.GetFilePath(filename)
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
