// Command ingest_resumes loads a directory of PDF and DOCX résumés into the
// documents table, optionally indexing each one for semantic search.
//
//	go run ./scripts/ingest_resumes.go --dir ./resumes --index
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/interview-screener/internal/config"
	"alfredoptarigan/interview-screener/internal/logger"
	"alfredoptarigan/interview-screener/internal/models"
	"alfredoptarigan/interview-screener/internal/repositories"
	"alfredoptarigan/interview-screener/internal/resume"
	"alfredoptarigan/interview-screener/internal/services"
)

var (
	resumeDir   string
	indexResume bool

	colorOK   = color.New(color.FgGreen, color.Bold)
	colorFail = color.New(color.FgRed, color.Bold)
	colorSkip = color.New(color.FgYellow)
)

var rootCmd = &cobra.Command{
	Use:           "ingest_resumes",
	Short:         "Load a directory of PDF/DOCX résumés into the screener database",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&resumeDir, "dir", "./resumes", "directory to scan for résumés")
	rootCmd.Flags().BoolVar(&indexResume, "index", false, "embed and index each résumé for semantic search")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		colorFail.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := config.InitDatabase(cfg, zlog)
	if err != nil {
		return err
	}

	storage := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storage.EnsureUploadDir(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	docRepo := repositories.NewDocumentRepository(db)
	ing := &ingester{
		docRepo:     docRepo,
		storage:     storage,
		decoder:     services.NewDocumentDecoder(),
		maxFileSize: cfg.Storage.MaxFileSize,
		out:         cmd.OutOrStdout(),
		log:         zlog,
	}

	if indexResume {
		indexer, err := newIndexer(ctx, cfg, docRepo, zlog)
		if err != nil {
			return err
		}
		ing.indexer = indexer
	}

	report, err := ing.ingestDir(ctx, resumeDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(ing.out, "\n📊 %d ingested, %d failed, %d skipped\n", report.ok, report.failed, report.skipped)
	if report.failed > 0 {
		return fmt.Errorf("%d résumé(s) failed to ingest", report.failed)
	}
	return nil
}

func newIndexer(ctx context.Context, cfg *config.Config, docRepo repositories.DocumentRepository, log *zap.Logger) (services.IndexerService, error) {
	if !cfg.Gemini.Enabled() || !cfg.Qdrant.Enabled() {
		return nil, errors.New("--index needs GEMINI_API_KEY and QDRANT_URL")
	}

	gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:       cfg.Gemini.APIKey,
		Model:        cfg.Gemini.Model,
		EmbedModel:   cfg.Gemini.EmbedModel,
		RetryBackoff: cfg.Worker.RetryInitialDelay,
	}, log)
	if err != nil {
		return nil, err
	}

	qdrant, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
	if err != nil {
		return nil, err
	}
	if err := qdrant.InitCollection(ctx); err != nil {
		return nil, err
	}

	return services.NewIndexerService(docRepo, services.NewResumeIndex(gemini, qdrant, log), log), nil
}

type ingestReport struct {
	ok      int
	failed  int
	skipped int
}

type ingester struct {
	docRepo     repositories.DocumentRepository
	storage     services.StorageService
	decoder     services.DocumentDecoder
	indexer     services.IndexerService
	maxFileSize int64
	out         io.Writer
	log         *zap.Logger
}

func (i *ingester) ingestDir(ctx context.Context, dir string) (ingestReport, error) {
	var report ingestReport

	info, err := os.Stat(dir)
	if err != nil {
		return report, fmt.Errorf("failed to open résumé directory: %w", err)
	}
	if !info.IsDir() {
		return report, fmt.Errorf("%s is not a directory", dir)
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		if _, err := services.FormatFromFilename(path); err != nil {
			colorSkip.Fprintf(i.out, "⏭️  %s (not a PDF or DOCX)\n", path)
			report.skipped++
			return nil
		}

		doc, err := i.ingestFile(ctx, path)
		if err != nil {
			colorFail.Fprintf(i.out, "❌ %s: %v\n", path, err)
			i.log.Error("Failed to ingest resume", zap.String("path", path), zap.Error(err))
			report.failed++
			return nil
		}

		colorOK.Fprintf(i.out, "✅ %s", path)
		fmt.Fprintf(i.out, " name=%s email=%s phone=%s index=%s\n",
			display(doc.ParsedName), display(doc.ParsedEmail), display(doc.ParsedPhone), doc.IndexStatus)
		report.ok++
		return nil
	})

	return report, err
}

func (i *ingester) ingestFile(ctx context.Context, path string) (*models.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > i.maxFileSize {
		return nil, fmt.Errorf("file is larger than %d bytes", i.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	format, err := services.DetectFormat(path, data)
	if err != nil {
		return nil, err
	}

	text, err := i.decoder.Decode(data, format)
	if err != nil {
		return nil, err
	}
	fields := resume.Extract(text)

	storedName, storedPath, err := i.storage.Save(data, format, "resume")
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		Filename:         storedName,
		OriginalFileName: filepath.Base(path),
		Format:           string(format),
		FilePath:         storedPath,
		Text:             text,
		ParsedName:       fields.Name,
		ParsedEmail:      fields.Email,
		ParsedPhone:      fields.Phone,
		IndexStatus:      models.IndexSkipped,
	}
	if i.indexer != nil {
		doc.IndexStatus = models.IndexQueued
	}

	if err := i.docRepo.Create(doc); err != nil {
		_ = i.storage.DeleteFile(storedName)
		return nil, err
	}

	if i.indexer == nil {
		return doc, nil
	}

	if err := i.indexer.IndexDocument(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("stored as %s but indexing failed: %w", doc.ID, err)
	}
	doc.IndexStatus = models.IndexIndexed
	return doc, nil
}

func display(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return "-"
	}
	return *v
}
