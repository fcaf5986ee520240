package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/interview-screener/internal/config"
	"alfredoptarigan/interview-screener/internal/handlers"
	"alfredoptarigan/interview-screener/internal/logger"
	"alfredoptarigan/interview-screener/internal/repositories"
	"alfredoptarigan/interview-screener/internal/services"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zlog.Info("✅ Config loaded successfully", zap.String("env", cfg.Server.Env))

	db, err := config.InitDatabase(cfg, zlog)
	if err != nil {
		zlog.Fatal("❌ Failed to initialize database", zap.Error(err))
	}

	docRepo := repositories.NewDocumentRepository(db)
	candidateRepo := repositories.NewCandidateRepository(db)
	zlog.Info("✅ Repositories initialized successfully")

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		zlog.Fatal("❌ Failed to create upload directory", zap.Error(err))
	}
	decoder := services.NewDocumentDecoder()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var geminiService services.GeminiService
	if cfg.Gemini.Enabled() {
		geminiService, err = services.NewGeminiService(ctx, services.GeminiOptions{
			APIKey:       cfg.Gemini.APIKey,
			Model:        cfg.Gemini.Model,
			EmbedModel:   cfg.Gemini.EmbedModel,
			RetryBackoff: cfg.Worker.RetryInitialDelay,
		}, zlog)
		if err != nil {
			zlog.Fatal("❌ Failed to initialize Gemini AI", zap.Error(err))
		}
		zlog.Info("✅ Gemini AI initialized successfully", zap.String("model", cfg.Gemini.Model))
	} else {
		zlog.Warn("⚠️  GEMINI_API_KEY not set, serving fallback questions and disabling resume search")
	}

	var (
		resumeIndex services.ResumeIndex
		worker      services.Worker
	)
	if geminiService != nil && cfg.Qdrant.Enabled() {
		qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, zlog)
		if err != nil {
			zlog.Fatal("❌ Failed to initialize Qdrant", zap.Error(err))
		}
		if err := qdrantService.InitCollection(ctx); err != nil {
			zlog.Fatal("❌ Failed to initialize Qdrant collection", zap.Error(err))
		}
		zlog.Info("✅ Qdrant initialized successfully")

		resumeIndex = services.NewResumeIndex(geminiService, qdrantService, zlog)
		indexer := services.NewIndexerService(docRepo, resumeIndex, zlog)
		worker = services.NewWorker(docRepo, indexer, cfg.Worker.Concurrency, cfg.Worker.PollInterval, cfg.Worker.StaleAfter, zlog)
		worker.Start(ctx)
	} else {
		zlog.Warn("⚠️  Resume index disabled, uploads will not be indexed")
	}

	var generator services.TextGenerator
	if geminiService != nil {
		generator = services.WithRetries(geminiService, cfg.Worker.RetryMaxAttempts)
	}
	questionService := services.NewQuestionService(generator, cfg.Interview.QuestionTimeout, zlog)
	interviewService := services.NewInterviewService(candidateRepo, zlog)
	zlog.Info("✅ Services initialized successfully")

	routes := handlers.Routes{
		Resume:    handlers.NewResumeHandler(docRepo, storageService, decoder, worker, resumeIndex, cfg.Storage.MaxFileSize, zlog),
		Question:  handlers.NewQuestionHandler(questionService),
		Interview: handlers.NewInterviewHandler(interviewService, zlog),
		Candidate: handlers.NewCandidateHandler(candidateRepo, docRepo, resumeIndex, zlog),
	}
	zlog.Info("✅ Handlers initialized")

	app := fiber.New(fiber.Config{
		AppName:      "Interview Screener API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		// headroom for the multipart envelope so oversized files reach the
		// handler's own size check
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":       "healthy",
			"time":         time.Now(),
			"gemini":       geminiService != nil,
			"resume_index": resumeIndex != nil,
		})
	})

	routes.Mount(api)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Interview Screener API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/resume-upload",
				"GET /api/v1/resumes/:id",
				"DELETE /api/v1/resumes/:id",
				"GET /api/v1/questions",
				"GET /api/v1/generate-questions",
				"POST /api/v1/submit-answers",
				"GET /api/v1/candidates",
				"GET /api/v1/candidates/search?q=",
				"GET /api/v1/candidates/:id",
				"DELETE /api/v1/candidates/:id",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("🛑 Shutting down server...")
		if worker != nil {
			worker.Stop()
		}
		cancel()
		if err := app.Shutdown(); err != nil {
			zlog.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("❌ Failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
