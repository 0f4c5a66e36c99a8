package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "docanalyzer/docs"
	"docanalyzer/internal/config"
	"docanalyzer/internal/extraction"
	"docanalyzer/internal/handler"
	"docanalyzer/internal/llm"
	"docanalyzer/internal/llm/claude"
	"docanalyzer/internal/llm/gemini"
	"docanalyzer/internal/llm/openai"
	"docanalyzer/internal/logger"
	"docanalyzer/internal/ocr"
	"docanalyzer/internal/ocr/tesseract"
	"docanalyzer/internal/ocr/textract"
	"docanalyzer/internal/pipeline"
	"docanalyzer/internal/port"
	"docanalyzer/internal/repository/cache"
	"docanalyzer/internal/repository/postgres"
	"docanalyzer/internal/router"
	"docanalyzer/internal/service"
	miniostorage "docanalyzer/internal/storage/minio"
	s3storage "docanalyzer/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	checks := map[string]handler.ReadinessCheck{"database": postgres.Pinger(db)}

	// Initialize repositories
	docRepo := postgres.NewDocumentRepo(db)
	if cfg.Redis.Enabled {
		rdb := cache.NewClient(&cfg.Redis)
		defer func() { _ = rdb.Close() }()
		checks["redis"] = cache.Pinger(rdb)
		docRepo = cache.NewDocumentRepo(docRepo, rdb, cfg.Redis.TTL, zl)
		zl.Info("document cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// Initialize image storage
	images, err := newImageStore(ctx, &cfg.Storage, zl)
	if err != nil {
		return err
	}

	// Initialize the extraction pipeline
	recognizer, err := newTextRecognizer(ctx, &cfg.OCR, zl)
	if err != nil {
		return err
	}
	model := newLanguageModel(&cfg.LLM, zl)

	textExtractor := ocr.NewExtractor(recognizer, cfg.OCR.Timeout(), zl)
	fieldExtractor := extraction.NewExtractor(model, extraction.NewFallback(), cfg.LLM.Timeout(), zl)
	analyzer := pipeline.NewAnalyzer(textExtractor, fieldExtractor, zl)

	// Initialize services
	documentSvc := service.NewDocumentService(docRepo, analyzer, images, cfg.Storage, cfg.Upload, zl)

	// Initialize handlers
	documentH := handler.NewDocumentHandler(documentSvc)
	healthH := handler.NewHealthHandler(checks)

	// Setup router
	r := router.Setup(zl, cfg.CORS.AllowedOrigins, documentH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zl.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// newImageStore returns nil when uploads should not be kept.
func newImageStore(ctx context.Context, cfg *config.StorageConfig, zl *zap.Logger) (port.ImageStore, error) {
	switch cfg.Provider {
	case "s3":
		client, err := s3storage.NewClient(ctx, &cfg.S3, cfg.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		zl.Info("image storage: s3", zap.String("bucket", cfg.Bucket))
		return client, nil
	case "minio":
		client, err := miniostorage.NewClient(&cfg.Minio, cfg.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
		}
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare MinIO bucket: %w", err)
		}
		zl.Info("image storage: minio", zap.String("bucket", cfg.Bucket))
		return client, nil
	case "", "none":
		zl.Warn("image storage disabled, uploads are analyzed but not kept")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}

func newTextRecognizer(ctx context.Context, cfg *config.OCRConfig, zl *zap.Logger) (port.TextRecognizer, error) {
	switch cfg.Provider {
	case "tesseract":
		return tesseract.NewRecognizer(cfg, zl), nil
	case "textract":
		rec, err := textract.NewRecognizer(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Textract client: %w", err)
		}
		return rec, nil
	default:
		return nil, fmt.Errorf("unknown ocr provider: %s", cfg.Provider)
	}
}

// newLanguageModel returns nil when no provider is usable, in which case
// every document goes through the rule-based extractor.
func newLanguageModel(cfg *config.LLMConfig, zl *zap.Logger) port.LanguageModel {
	llm.RegisterProvider("openai", openai.Factory)
	llm.RegisterProvider("gemini", gemini.Factory)
	llm.RegisterProvider("claude", claude.Factory)

	model, err := llm.New(cfg)
	if err != nil {
		zl.Warn("language model unavailable, using rule-based extraction",
			zap.String("provider", cfg.Provider), zap.Error(err))
		return nil
	}
	zl.Info("language model configured", zap.String("provider", cfg.Provider))
	return llm.NewCircuitBreaker(model, cfg.Provider, zl)
}
