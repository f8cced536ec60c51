package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"pdftutor/api"
	"pdftutor/config"
	"pdftutor/file"
	"pdftutor/pkg/llm"
	"pdftutor/pkg/ocr"
	"pdftutor/pkg/raster"
	processor "pdftutor/process"
	"pdftutor/tutor"

	"go.uber.org/zap"
)

func main() {
	// =========
	// Config
	// =========
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// =========
	// Logging
	// =========
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	if cfg.UsingDevKey {
		logger.Warn("GEMINI_API_KEY is not set, using the local development key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// =========
	// OCR
	// =========
	tesseract := ocr.NewTesseract(ocr.Config{
		TessdataPrefix: cfg.TessdataPrefix,
		Languages:      cfg.OCRLanguages,
	})
	if err := tesseract.Check(); err != nil {
		logger.Warn("OCR is not available, scanned documents will fail", zap.Error(err))
	}

	// =========
	// Rasterizer
	// =========
	var rasterizer file.Rasterizer
	switch cfg.Rasterizer {
	case config.RasterizerPoppler:
		poppler := raster.NewPoppler(cfg.PopplerPath, cfg.RasterDPI, logger)
		if _, err := poppler.Binary(); err != nil {
			logger.Warn("pdftoppm not found, scanned PDFs will fail", zap.Error(err))
		}
		rasterizer = poppler
	default:
		rasterizer = raster.NewMuPDF(cfg.RasterDPI, logger)
	}

	// =========
	// Extraction
	// =========
	native := processor.NewClient(processor.NewLedongthucExtractor(), cfg.MaxPages)
	extractor := file.NewCore(
		file.NewPDFExtractor(native, rasterizer, tesseract, cfg.MaxPages, logger),
		file.NewImageExtractor(tesseract, logger),
		logger,
	)

	// =========
	// LLM
	// =========
	model, err := llm.New(ctx, llm.Config{
		Provider:  cfg.LLMProvider,
		Model:     cfg.LLMModel,
		APIKey:    cfg.GeminiAPIKey,
		OllamaURL: cfg.OllamaURL,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	templates, err := tutor.LoadTemplates(cfg.PromptsFile)
	if err != nil {
		logger.Fatal("Failed to load prompt templates", zap.String("path", cfg.PromptsFile), zap.Error(err))
	}
	teacher := tutor.NewBuilder(model, templates, logger)

	// =========
	// HTTP
	// =========
	server, err := api.NewServer(extractor, teacher, logger, ":"+strconv.Itoa(cfg.AppPort), cfg.MaxUploadSize)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	logger.Info("PDF tutor ready",
		zap.String("env", cfg.AppEnv),
		zap.String("model", model.Name()),
		zap.String("rasterizer", cfg.Rasterizer),
		zap.String("ocr", tesseract.Name()),
		zap.Strings("ocr_languages", cfg.OCRLanguages),
		zap.Int("max_pages", cfg.MaxPages))

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	zcfg.Level = level

	return zcfg.Build()
}
