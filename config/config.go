package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	ProviderGoogleAI = "googleai"
	ProviderOllama   = "ollama"

	RasterizerMuPDF   = "mupdf"
	RasterizerPoppler = "poppler"

	// devAPIKey is only ever used when APP_ENV=development and GEMINI_API_KEY is unset.
	devAPIKey = "local-development-key"
)

type Config struct {
	AppEnv   string
	AppPort  int
	LogLevel string

	LLMProvider  string
	LLMModel     string
	GeminiAPIKey string
	OllamaURL    string
	// UsingDevKey reports that GeminiAPIKey is the local development fallback.
	UsingDevKey bool

	TessdataPrefix string
	OCRLanguages   []string

	Rasterizer  string
	PopplerPath string
	RasterDPI   int

	// MaxPages caps the pages read from a PDF. Zero means no cap.
	MaxPages      int
	MaxUploadSize int64

	PromptsFile string
}

// Load reads the process configuration once. A .env file in the working
// directory is honored when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARNING: failed to load .env file: %v", err)
	}

	appPort, err := getInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	rasterDPI, err := getInt("RASTER_DPI", 200)
	if err != nil {
		return nil, err
	}
	maxPages, err := getInt("MAX_PAGES", 0)
	if err != nil {
		return nil, err
	}
	maxFileSizeMB, err := getInt("MAX_FILE_SIZE_MB", 50)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppEnv:         strings.ToLower(getEnv("APP_ENV", EnvProduction)),
		AppPort:        appPort,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LLMProvider:    strings.ToLower(getEnv("LLM_PROVIDER", ProviderGoogleAI)),
		LLMModel:       getEnv("LLM_MODEL", "gemini-2.5-flash-lite"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		OllamaURL:      getEnv("OLLAMA_URL", "http://localhost:11434"),
		TessdataPrefix: os.Getenv("TESSDATA_PREFIX"),
		OCRLanguages:   splitList(getEnv("OCR_LANGUAGES", "eng")),
		Rasterizer:     strings.ToLower(getEnv("RASTERIZER", RasterizerMuPDF)),
		PopplerPath:    os.Getenv("POPPLER_PATH"),
		RasterDPI:      rasterDPI,
		MaxPages:       maxPages,
		MaxUploadSize:  int64(maxFileSizeMB) << 20,
		PromptsFile:    os.Getenv("PROMPTS_FILE"),
	}

	if cfg.GeminiAPIKey == "" && cfg.AppEnv == EnvDevelopment {
		cfg.GeminiAPIKey = devAPIKey
		cfg.UsingDevKey = true
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LLMProvider {
	case ProviderGoogleAI, ProviderOllama:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	switch c.Rasterizer {
	case RasterizerMuPDF, RasterizerPoppler:
	default:
		return fmt.Errorf("unknown RASTERIZER %q", c.Rasterizer)
	}
	if c.AppPort <= 0 || c.AppPort > 65535 {
		return fmt.Errorf("APP_PORT out of range: %d", c.AppPort)
	}
	if c.RasterDPI <= 0 {
		return fmt.Errorf("RASTER_DPI must be positive, got %d", c.RasterDPI)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("MAX_PAGES must not be negative, got %d", c.MaxPages)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE_MB must be positive")
	}
	return nil
}

// IsDevelopment reports whether the process runs with APP_ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, "+") {
		for _, p := range strings.Split(part, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
