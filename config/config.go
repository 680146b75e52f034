package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"plagcheck/internal/services/normalizer"
)

const defaultConfigPath = "./config/config_local.yaml"

type Config struct {
	Env         string          `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath string          `yaml:"storage_path" env:"STORAGE_PATH" env-default:"./data/batches"`
	HistoryPath string          `yaml:"history_path" env:"HISTORY_PATH" env-default:"./data/history.db"`
	OutputDir   string          `yaml:"output_dir" env:"OUTPUT_DIR" env-default:"./data/highlighted"`
	Matcher     MatcherConfig   `yaml:"matcher"`
	Batch       BatchConfig     `yaml:"batch"`
	OCR         OCRConfig       `yaml:"ocr"`
	Highlight   HighlightConfig `yaml:"highlight"`
}

// Dictionary optionally names a file of extra indonesian root words, one
// per line.
type MatcherConfig struct {
	K          int    `yaml:"k" env:"MATCHER_K" env-default:"5"`
	Language   string `yaml:"language" env:"MATCHER_LANGUAGE" env-default:"indonesian"`
	Dictionary string `yaml:"dictionary" env:"MATCHER_DICTIONARY"`
}

type BatchConfig struct {
	Threshold    float64 `yaml:"threshold" env-default:"50"`
	MinDocuments int     `yaml:"min_documents" env-default:"2"`
	MaxDocuments int     `yaml:"max_documents" env-default:"10"`
	Workers      int     `yaml:"workers" env:"BATCH_WORKERS" env-default:"4"`
}

type OCRConfig struct {
	Binary        string        `yaml:"binary" env:"TESSERACT_BINARY" env-default:"tesseract"`
	Language      string        `yaml:"language" env-default:"ind+eng"`
	MinConfidence float64       `yaml:"min_confidence" env-default:"0"`
	Timeout       time.Duration `yaml:"timeout" env-default:"60s"`
	PDFBinary     string        `yaml:"pdf_binary" env:"PDFTOPPM_BINARY" env-default:"pdftoppm"`
	DPI           int           `yaml:"dpi" env-default:"200"`
}

type HighlightConfig struct {
	Color       string `yaml:"color" env-default:"#ff0000"`
	StrokeWidth int    `yaml:"stroke_width" env-default:"3"`
}

// MustLoad reads the config path from the -config flag, CONFIG_PATH or the
// default location and panics on any error.
func MustLoad() *Config {
	configPathFlag := flag.String("config", "", "Path to the config file")
	flag.Parse()

	cfg, err := Load(ResolvePath(*configPathFlag))
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("error loading config file: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ResolvePath returns the config path.
// Priority: flag > env > default.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if res := os.Getenv("CONFIG_PATH"); res != "" {
		return res
	}
	return defaultConfigPath
}

func validateConfig(cfg *Config) error {
	var errs []error

	if cfg.Matcher.K <= 0 {
		errs = append(errs, fmt.Errorf("matcher.k must be positive, got %d", cfg.Matcher.K))
	}
	if _, err := normalizer.Profile(cfg.Matcher.Language); err != nil {
		errs = append(errs, fmt.Errorf("matcher.language: %w: %q", err, cfg.Matcher.Language))
	}
	if cfg.Batch.MinDocuments < 2 {
		errs = append(errs, fmt.Errorf("batch.min_documents must be at least 2, got %d", cfg.Batch.MinDocuments))
	}
	if cfg.Batch.MaxDocuments < cfg.Batch.MinDocuments {
		errs = append(errs, fmt.Errorf("batch.max_documents (%d) is below batch.min_documents (%d)",
			cfg.Batch.MaxDocuments, cfg.Batch.MinDocuments))
	}
	if cfg.Batch.Workers <= 0 {
		errs = append(errs, fmt.Errorf("batch.workers must be positive, got %d", cfg.Batch.Workers))
	}
	if cfg.OCR.DPI <= 0 {
		errs = append(errs, fmt.Errorf("ocr.dpi must be positive, got %d", cfg.OCR.DPI))
	}
	if cfg.Highlight.StrokeWidth <= 0 {
		errs = append(errs, fmt.Errorf("highlight.stroke_width must be positive, got %d", cfg.Highlight.StrokeWidth))
	}

	return errors.Join(errs...)
}
