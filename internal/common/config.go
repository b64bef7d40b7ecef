package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/condo-contacts/internal/unitkey"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	PDF      PDFConfig
	Oracle   OracleConfig
	Format   unitkey.FormattingOptions
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver           string // pgx or sqlite
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr       string
	GRPCHealthAddr string
	UploadDir      string
	MaxUploadMB    int64
}

// PDFConfig holds text extraction configuration
type PDFConfig struct {
	PdfToText         string
	PdfToTextFallback bool
	Timeout           time.Duration
}

// OracleConfig holds text-understanding service configuration
type OracleConfig struct {
	Provider        string // openai, anthropic, gemini or empty for none
	Model           string
	Temperature     float32
	Timeout         time.Duration
	MaxTokens       int
	ChunkChars      int
	Concurrency     int
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string
}

// Enabled reports whether an oracle provider is configured.
func (o OracleConfig) Enabled() bool {
	return o.Provider != "" && o.Provider != "none"
}

// APIKey returns the key of the selected provider.
func (o OracleConfig) APIKey() string {
	switch o.Provider {
	case "openai":
		return o.OpenAIAPIKey
	case "anthropic":
		return o.AnthropicAPIKey
	case "gemini":
		return o.GeminiAPIKey
	}
	return ""
}

// LoadConfig loads configuration from an optional .env file and the environment
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			Driver:           strings.ToLower(getEnv("DB_DRIVER", "pgx")),
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			HTTPAddr:       getEnv("HTTP_ADDR", ":3000"),
			GRPCHealthAddr: getEnv("GRPC_HEALTH_ADDR", ""),
			UploadDir:      getEnv("UPLOAD_DIR", os.TempDir()),
			MaxUploadMB:    int64(getEnvAsInt("MAX_UPLOAD_MB", 20)),
		},
		PDF: PDFConfig{
			PdfToText:         getEnv("PDFTOTEXT", "pdftotext"),
			PdfToTextFallback: getEnvAsBool("PDFTOTEXT_FALLBACK", true),
			Timeout:           getEnvAsDuration("PDF_TIMEOUT", 60*time.Second),
		},
		Oracle: OracleConfig{
			Provider:        strings.ToLower(getEnv("ORACLE_PROVIDER", "")),
			Model:           getEnv("ORACLE_MODEL", ""),
			Temperature:     getEnvAsFloat32("ORACLE_TEMPERATURE", 0.2),
			Timeout:         getEnvAsDuration("ORACLE_TIMEOUT", 90*time.Second),
			MaxTokens:       getEnvAsInt("ORACLE_MAX_TOKENS", 4096),
			ChunkChars:      getEnvAsInt("ORACLE_CHUNK_CHARS", 12000),
			Concurrency:     getEnvAsInt("ORACLE_CONCURRENCY", 4),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		},
		Format: loadFormatting(),
	}
}

// loadFormatting reads the unit label prefixes once; the result is passed explicitly afterwards.
func loadFormatting() unitkey.FormattingOptions {
	f := unitkey.DefaultFormatting()
	f.ApartmentPrefix = getEnv("APT_PREFIX", f.ApartmentPrefix)
	f.BlockPrefix = getEnv("BLOCO_PREFIX", f.BlockPrefix)
	f.HousePrefix = getEnv("UNIDADE_PREFIX", f.HousePrefix)
	f.PadHouse = getEnvAsInt("CASA_PAD", 0)
	f.PadApartment = getEnvAsInt("APT_PAD", 0)
	f.PadBlock = getEnvAsInt("BLOCO_PAD", 0)
	return f
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	switch c.Database.Driver {
	case "pgx", "postgres":
		if c.Database.DSN == "" {
			return NewAppError("CONFIG_ERROR", "DB_URL is required for DB_DRIVER=pgx", ErrInvalidInput)
		}
	case "sqlite":
	default:
		return NewAppError("CONFIG_ERROR", "DB_DRIVER must be pgx or sqlite", ErrInvalidInput)
	}
	if c.Oracle.Enabled() {
		switch c.Oracle.Provider {
		case "openai", "anthropic", "gemini":
		default:
			return NewAppError("CONFIG_ERROR", "ORACLE_PROVIDER must be openai, anthropic or gemini", ErrInvalidInput)
		}
		if c.Oracle.APIKey() == "" {
			return NewAppError("CONFIG_ERROR", "API key for ORACLE_PROVIDER="+c.Oracle.Provider+" is required", ErrInvalidInput)
		}
	}
	if c.Server.MaxUploadMB <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_UPLOAD_MB must be positive", ErrInvalidInput)
	}
	return nil
}
