package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port           string
	StaticDir      string
	AllowedOrigins string
	MaxUploadBytes int64

	// Gemini configuration
	GeminiAPIKey      string
	GeminiModel       string
	SystemInstruction string
	ProviderTimeout   time.Duration
}

// Load reads the optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("PROVIDER_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, errors.New("PROVIDER_TIMEOUT must be positive")
	}

	uploadMB, err := strconv.ParseInt(getEnv("MAX_UPLOAD_MB", "32"), 10, 64)
	if err != nil || uploadMB <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB %q", os.Getenv("MAX_UPLOAD_MB"))
	}

	port := getEnv("PORT", "3000")
	if _, err := strconv.Atoi(port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q", port)
	}

	return &Config{
		Port:              port,
		StaticDir:         getEnv("STATIC_DIR", "public"),
		AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
		MaxUploadBytes:    uploadMB << 20,
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		SystemInstruction: getEnv("SYSTEM_INSTRUCTION", ""),
		ProviderTimeout:   timeout,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
