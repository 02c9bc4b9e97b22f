package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	VaultPath   string
	VaultIgnore []string

	MemoryEnabled bool
	DBPath        string

	APIPort   string
	LogLevel  slog.Level
	LogFormat string

	OperationTimeout time.Duration
	MaxDocuments     int

	SimilarityThreshold float64
	SimilarLimit        int
	DuplicateThreshold  float64
	SuggestThreshold    float64
	SuggestLimit        int

	HealthWeightConnectivity float64
	HealthWeightUniqueness   float64
	HealthWeightFreshness    float64
	StaleAfter               time.Duration

	SurfaceHalfLife   time.Duration
	SurfaceCooldown   time.Duration
	SurfaceMaxResults int
	RelationWindow    time.Duration
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates value ranges.
// If a .env file exists in the current directory or a parent directory, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		VaultPath:   getEnv("VAULT_PATH", ""),
		VaultIgnore: splitList(getEnv("VAULT_IGNORE", ".trash/**")),
		DBPath:      getEnv("DB_PATH", "./data/vaultmind.db"),
		APIPort:     getEnv("API_PORT", "9000"),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error: %w", err)
	}

	if cfg.MemoryEnabled, err = getEnvBool("MEMORY_ENABLED", true); err != nil {
		return nil, err
	}

	if cfg.OperationTimeout, err = getEnvDuration("OPERATION_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.MaxDocuments, err = getEnvInt("MAX_DOCUMENTS", 5000); err != nil {
		return nil, err
	}
	if cfg.MaxDocuments < 0 {
		return nil, fmt.Errorf("MAX_DOCUMENTS must be 0 (unlimited) or greater")
	}

	if cfg.SimilarityThreshold, err = getEnvUnit("SIMILARITY_THRESHOLD", 0.3); err != nil {
		return nil, err
	}
	if cfg.SimilarLimit, err = getEnvInt("SIMILAR_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.DuplicateThreshold, err = getEnvUnit("DUPLICATE_THRESHOLD", 0.8); err != nil {
		return nil, err
	}
	if cfg.DuplicateThreshold == 0 {
		return nil, fmt.Errorf("DUPLICATE_THRESHOLD must be greater than 0")
	}
	if cfg.SuggestThreshold, err = getEnvUnit("SUGGEST_THRESHOLD", 0.2); err != nil {
		return nil, err
	}
	if cfg.SuggestLimit, err = getEnvInt("SUGGEST_LIMIT", 10); err != nil {
		return nil, err
	}

	if cfg.HealthWeightConnectivity, err = getEnvUnit("HEALTH_WEIGHT_CONNECTIVITY", 0.4); err != nil {
		return nil, err
	}
	if cfg.HealthWeightUniqueness, err = getEnvUnit("HEALTH_WEIGHT_UNIQUENESS", 0.3); err != nil {
		return nil, err
	}
	if cfg.HealthWeightFreshness, err = getEnvUnit("HEALTH_WEIGHT_FRESHNESS", 0.3); err != nil {
		return nil, err
	}
	sum := cfg.HealthWeightConnectivity + cfg.HealthWeightUniqueness + cfg.HealthWeightFreshness
	if math.Abs(sum-1) > 1e-6 {
		return nil, fmt.Errorf("HEALTH_WEIGHT_* must sum to 1, got %.4f", sum)
	}
	if cfg.StaleAfter, err = getEnvDuration("STALE_AFTER", 90*24*time.Hour); err != nil {
		return nil, err
	}

	if cfg.SurfaceHalfLife, err = getEnvDuration("SURFACE_HALF_LIFE", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SurfaceCooldown, err = getEnvDuration("SURFACE_COOLDOWN", 72*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SurfaceMaxResults, err = getEnvInt("SURFACE_MAX_RESULTS", 50); err != nil {
		return nil, err
	}
	if cfg.RelationWindow, err = getEnvDuration("RELATION_WINDOW", time.Hour); err != nil {
		return nil, err
	}

	if cfg.VaultPath != "" {
		info, err := os.Stat(cfg.VaultPath)
		if err != nil {
			return nil, fmt.Errorf("VAULT_PATH is not accessible: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("VAULT_PATH must be a directory: %s", cfg.VaultPath)
		}
	}

	if cfg.MemoryEnabled {
		dataDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return v, nil
}

// getEnvUnit parses a float that must lie within [0, 1].
func getEnvUnit(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	if math.IsNaN(v) || v < 0 || v > 1 {
		return 0, fmt.Errorf("%s must be between 0 and 1, got %v", key, v)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
