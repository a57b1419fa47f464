// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config holds all server settings
type Config struct {
	Host     string
	Port     int
	LogLevel slog.Level

	StorageType string
	RedisURL    string
	GameTTL     time.Duration

	// Suggestion model
	APIKey     string
	LLMBaseURL string
	LLMModel   string

	// SuggestionURL points game suggestions at a remote /prompt service
	// instead of the in-process one
	SuggestionURL string

	CORSAllowedOrigins []string
	TokenCost          int

	// RandomSeed makes tile placement reproducible when set
	RandomSeed    uint64
	HasRandomSeed bool
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Port:               3000,
		LogLevel:           slog.LevelInfo,
		StorageType:        StorageMemory,
		GameTTL:            24 * time.Hour,
		LLMBaseURL:         "https://api.poe.com/v1",
		LLMModel:           "gpt-4o",
		CORSAllowedOrigins: []string{"*"},
		TokenCost:          10,
	}
}

// Load reads the process environment, falling back to values from the given
// .env files (".env" if none are named). Missing files are skipped and the
// process environment is never modified.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	fileValues := make(map[string]string)
	for _, f := range files {
		values, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", f, err)
		}
		for k, v := range values {
			if _, seen := fileValues[k]; !seen {
				fileValues[k] = v
			}
		}
	}

	return FromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileValues[key]
		return v, ok
	})
}

// FromLookup builds a Config from a key lookup function
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg.Host = get("HOST")

	if v := get("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = port
	}

	if v := get("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("invalid LOG_LEVEL %q", v)
		}
	}

	if v := strings.ToLower(get("STORAGE_TYPE")); v != "" {
		if v != StorageMemory && v != StorageRedis {
			return Config{}, fmt.Errorf("invalid STORAGE_TYPE %q: must be 'memory' or 'redis'", v)
		}
		cfg.StorageType = v
	}
	cfg.RedisURL = get("REDIS_URL")
	if cfg.StorageType == StorageRedis && cfg.RedisURL == "" {
		return Config{}, errors.New("REDIS_URL required when STORAGE_TYPE=redis")
	}

	if v := get("GAME_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("invalid GAME_TTL %q", v)
		}
		cfg.GameTTL = ttl
	}

	cfg.APIKey = get("POE_API_KEY")
	if v := get("LLM_BASE_URL"); v != "" {
		cfg.LLMBaseURL = v
	}
	if v := get("LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	cfg.SuggestionURL = get("SUGGESTION_URL")

	if v := get("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSAllowedOrigins = origins
	}

	if v := get("TOKEN_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TOKEN_COST %q", v)
		}
		cfg.TokenCost = cost
	}

	if v := get("RANDOM_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RANDOM_SEED %q", v)
		}
		cfg.RandomSeed = seed
		cfg.HasRandomSeed = true
	}

	return cfg, nil
}

// Addr is the listen address
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NewLogger creates the JSON logger at the configured level
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: c.LogLevel,
	}))
}
