package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/game2048/internal/dependencies/clock"
	"github.com/mcoot/game2048/internal/dependencies/random"
	"github.com/mcoot/game2048/internal/services/auth"
	"github.com/mcoot/game2048/internal/services/game"
	"github.com/mcoot/game2048/internal/services/suggestion"
	"github.com/mcoot/game2048/internal/services/tiles"
	"github.com/mcoot/game2048/internal/storage"
	"github.com/mcoot/game2048/internal/storage/memory"
	redisstorage "github.com/mcoot/game2048/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	TileManager       *tiles.Manager
	AuthService       *auth.Service
	SuggestionService *suggestion.Service
	GameController    *game.Controller

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Model is the chat model behind the suggestion service
	Model suggestion.OpenAIConfig
	// SuggestionURL, if set, sends game suggestions to a remote /prompt
	// service instead of the local one
	SuggestionURL string
	// RandomSeed makes tile placement reproducible (optional)
	RandomSeed *uint64
	// GameConfig holds controller settings (optional)
	GameConfig game.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	var closers []io.Closer
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	var rnd random.Random = random.New()
	if cfg.RandomSeed != nil {
		rnd = random.NewSeeded(*cfg.RandomSeed)
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.Cost == 0 {
		authCfg = auth.DefaultConfig()
	}

	suggestionService := suggestion.New(suggestion.NewOpenAIModel(cfg.Model), logger)

	// Game suggestions go to the remote service when one is configured
	var suggester game.Suggester = suggestionService
	if cfg.SuggestionURL != "" {
		suggester = suggestion.NewClient(cfg.SuggestionURL)
	}

	app := newWithDependencies(store, clk, rnd, authCfg, suggestionService, suggester, cfg.GameConfig, logger)
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	suggestionService *suggestion.Service,
	suggester game.Suggester,
	gameCfg game.Config,
	logger *slog.Logger,
) *App {
	// Tokens are never drawn from the tile source, so a seeded game still
	// gets unguessable play tokens
	tileManager := tiles.New(rnd)
	authService := auth.New(random.New(), authCfg)
	gameController := game.NewController(store, tileManager, authService, suggester, clk, rnd, logger, gameCfg)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		TileManager:       tileManager,
		AuthService:       authService,
		SuggestionService: suggestionService,
		GameController:    gameController,
	}
}

// Close releases external connections held by the app
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
