package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/game2048/internal/api/handler"
	"github.com/mcoot/game2048/internal/api/middleware"
	"github.com/mcoot/game2048/internal/api/response"
	sharedmw "github.com/mcoot/game2048/internal/middleware"
	"github.com/mcoot/game2048/internal/services/game"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller
	// Suggester serves POST /prompt
	Suggester      handler.Suggester
	AllowedOrigins []string
}

// NewRouter creates a new API router with all routes configured.
// CORS wraps the whole router so preflight requests never reach route matching.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)

	// Create handlers
	promptHandler := handler.NewPromptHandler(cfg.Suggester, cfg.Logger)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.Logger)

	// Create middleware
	playTokenMiddleware := middleware.PlayToken(cfg.GameController)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Suggestion service
	r.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	r.HandleFunc("/prompt", promptHandler.Post).Methods(http.MethodPost)

	// Game API
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)

	// Routes for a single game require its play token
	games := api.PathPrefix("/games/{id}").Subrouter()
	games.Use(playTokenMiddleware)
	games.HandleFunc("", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("", gameHandler.Delete).Methods(http.MethodDelete)
	games.HandleFunc("/move", gameHandler.Move).Methods(http.MethodPost)
	games.HandleFunc("/reset", gameHandler.Reset).Methods(http.MethodPost)
	games.HandleFunc("/suggestion", gameHandler.Suggest).Methods(http.MethodPost)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return sharedmw.CORS(sharedmw.CORSConfig{AllowedOrigins: origins})(r)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusNotFound, response.SimpleError{Error: "Not found"})
}
