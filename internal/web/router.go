package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/game2048/internal/services/game"
	"github.com/mcoot/game2048/internal/web/handler"
	"github.com/mcoot/game2048/internal/web/middleware"
	"github.com/mcoot/game2048/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller
	HubManager     *sse.HubManager
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	lastGameMiddleware := middleware.LastGame(cfg.GameController)
	playTokenMiddleware := middleware.PlayToken(cfg.GameController)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(flashMiddleware)

	// Create SSE hub manager if not provided
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	// Create handlers
	homeHandler := handler.NewHomeHandler()
	gameHandler := handler.NewGameHandler(cfg.GameController, hubManager, cfg.Logger)

	// Public routes
	public := r.NewRoute().Subrouter()
	public.Use(lastGameMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	r.HandleFunc("/play", gameHandler.Start).Methods(http.MethodPost)

	// Routes for a single game require its play token cookie
	play := r.PathPrefix("/play/{id}").Subrouter()
	play.Use(playTokenMiddleware)
	play.HandleFunc("", gameHandler.View).Methods(http.MethodGet)
	play.HandleFunc("/key", gameHandler.Key).Methods(http.MethodPost)
	play.HandleFunc("/suggest", gameHandler.Suggest).Methods(http.MethodPost)
	play.HandleFunc("/events", gameHandler.Events).Methods(http.MethodGet)

	return r
}
