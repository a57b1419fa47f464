package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/game2048/internal/api/apierr"
	"github.com/mcoot/game2048/internal/model"
	"github.com/mcoot/game2048/internal/services/game"
)

type contextKey string

const gameIDContextKey contextKey = "game_id"

// PlayTokenCookie is the cookie the web UI stores the play token in
const PlayTokenCookie = "play_token"

// PlayToken creates middleware that requires the play token of the game
// named by the {id} route variable
func PlayToken(controller *game.Controller) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gameID := model.GameID(mux.Vars(r)["id"])

			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			if err := controller.Authorize(r.Context(), gameID, token); err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), gameIDContextKey, gameID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken extracts the play token from the request
func ExtractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}

	// Fall back to cookie
	cookie, err := r.Cookie(PlayTokenCookie)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetGameID returns the authorised game ID from the request context
func GetGameID(ctx context.Context) model.GameID {
	id, _ := ctx.Value(gameIDContextKey).(model.GameID)
	return id
}

// MustGetGameID returns the authorised game ID or panics
func MustGetGameID(ctx context.Context) model.GameID {
	id := GetGameID(ctx)
	if id == "" {
		panic("no game in context - play token middleware not applied?")
	}
	return id
}
