package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/game2048/internal/model"
	"github.com/mcoot/game2048/internal/services/game"
)

type contextKey string

const (
	gameIDContextKey contextKey = "game_id"

	// PlayTokenCookie holds the play token, scoped to the game's own path
	PlayTokenCookie = "play_token"
)

// GetGameID retrieves the authorised game ID from the request context.
// Returns "" if the play token middleware has not run.
func GetGameID(ctx context.Context) model.GameID {
	id, _ := ctx.Value(gameIDContextKey).(model.GameID)
	return id
}

// SetPlayToken stores a game's play token in a cookie scoped to its pages
func SetPlayToken(w http.ResponseWriter, gameID model.GameID, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     PlayTokenCookie,
		Value:    token,
		Path:     "/play/" + string(gameID),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PlayToken returns middleware that requires the play token cookie for the
// game named by the {id} route variable. Redirects home if it is missing
// or wrong.
func PlayToken(controller *game.Controller) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gameID := model.GameID(mux.Vars(r)["id"])

			cookie, err := r.Cookie(PlayTokenCookie)
			if err != nil || cookie.Value == "" {
				SetFlash(w, "error", "That game belongs to another browser")
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			if err := controller.Authorize(r.Context(), gameID, cookie.Value); err != nil {
				msg := "That game belongs to another browser"
				if errors.Is(err, model.ErrGameNotFound) {
					msg = "Game not found"
				}
				SetFlash(w, "error", msg)
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), gameIDContextKey, gameID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
