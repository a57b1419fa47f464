package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/game2048/internal/model"
	"github.com/mcoot/game2048/internal/services/game"
)

const lastGameContextKey contextKey = "lastGame"

const (
	lastGameCookie       = "last_game"
	lastGameCookieMaxAge = 7 * 24 * 60 * 60
)

// GetLastGame retrieves the visitor's most recent game ID from the request context.
// Returns "" if there is none or it no longer exists.
func GetLastGame(ctx context.Context) model.GameID {
	id, _ := ctx.Value(lastGameContextKey).(model.GameID)
	return id
}

// SetLastGame remembers a game so the landing page can offer to resume it
func SetLastGame(w http.ResponseWriter, gameID model.GameID) {
	http.SetCookie(w, &http.Cookie{
		Name:     lastGameCookie,
		Value:    string(gameID),
		Path:     "/",
		MaxAge:   lastGameCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// LastGame returns middleware that looks up the visitor's last game and
// adds it to the context if it still exists
func LastGame(controller *game.Controller) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if cookie, err := r.Cookie(lastGameCookie); err == nil && cookie.Value != "" {
				gameID := model.GameID(cookie.Value)
				if _, err := controller.GetGame(ctx, gameID); err == nil {
					ctx = context.WithValue(ctx, lastGameContextKey, gameID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
