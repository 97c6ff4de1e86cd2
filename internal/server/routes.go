package server

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/ayusharma-ctrl/GIYC/internal/game"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

func addRoutes(r chi.Router, logger *slog.Logger, store Store, engine *game.Engine, db pinger) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Globetrotter API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	// Account lifecycle, no session required. Registering also accepts
	// any pending invites addressed to the new username.
	r.Post("/api/auth/register", handleRegister(logger, store, engine))
	r.Post("/api/auth/login", handleLogin(store))
	r.Post("/api/auth/logout", handleLogout(store))
	r.Get("/api/auth/username-available", handleUsernameAvailable(store))

	// Public challenge page data.
	r.Get("/api/users/{username}", handlePublicProfile(store))
	r.Get("/api/achievements", handleListAchievements(store))
	r.Get("/api/destinations", handleListDestinations(store))

	// Everything below requires a session cookie.
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(store))

		r.Get("/api/me", handleMe(store))

		r.Get("/api/game/round", handleRound(engine))
		r.Post("/api/game/answer", handleAnswer(logger, store, engine))

		r.Get("/api/notifications", handleListNotifications(store))
		r.Post("/api/notifications/{id}/read", handleMarkNotificationRead(store))
		r.Delete("/api/notifications/{id}", handleDeleteNotification(store))
		r.Delete("/api/notifications", handleDeleteAllNotifications(store))

		r.Post("/api/invites", handleSendInvite(store))
	})
}
