package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type NotificationInfo struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Icon      string `json:"icon"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

func handleListNotifications(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := userFrom(r)

		notifications, err := store.ListNotifications(r.Context(), sess.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := []NotificationInfo{}
		for _, n := range notifications {
			out = append(out, NotificationInfo{
				ID:        n.ID,
				Message:   n.Message,
				Icon:      n.Icon,
				IsRead:    n.IsRead,
				CreatedAt: n.CreatedAt.Format(time.RFC3339),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleMarkNotificationRead(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := userFrom(r)
		id := chi.URLParam(r, "id")

		err := store.MarkNotificationRead(r.Context(), sess.UserID, id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "notification not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func handleDeleteNotification(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := userFrom(r)
		id := chi.URLParam(r, "id")

		err := store.DeleteNotification(r.Context(), sess.UserID, id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "notification not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func handleDeleteAllNotifications(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := userFrom(r)

		if err := store.DeleteAllNotifications(r.Context(), sess.UserID); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
