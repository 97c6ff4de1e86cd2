package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayusharma-ctrl/GIYC/internal/game"
	"github.com/ayusharma-ctrl/GIYC/internal/globetrotter"
)

type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Avatar          string `json:"avatar"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

func handleRegister(logger *slog.Logger, store Store, engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		if len(req.Username) < 3 || req.Password == "" || req.Avatar == "" {
			writeError(w, http.StatusBadRequest, "username (min 3 chars), password and avatar are required")
			return
		}
		if req.Password != req.ConfirmPassword {
			writeError(w, http.StatusBadRequest, "passwords do not match")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		user := globetrotter.User{
			ID:           uuid.NewString(),
			Username:     req.Username,
			Avatar:       req.Avatar,
			PasswordHash: string(hash),
		}
		err = store.CreateUser(r.Context(), user)
		if errors.Is(err, ErrDuplicate) {
			writeError(w, http.StatusConflict, "username already exists")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		sessionID, err := store.CreateSession(r.Context(), user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		setSessionCookie(w, sessionID)

		// Signing up with an invited username completes the invite.
		acceptPendingInvites(r.Context(), logger, store, engine, user.Username)

		writeJSON(w, http.StatusCreated, AuthResponse{
			ID:       user.ID,
			Username: user.Username,
			Avatar:   user.Avatar,
		})
	}
}

func handleLogin(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "username and password are required")
			return
		}

		user, err := store.UserByUsername(r.Context(), req.Username)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		sessionID, err := store.CreateSession(r.Context(), user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		setSessionCookie(w, sessionID)

		writeJSON(w, http.StatusOK, AuthResponse{
			ID:       user.ID,
			Username: user.Username,
			Avatar:   user.Avatar,
		})
	}
}

func handleLogout(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			store.DeleteSession(r.Context(), cookie.Value)
		}
		clearSessionCookie(w)
		w.WriteHeader(http.StatusOK)
	}
}

func handleUsernameAvailable(store Store) http.HandlerFunc {
	type response struct {
		Available bool `json:"available"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		username := strings.TrimSpace(r.URL.Query().Get("username"))
		if len(username) < 3 {
			writeJSON(w, http.StatusOK, response{Available: false})
			return
		}

		taken, err := store.UsernameTaken(r.Context(), username)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, response{Available: !taken})
	}
}
