package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayusharma-ctrl/GIYC/internal/game"
	"github.com/ayusharma-ctrl/GIYC/internal/globetrotter"
)

type InviteInfo struct {
	Invitee    string `json:"invitee"`
	IsAccepted bool   `json:"isAccepted"`
}

type ProfileResponse struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Avatar       string       `json:"avatar"`
	Stats        StatsInfo    `json:"stats"`
	Achievements []UnlockInfo `json:"achievements"`
	Invites      []InviteInfo `json:"invites"`
}

// PublicProfileResponse is the limited view shown on challenge links.
type PublicProfileResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Avatar       string `json:"avatar"`
	TotalPlayed  int    `json:"totalPlayed"`
	TotalCorrect int    `json:"totalCorrect"`
}

type AchievementInfo struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func handleMe(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := userFrom(r)

		user, stats, err := store.UserProfile(r.Context(), sess.UserID)
		if errors.Is(err, game.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "user no longer exists")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		unlocks, err := store.ListUnlocks(r.Context(), sess.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		invites, err := store.ListInvites(r.Context(), sess.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := ProfileResponse{
			ID:       user.ID,
			Username: user.Username,
			Avatar:   user.Avatar,
			Stats: StatsInfo{
				TotalPlayed:   stats.TotalPlayed,
				TotalCorrect:  stats.TotalCorrect,
				TotalWrong:    stats.TotalWrong,
				CurrentStreak: stats.CurrentStreak,
				LongestStreak: stats.LongestStreak,
			},
			Achievements: unlocks,
			Invites:      inviteInfos(invites),
		}
		if resp.Achievements == nil {
			resp.Achievements = []UnlockInfo{}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func inviteInfos(invites []globetrotter.Invite) []InviteInfo {
	out := []InviteInfo{}
	for _, inv := range invites {
		out = append(out, InviteInfo{Invitee: inv.Invitee, IsAccepted: inv.IsAccepted})
	}
	return out
}

func handlePublicProfile(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		profile, err := store.PublicProfile(r.Context(), username)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func handleListAchievements(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		achievements, err := store.ListAchievements(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := []AchievementInfo{}
		for _, a := range achievements {
			out = append(out, AchievementInfo{
				ID:          a.ID,
				Title:       a.Title,
				Description: a.Description,
				Icon:        a.Icon,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
