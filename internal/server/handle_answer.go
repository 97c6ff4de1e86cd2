package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ayusharma-ctrl/GIYC/internal/game"
)

type AnswerRequest struct {
	DestinationID int64  `json:"destinationId"`
	Answer        string `json:"answer"`
	// TimedOut marks a round the player ran out of time on. Scored as
	// an incorrect answer.
	TimedOut bool `json:"timedOut"`
}

type StatsInfo struct {
	TotalPlayed   int `json:"totalPlayed"`
	TotalCorrect  int `json:"totalCorrect"`
	TotalWrong    int `json:"totalWrong"`
	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`
}

type AnswerResponse struct {
	IsCorrect       bool      `json:"isCorrect"`
	CorrectAnswer   string    `json:"correctAnswer"`
	Country         string    `json:"country"`
	FunFacts        []string  `json:"funFacts"`
	Trivia          []string  `json:"trivia"`
	Stats           StatsInfo `json:"stats"`
	NewAchievements []int     `json:"newAchievements"`
}

func handleAnswer(logger *slog.Logger, store Store, engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := userFrom(r)

		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Answer = strings.TrimSpace(req.Answer)
		if req.DestinationID == 0 {
			writeError(w, http.StatusBadRequest, "destinationId is required")
			return
		}
		if req.Answer == "" && !req.TimedOut {
			writeError(w, http.StatusBadRequest, "answer is required")
			return
		}

		dest, err := store.DestinationByID(r.Context(), req.DestinationID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown destination")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		isCorrect := !req.TimedOut && strings.EqualFold(req.Answer, dest.City)

		outcome, err := engine.SubmitResult(r.Context(), sess.UserID, dest.ID, isCorrect)
		if errors.Is(err, game.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "user no longer exists")
			return
		}
		if err != nil {
			logger.Error("submitting round result", "user_id", sess.UserID, "error", err)
			writeError(w, http.StatusInternalServerError, "could not record your answer, please retry")
			return
		}

		resp := AnswerResponse{
			IsCorrect:       isCorrect,
			CorrectAnswer:   dest.City,
			Country:         dest.Country,
			FunFacts:        dest.FunFacts,
			Trivia:          dest.Trivia,
			NewAchievements: outcome.NewAchievements,
			Stats: StatsInfo{
				TotalPlayed:   outcome.State.TotalPlayed,
				TotalCorrect:  outcome.State.TotalCorrect,
				TotalWrong:    outcome.State.TotalWrong,
				CurrentStreak: outcome.State.CurrentStreak,
				LongestStreak: outcome.State.LongestStreak,
			},
		}
		if resp.NewAchievements == nil {
			resp.NewAchievements = []int{}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
