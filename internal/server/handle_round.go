package server

import (
	"errors"
	"net/http"

	"github.com/ayusharma-ctrl/GIYC/internal/game"
)

type RoundResponse struct {
	DestinationID int64    `json:"destinationId"`
	Clues         []string `json:"clues"`
	Options       []string `json:"options"`
}

func handleRound(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		round, err := engine.GenerateRound(r.Context())
		if errors.Is(err, game.ErrInsufficientData) {
			writeError(w, http.StatusServiceUnavailable, "not enough destinations yet, try again later")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		// The country, fun facts, and correct answer stay server-side;
		// clients get them back only after answering.
		writeJSON(w, http.StatusOK, RoundResponse{
			DestinationID: round.Destination.ID,
			Clues:         round.Destination.Clues,
			Options:       round.Options,
		})
	}
}
