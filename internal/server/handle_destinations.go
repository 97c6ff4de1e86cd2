package server

import (
	"net/http"
)

// DestinationSummary deliberately omits clues and facts so the catalog
// endpoint cannot be used to pair clues with their city.
type DestinationSummary struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

func handleListDestinations(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		destinations, err := store.ListDestinations(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := []DestinationSummary{}
		for _, d := range destinations {
			out = append(out, DestinationSummary{City: d.City, Country: d.Country})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
