package rest

import (
	"encoding/json"
	"net/http"
)

// StatsSource reports room occupancy; the room directory implements it.
type StatsSource interface {
	Stats() (rooms, games int)
}

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func statsHandler(source StatsSource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		rooms, games := source.Stats()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]int{"rooms": rooms, "games": games}); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}
