package server

import (
	"net/http"
	"strconv"
	"time"
)

const (
	defaultResultsLimit = 10
	maxResultsLimit     = 100
)

type GameResultItem struct {
	GameID     string  `json:"game_id"`
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	TotalTime  float64 `json:"total_time"`
	FinishedAt string  `json:"finished_at"`
}

func handleResults(store ResultStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultResultsLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = min(n, maxResultsLimit)
		}

		list, err := store.Recent(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		items := make([]GameResultItem, 0, len(list))
		for _, res := range list {
			items = append(items, GameResultItem{
				GameID:     res.GameID,
				Score:      res.Score,
				Total:      res.Total,
				TotalTime:  res.DurationSeconds,
				FinishedAt: res.FinishedAt.Format(time.RFC3339),
			})
		}
		writeJSON(w, http.StatusOK, items)
	}
}
