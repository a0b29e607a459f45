package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

type CurrentCountry struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Name    string  `json:"name"`
	Code    string  `json:"code,omitempty"`
	Geohash string  `json:"geohash,omitempty"`
}

type StartGameResponse struct {
	Success        bool            `json:"success"`
	GameID         string          `json:"game_id,omitempty"`
	CurrentCountry *CurrentCountry `json:"current_country,omitempty"`
	TotalCountries int             `json:"total_countries,omitempty"`
	Error          string          `json:"error,omitempty"`
}

func handleStartGame(logger *slog.Logger, games Games) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started, err := games.Start(r.Context())
		if err != nil {
			logger.Error("starting game", "error", err)
			msg := "failed to load countries"
			if errors.Is(err, geoquiz.ErrEmptyCatalog) {
				msg = "No valid countries found in GeoJSON."
			}
			writeJSON(w, http.StatusInternalServerError, StartGameResponse{Error: msg})
			return
		}

		c := started.Current
		writeJSON(w, http.StatusOK, StartGameResponse{
			Success: true,
			GameID:  started.GameID,
			CurrentCountry: &CurrentCountry{
				Lat:     c.Lat,
				Lng:     c.Lng,
				Name:    c.Name,
				Code:    c.Code,
				Geohash: c.Geohash,
			},
			TotalCountries: started.Total,
		})
	}
}
