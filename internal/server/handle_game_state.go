package server

import (
	"errors"
	"net/http"

	"github.com/playperu/geoquiz/internal/game"
	"github.com/playperu/geoquiz/internal/geoquiz"
)

// CountryLocation is a country as shown while it is being guessed: no name.
type CountryLocation struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Code    string  `json:"code,omitempty"`
	Geohash string  `json:"geohash,omitempty"`
}

type GameStateResponse struct {
	GameID         string          `json:"game_id"`
	CurrentCountry CountryLocation `json:"current_country"`
	Score          int             `json:"score"`
	Answered       int             `json:"answered"`
	Total          int             `json:"total"`
}

func locationResponse(l game.Location) CountryLocation {
	return CountryLocation{Lat: l.Lat, Lng: l.Lng, Code: l.Code, Geohash: l.Geohash}
}

func handleGameState(games Games) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := games.State()
		if errors.Is(err, geoquiz.ErrNoActiveSession) {
			writeError(w, http.StatusConflict, msgNoActiveGame)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, GameStateResponse{
			GameID:         snap.GameID,
			CurrentCountry: locationResponse(snap.Current),
			Score:          snap.Score,
			Answered:       snap.Answered,
			Total:          snap.Total,
		})
	}
}
