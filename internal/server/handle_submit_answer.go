package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/playperu/geoquiz/internal/game"
	"github.com/playperu/geoquiz/internal/geoquiz"
	"github.com/playperu/geoquiz/internal/results"
)

// SubmitAnswerRequest carries the guess. The country being guessed is
// always the server's current one; clients cannot name it.
type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

// RoundProgress is present while rounds remain.
type RoundProgress struct {
	Next     CountryLocation `json:"next"`
	Score    int             `json:"score"`
	Answered int             `json:"answered"`
	Total    int             `json:"total"`
}

// GameSummary is present once the last round has been answered.
type GameSummary struct {
	GameFinished   bool    `json:"game_finished"`
	FinalScore     int     `json:"final_score"`
	TotalCountries int     `json:"total_countries"`
	TotalTime      float64 `json:"total_time"`
}

type SubmitAnswerResponse struct {
	Correct       bool   `json:"correct"`
	Close         bool   `json:"close"`
	CorrectAnswer string `json:"correct_answer"`
	*RoundProgress
	*GameSummary
}

func handleSubmitAnswer(logger *slog.Logger, games Games, store ResultStore, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitAnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		res, err := games.Submit(req.Answer)
		if errors.Is(err, geoquiz.ErrNoActiveSession) {
			writeError(w, http.StatusConflict, msgNoActiveGame)
			return
		}
		if err != nil {
			logger.Error("submitting answer", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(res.GameID, Event{
			Type:    eventRoundAnswered,
			Round:   res.Answered,
			Correct: res.Correct,
			Score:   res.Score,
		})

		resp := SubmitAnswerResponse{
			Correct:       res.Correct,
			Close:         res.Close,
			CorrectAnswer: res.CorrectAnswer,
		}

		if !res.Finished {
			resp.RoundProgress = &RoundProgress{
				Next:     locationResponse(*res.Next),
				Score:    res.Score,
				Answered: res.Answered,
				Total:    res.Total,
			}
			writeJSON(w, http.StatusOK, resp)
			return
		}

		resp.GameSummary = &GameSummary{
			GameFinished:   true,
			FinalScore:     res.Score,
			TotalCountries: res.Total,
			TotalTime:      res.TotalTime,
		}
		recordResult(r.Context(), logger, store, res)
		broker.Publish(res.GameID, Event{
			Type:    eventGameFinished,
			Correct: res.Correct,
			Score:   res.Score,
			Total:   res.Total,
		})

		writeJSON(w, http.StatusOK, resp)
	}
}

// recordResult saves a finished game. A failure only costs the history
// entry, so it is logged rather than returned to the player.
func recordResult(ctx context.Context, logger *slog.Logger, store ResultStore, res game.Result) {
	if store == nil {
		return
	}
	err := store.Record(ctx, results.Result{
		GameID:          res.GameID,
		Score:           res.Score,
		Total:           res.Total,
		DurationSeconds: res.TotalTime,
		FinishedAt:      time.Now(),
	})
	if err != nil {
		logger.Error("recording game result", "game_id", res.GameID, "error", err)
	}
}
