package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/geoquiz/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("GeoQuiz API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())

	r.Route("/api", func(r chi.Router) {
		r.Post("/start_game", handleStartGame(logger, deps.Games))
		r.Post("/submit_answer", handleSubmitAnswer(logger, deps.Games, deps.Results, broker))
		r.Get("/game_state", handleGameState(deps.Games))
		r.Get("/results", handleResults(deps.Results))
		r.Get("/events", handleEvents(broker))
	})
	r.Get("/ws/events", handleWSEvents(logger, broker))

	r.Get("/static/data/world-countries.geojson", handleDataset(deps.DataPath))

	if deps.WebDir != "" {
		if info, err := os.Stat(deps.WebDir); err == nil && info.IsDir() {
			logger.Info("serving web client", "dir", deps.WebDir)
			r.NotFound(handleSPA(deps.WebDir))
		}
	}
}
