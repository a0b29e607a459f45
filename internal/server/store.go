package server

import (
	"context"

	"github.com/playperu/geoquiz/internal/game"
	"github.com/playperu/geoquiz/internal/results"
)

// Games is the single-session game manager driven by the quiz endpoints.
type Games interface {
	Start(ctx context.Context) (game.Started, error)
	Submit(answer string) (game.Result, error)
	State() (game.Snapshot, error)
}

// ResultStore keeps finished games.
type ResultStore interface {
	Record(ctx context.Context, r results.Result) error
	Recent(ctx context.Context, limit int) ([]results.Result, error)
}
