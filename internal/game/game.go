// Package game owns the single active quiz session: it shuffles the catalog
// into a round order, grades answers against the server-held current
// country, keeps score and detects completion.
//
// All access goes through one mutex, so concurrent submissions are applied
// one at a time and state reads are consistent snapshots.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/geoquiz/internal/answer"
	"github.com/playperu/geoquiz/internal/geoquiz"
)

// CatalogSource provides a fresh catalog for every new game.
type CatalogSource interface {
	Load(ctx context.Context) ([]geoquiz.Country, error)
}

// Location is what a client may see of a country while it is being guessed.
type Location struct {
	Lat     float64
	Lng     float64
	Code    string
	Geohash string
}

// Started describes a newly created game. Current includes the name.
type Started struct {
	GameID  string
	Current geoquiz.Country
	Total   int
}

// Result is the outcome of one submitted answer. Next is nil once the game
// is finished, in which case Finished is set and TotalTime is filled in.
type Result struct {
	GameID        string
	Correct       bool
	Close         bool
	CorrectAnswer string
	Next          *Location
	Score         int
	Answered      int
	Total         int
	Finished      bool
	TotalTime     float64 // seconds, one decimal
}

// Snapshot is a read-only view of the active round.
type Snapshot struct {
	GameID   string
	Current  Location
	Score    int
	Answered int
	Total    int
}

type session struct {
	id        string
	countries []geoquiz.Country // round order
	round     int               // countries[:round] have been answered
	score     int
	startedAt time.Time
}

func (s *session) current() (geoquiz.Country, bool) {
	if s == nil || s.round >= len(s.countries) {
		return geoquiz.Country{}, false
	}
	return s.countries[s.round], true
}

type Manager struct {
	catalog CatalogSource
	logger  *slog.Logger
	shuffle func([]geoquiz.Country)
	now     func() time.Time
	newID   func() string

	mu   sync.Mutex
	sess *session
}

type Option func(*Manager)

// WithShuffle replaces the uniform random shuffle, e.g. with a no-op in tests.
func WithShuffle(fn func([]geoquiz.Country)) Option {
	return func(m *Manager) { m.shuffle = fn }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

func NewManager(catalog CatalogSource, opts ...Option) *Manager {
	m := &Manager{
		catalog: catalog,
		logger:  slog.Default(),
		shuffle: shuffle,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func shuffle(cs []geoquiz.Country) {
	rand.Shuffle(len(cs), func(i, j int) { cs[i], cs[j] = cs[j], cs[i] })
}

// Start loads the catalog and replaces any existing game with a new one.
// If the catalog cannot be loaded or is empty the previous game, if any,
// is left untouched.
func (m *Manager) Start(ctx context.Context) (Started, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	countries, err := m.catalog.Load(ctx)
	if err != nil {
		return Started{}, fmt.Errorf("loading catalog: %w", err)
	}
	if len(countries) == 0 {
		return Started{}, geoquiz.ErrEmptyCatalog
	}

	countries = slices.Clone(countries)
	m.shuffle(countries)
	m.sess = &session{
		id:        m.newID(),
		countries: countries,
		startedAt: m.now(),
	}

	m.logger.Info("game started", "game_id", m.sess.id, "total", len(countries))

	return Started{
		GameID:  m.sess.id,
		Current: countries[0],
		Total:   len(countries),
	}, nil
}

// Submit grades raw against the current country and moves to the next
// round, whether or not the answer was right.
func (m *Manager) Submit(raw string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.sess
	cur, ok := s.current()
	if !ok {
		return Result{}, geoquiz.ErrNoActiveSession
	}

	correct := answer.IsCorrect(raw, cur.Name)
	if correct {
		s.score++
	}
	s.round++

	res := Result{
		GameID:        s.id,
		Correct:       correct,
		Close:         !correct && answer.Close(raw, cur.Name),
		CorrectAnswer: cur.Name,
		Score:         s.score,
		Answered:      s.round,
		Total:         len(s.countries),
	}

	m.logger.Debug("answer graded",
		"game_id", s.id,
		"round", s.round,
		"correct", correct,
	)

	if next, ok := s.current(); ok {
		loc := locationOf(next)
		res.Next = &loc
		return res, nil
	}

	res.Finished = true
	res.TotalTime = roundSeconds(m.now().Sub(s.startedAt))

	m.logger.Info("game finished",
		"game_id", s.id,
		"score", s.score,
		"total", len(s.countries),
		"total_time", res.TotalTime,
	)
	return res, nil
}

// State returns the active round without changing anything.
func (m *Manager) State() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.sess
	cur, ok := s.current()
	if !ok {
		return Snapshot{}, geoquiz.ErrNoActiveSession
	}

	return Snapshot{
		GameID:   s.id,
		Current:  locationOf(cur),
		Score:    s.score,
		Answered: s.round,
		Total:    len(s.countries),
	}, nil
}

func locationOf(c geoquiz.Country) Location {
	return Location{Lat: c.Lat, Lng: c.Lng, Code: c.Code, Geohash: c.Geohash}
}

func roundSeconds(d time.Duration) float64 {
	return max(0, math.Round(d.Seconds()*10)/10)
}
