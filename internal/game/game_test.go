package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

type stubCatalog struct {
	countries []geoquiz.Country
	err       error
	loads     int
}

func (s *stubCatalog) Load(context.Context) ([]geoquiz.Country, error) {
	s.loads++
	return s.countries, s.err
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

var italySpain = []geoquiz.Country{
	{Name: "Italy", Code: "IT", Lat: 42.5, Lng: 12.5},
	{Name: "Spain", Code: "ES", Lat: 40.0, Lng: -4.0},
}

func newTestManager(cat CatalogSource, opts ...Option) *Manager {
	base := []Option{
		WithShuffle(func([]geoquiz.Country) {}),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return NewManager(cat, append(base, opts...)...)
}

func TestExampleGame(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(&stubCatalog{countries: italySpain}, WithClock(clock.now))

	started, err := m.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Current.Name != "Italy" || started.Total != 2 {
		t.Fatalf("start = %+v, want Italy of 2", started)
	}
	if started.GameID == "" {
		t.Error("start: expected a game id")
	}

	clock.advance(1500 * time.Millisecond)
	res, err := m.Submit("italy")
	if err != nil {
		t.Fatalf("submit 1: %v", err)
	}
	if !res.Correct || res.CorrectAnswer != "Italy" {
		t.Errorf("submit 1: correct=%v answer=%q", res.Correct, res.CorrectAnswer)
	}
	if res.Next == nil || res.Next.Code != "ES" || res.Next.Lat != 40.0 || res.Next.Lng != -4.0 {
		t.Fatalf("submit 1: next = %+v, want Spain", res.Next)
	}
	if res.Score != 1 || res.Answered != 1 || res.Total != 2 || res.Finished {
		t.Errorf("submit 1: %+v", res)
	}

	clock.advance(2260 * time.Millisecond)
	res, err = m.Submit("spain")
	if err != nil {
		t.Fatalf("submit 2: %v", err)
	}
	if !res.Correct || !res.Finished || res.Next != nil {
		t.Fatalf("submit 2: %+v", res)
	}
	if res.Score != 2 || res.Total != 2 {
		t.Errorf("submit 2: score=%d total=%d", res.Score, res.Total)
	}
	if res.TotalTime != 3.8 {
		t.Errorf("submit 2: total time = %v, want 3.8", res.TotalTime)
	}
}

func TestNoActiveSession(t *testing.T) {
	m := newTestManager(&stubCatalog{countries: italySpain})

	if _, err := m.State(); !errors.Is(err, geoquiz.ErrNoActiveSession) {
		t.Errorf("state before start: err = %v", err)
	}
	if _, err := m.Submit("Italy"); !errors.Is(err, geoquiz.ErrNoActiveSession) {
		t.Errorf("submit before start: err = %v", err)
	}
}

func TestFinishedGameIsInactive(t *testing.T) {
	m := newTestManager(&stubCatalog{countries: italySpain})
	if _, err := m.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	m.Submit("x")
	m.Submit("y")

	if _, err := m.Submit("Italy"); !errors.Is(err, geoquiz.ErrNoActiveSession) {
		t.Errorf("submit after finish: err = %v", err)
	}
	if _, err := m.State(); !errors.Is(err, geoquiz.ErrNoActiveSession) {
		t.Errorf("state after finish: err = %v", err)
	}
}

func TestWrongAnswerStillAdvances(t *testing.T) {
	m := newTestManager(&stubCatalog{countries: italySpain})
	m.Start(context.Background())

	res, err := m.Submit("Itly")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Correct {
		t.Error("expected incorrect")
	}
	if !res.Close {
		t.Error("expected a near miss")
	}
	if res.CorrectAnswer != "Italy" || res.Score != 0 || res.Answered != 1 {
		t.Errorf("submit: %+v", res)
	}

	snap, err := m.State()
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if snap.Current.Code != "ES" || snap.Answered != 1 || snap.Score != 0 {
		t.Errorf("state: %+v", snap)
	}
}

func TestStateIsReadOnly(t *testing.T) {
	m := newTestManager(&stubCatalog{countries: italySpain})
	m.Start(context.Background())

	first, _ := m.State()
	for range 5 {
		got, err := m.State()
		if err != nil {
			t.Fatalf("state: %v", err)
		}
		if got != first {
			t.Fatalf("state changed: %+v != %+v", got, first)
		}
	}
	if first.Current.Code != "IT" || first.Answered != 0 || first.Total != 2 {
		t.Errorf("state: %+v", first)
	}
}

func TestEmptyCatalog(t *testing.T) {
	m := newTestManager(&stubCatalog{})

	if _, err := m.Start(context.Background()); !errors.Is(err, geoquiz.ErrEmptyCatalog) {
		t.Fatalf("start: err = %v, want ErrEmptyCatalog", err)
	}
	if _, err := m.State(); !errors.Is(err, geoquiz.ErrNoActiveSession) {
		t.Errorf("state: err = %v, want ErrNoActiveSession", err)
	}
}

func TestFailedStartKeepsPreviousGame(t *testing.T) {
	cat := &stubCatalog{countries: italySpain}
	m := newTestManager(cat)

	started, err := m.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	m.Submit("Italy")

	cat.countries = nil
	if _, err := m.Start(context.Background()); !errors.Is(err, geoquiz.ErrEmptyCatalog) {
		t.Fatalf("empty restart: err = %v", err)
	}

	cat.err = errors.New("disk on fire")
	if _, err := m.Start(context.Background()); err == nil {
		t.Fatal("failing restart: expected error")
	}

	snap, err := m.State()
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if snap.GameID != started.GameID || snap.Score != 1 || snap.Answered != 1 || snap.Current.Code != "ES" {
		t.Errorf("previous game not preserved: %+v", snap)
	}
}

func TestStartReplacesGame(t *testing.T) {
	cat := &stubCatalog{countries: italySpain}
	m := newTestManager(cat)

	first, _ := m.Start(context.Background())
	m.Submit("Italy")

	second, err := m.Start(context.Background())
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if second.GameID == first.GameID {
		t.Error("restart reused the game id")
	}
	if cat.loads != 2 {
		t.Errorf("catalog loaded %d times, want 2", cat.loads)
	}

	snap, _ := m.State()
	if snap.Score != 0 || snap.Answered != 0 || snap.Current.Code != "IT" {
		t.Errorf("restart did not reset: %+v", snap)
	}
}

func TestRoundOrderFollowsShuffle(t *testing.T) {
	countries := make([]geoquiz.Country, 40)
	for i := range countries {
		countries[i] = geoquiz.Country{
			Name: string(rune('A'+i%26)) + string(rune('a'+i/26)),
			Code: string(rune('A' + i%26)),
			Lat:  float64(i),
		}
	}

	var order []geoquiz.Country
	rng := rand.New(rand.NewPCG(1, 2))
	m := newTestManager(&stubCatalog{countries: countries}, WithShuffle(func(cs []geoquiz.Country) {
		rng.Shuffle(len(cs), func(i, j int) { cs[i], cs[j] = cs[j], cs[i] })
		order = append([]geoquiz.Country(nil), cs...)
	}))

	started, err := m.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Current != order[0] {
		t.Fatalf("first country = %+v, want %+v", started.Current, order[0])
	}

	seen := make(map[string]bool)
	for i, want := range order {
		snap, err := m.State()
		if err != nil {
			t.Fatalf("round %d: state: %v", i, err)
		}
		if snap.Current.Lat != want.Lat || snap.Current.Code != want.Code {
			t.Fatalf("round %d: current = %+v, want %+v", i, snap.Current, want)
		}

		guess := want.Name
		if i%3 == 0 {
			guess = "wrong"
		}
		res, err := m.Submit(guess)
		if err != nil {
			t.Fatalf("round %d: submit: %v", i, err)
		}
		if res.CorrectAnswer != want.Name {
			t.Fatalf("round %d: graded against %q, want %q", i, res.CorrectAnswer, want.Name)
		}
		if seen[res.CorrectAnswer] {
			t.Fatalf("round %d: %q presented twice", i, res.CorrectAnswer)
		}
		seen[res.CorrectAnswer] = true

		if res.Score > res.Answered || res.Answered > res.Total {
			t.Fatalf("round %d: score=%d answered=%d total=%d", i, res.Score, res.Answered, res.Total)
		}
		if res.Answered != i+1 {
			t.Fatalf("round %d: answered = %d", i, res.Answered)
		}
		if last := i == len(order)-1; res.Finished != last {
			t.Fatalf("round %d: finished = %v", i, res.Finished)
		}
	}

	if len(seen) != len(countries) {
		t.Errorf("presented %d countries, want %d", len(seen), len(countries))
	}
}

func TestShuffleDoesNotTouchSource(t *testing.T) {
	src := []geoquiz.Country{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	m := NewManager(&stubCatalog{countries: src},
		WithShuffle(func(cs []geoquiz.Country) { cs[0], cs[2] = cs[2], cs[0] }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	m.Start(context.Background())

	if src[0].Name != "A" || src[2].Name != "C" {
		t.Errorf("catalog slice was reordered: %+v", src)
	}
}

func TestConcurrentSubmits(t *testing.T) {
	countries := make([]geoquiz.Country, 200)
	for i := range countries {
		countries[i] = geoquiz.Country{Name: "Country", Lat: float64(i)}
	}
	m := newTestManager(&stubCatalog{countries: countries})
	m.Start(context.Background())

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		answered = make(map[int]bool)
		finished int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				res, err := m.Submit("country")
				if err != nil {
					return
				}
				mu.Lock()
				if answered[res.Answered] {
					t.Errorf("round %d answered twice", res.Answered)
				}
				answered[res.Answered] = true
				if res.Finished {
					finished++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(answered) != len(countries) {
		t.Errorf("answered %d rounds, want %d", len(answered), len(countries))
	}
	if finished != 1 {
		t.Errorf("finished reported %d times, want 1", finished)
	}
}

func TestTotalTimeRounding(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want float64
	}{
		{0, 0},
		{1449 * time.Millisecond, 1.4},
		{1460 * time.Millisecond, 1.5},
		{61 * time.Second, 61},
		{-3 * time.Second, 0},
	}
	for _, tt := range tests {
		if got := roundSeconds(tt.d); got != tt.want {
			t.Errorf("roundSeconds(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}
