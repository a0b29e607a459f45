package server

import (
	"encoding/json"
	"sync"
)

const (
	eventRoundAnswered = "round_answered"
	eventGameFinished  = "game_finished"
)

// Event is published to everyone watching a game.
type Event struct {
	Type    string `json:"type"`
	Round   int    `json:"round,omitempty"`
	Correct bool   `json:"correct"`
	Score   int    `json:"score"`
	Total   int    `json:"total,omitempty"`
}

// Broker is an in-process pub/sub for game events, keyed by game ID.
// It backs both the SSE and the WebSocket streams.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for gameID.
func (b *Broker) Subscribe(gameID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[chan []byte]struct{})
	}
	b.subs[gameID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(gameID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[gameID], ch)
	if len(b.subs[gameID]) == 0 {
		delete(b.subs, gameID)
	}
	b.mu.Unlock()
}

// Publish sends event to all subscribers of gameID. Slow subscribers miss it.
func (b *Broker) Publish(gameID string, event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[gameID] {
		select {
		case ch <- data:
		default:
		}
	}
	b.mu.RUnlock()
}
