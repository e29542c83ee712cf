// Package bestscore persists the single best score a player has reached.
package bestscore

import (
	"context"
	"errors"
	"log"
	"sync"
)

// ErrNotFound is returned by a Store that holds no score for a key.
var ErrNotFound = errors.New("best score not found")

// Store is the persistence boundary for best scores.
type Store interface {
	LoadBest(ctx context.Context, key string) (int, error)
	SaveBest(ctx context.Context, key string, score int) error
}

// Tracker keeps the best score in memory and writes it through to a Store
// whenever it is beaten. Store failures are logged and otherwise ignored so
// a broken disk never interrupts a game.
type Tracker struct {
	store Store
	key   string

	mu   sync.Mutex
	best int
}

func NewTracker(store Store, key string) *Tracker {
	return &Tracker{store: store, key: key}
}

// Load reads the stored best. A missing entry leaves the best at zero.
func (t *Tracker) Load(ctx context.Context) int {
	score, err := t.store.LoadBest(ctx, t.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("[WARN] failed to load best score: %v", err)
		}
		return t.Best()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.best = max(t.best, score)
	return t.best
}

// Observe records score and reports whether it set a new best.
func (t *Tracker) Observe(ctx context.Context, score int) bool {
	t.mu.Lock()
	if score <= t.best {
		t.mu.Unlock()
		return false
	}
	t.best = score
	t.mu.Unlock()

	if err := t.store.SaveBest(ctx, t.key, score); err != nil {
		log.Printf("[WARN] failed to save best score: %v", err)
	}
	return true
}

func (t *Tracker) Best() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.best
}
