// Package idgen allocates transaction ids.
package idgen

import (
	"context"
	"fmt"
	"sync"
)

// MaxIDReader reports the highest transaction id already persisted
type MaxIDReader interface {
	MaxTransactionID(ctx context.Context) (int64, error)
}

// Generator hands out increasing transaction ids. The counter is seeded from
// the store on first use and is unique within one running process.
type Generator struct {
	store       MaxIDReader
	mu          sync.Mutex
	last        int64
	initialized bool
}

// New creates a Generator seeded lazily from store
func New(store MaxIDReader) *Generator {
	return &Generator{store: store}
}

// Next returns the next transaction id. A failed seed read is returned and retried on the next call.
func (g *Generator) Next(ctx context.Context) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.initialized {
		maxID, err := g.store.MaxTransactionID(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to seed transaction id counter: %w", err)
		}
		g.last = maxID
		g.initialized = true
	}

	g.last++
	return g.last, nil
}
