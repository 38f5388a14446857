package userneeds

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"NewsHyperlocalizer/internal/domain"
	"NewsHyperlocalizer/internal/ports"
)

// StubScorer returns random scores in [0, 100]. It stands in when no scoring
// API is configured and as the mid-run fallback for a failing one.
type StubScorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ ports.NeedsScorer = (*StubScorer)(nil)

func NewStubScorer() *StubScorer {
	return &StubScorer{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *StubScorer) Score(_ context.Context, _ string) (domain.UserNeeds, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.UserNeeds{
		Know:       s.rng.Intn(101),
		Understand: s.rng.Intn(101),
		Feel:       s.rng.Intn(101),
		Do:         s.rng.Intn(101),
	}, nil
}
