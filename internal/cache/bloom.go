package cache

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// SeenURLs is a process-local filter over URLs already handled in this run.
// False positives are acceptable: a skipped URL resurfaces on the next run.
type SeenURLs struct {
	filter *bloom.BloomFilter
	mu     sync.RWMutex
}

// NewSeenURLs sizes the filter for the expected number of URLs at the given
// false positive rate.
func NewSeenURLs(expectedItems uint, fpRate float64) *SeenURLs {
	return &SeenURLs{
		filter: bloom.NewWithEstimates(expectedItems, fpRate),
	}
}

func (s *SeenURLs) Add(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.AddString(url)
}

func (s *SeenURLs) Seen(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.TestString(url)
}

func (s *SeenURLs) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.ClearAll()
}
