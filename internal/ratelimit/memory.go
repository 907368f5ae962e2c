package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// DefaultMaxKeys bounds the number of origins tracked in memory.
const DefaultMaxKeys = 10000

type window struct {
	start time.Time
	count int
}

// MemoryStore keeps windows in a bounded LRU. When full, the least recently
// seen origin is forgotten, which at worst grants it a fresh window.
type MemoryStore struct {
	mu  sync.Mutex
	lru *simplelru.LRU[string, window]
}

// NewMemoryStore returns a store tracking at most maxKeys origins.
func NewMemoryStore(maxKeys int) (*MemoryStore, error) {
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}
	l, err := simplelru.NewLRU[string, window](maxKeys, nil)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{lru: l}, nil
}

func (s *MemoryStore) Hit(_ context.Context, key string, now time.Time, win time.Duration, limit int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.lru.Get(key)
	if !ok || now.Sub(w.start) >= win {
		s.lru.Add(key, window{start: now, count: 1})
		return true, nil
	}
	if w.count >= limit {
		return false, nil
	}
	w.count++
	s.lru.Add(key, w)
	return true, nil
}

// Len returns the number of tracked origins.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}
