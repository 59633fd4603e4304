package repository

import (
	"context"
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/anime-shed/palette-inspector-go/pkg/models"
)

// MemoryStore keeps the most recently used palettes in memory
type MemoryStore struct {
	mu     sync.Mutex
	cache  *lru.Cache
	recent []models.PaletteSummary
	closed bool
}

func NewMemoryStore(capacity int) *MemoryStore {
	s := &MemoryStore{cache: lru.New(capacity)}
	s.cache.OnEvicted = func(key lru.Key, _ interface{}) {
		id, _ := key.(string)
		for i, sum := range s.recent {
			if sum.ID == id {
				s.recent = append(s.recent[:i], s.recent[i+1:]...)
				break
			}
		}
	}
	return s
}

func (s *MemoryStore) Save(ctx context.Context, palette *models.PaletteResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if _, ok := s.cache.Get(palette.ID); ok {
		s.cache.Remove(palette.ID)
	}
	s.cache.Add(palette.ID, palette)
	s.recent = append(s.recent, palette.Summary())
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.PaletteResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrPaletteNotFound
	}
	return v.(*models.PaletteResponse), nil
}

func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]models.PaletteSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if limit <= 0 || limit > len(s.recent) {
		limit = len(s.recent)
	}
	out := make([]models.PaletteSummary, 0, limit)
	for i := len(s.recent) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.recent[i])
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.cache.Clear()
	s.recent = nil
	return nil
}

// NopStore discards palettes; used when history is disabled
type NopStore struct{}

func (NopStore) Save(ctx context.Context, palette *models.PaletteResponse) error { return nil }

func (NopStore) Get(ctx context.Context, id string) (*models.PaletteResponse, error) {
	return nil, ErrPaletteNotFound
}

func (NopStore) Recent(ctx context.Context, limit int) ([]models.PaletteSummary, error) {
	return []models.PaletteSummary{}, nil
}

func (NopStore) Close() error { return nil }
