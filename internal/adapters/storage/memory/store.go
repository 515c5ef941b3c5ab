package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"har-capture/internal/domain"
	"har-capture/internal/usecase"
)

type captureEntry struct {
	record    domain.CaptureRecord
	createdAt time.Time
}

// Store keeps recent capture records in memory, bounded by count and TTL.
// Eviction is oldest-first; this is deliberately not durable storage.
type Store struct {
	mu sync.RWMutex
	// ring by insertion order of capture ids
	order []string
	items map[string]*captureEntry

	maxCaptures int
	ttl         time.Duration

	onEvict func(n int)
}

func NewStore(maxCaptures int, ttl time.Duration) *Store {
	return &Store{
		order:       make([]string, 0, maxCaptures),
		items:       make(map[string]*captureEntry, maxCaptures),
		maxCaptures: maxCaptures,
		ttl:         ttl,
	}
}

// SetEvictHook registers a callback invoked with the number of records
// evicted on each save (metrics wiring).
func (s *Store) SetEvictHook(fn func(n int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvict = fn
}

// CaptureRepository
func (s *Store) SaveCapture(ctx context.Context, rec domain.CaptureRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := s.evictExpiredLocked()
	for s.maxCaptures > 0 && len(s.items) >= s.maxCaptures {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.items, oldest)
		evicted++
	}
	s.items[rec.ID] = &captureEntry{record: rec, createdAt: time.Now()}
	s.order = append(s.order, rec.ID)
	if evicted > 0 && s.onEvict != nil {
		s.onEvict(evicted)
	}
	return nil
}

func (s *Store) GetCapture(ctx context.Context, id string) (domain.CaptureRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.items[id]; ok {
		return e.record, true, nil
	}
	return domain.CaptureRecord{}, false, nil
}

func (s *Store) DeleteCapture(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; ok {
		delete(s.items, id)
		for i, cid := range s.order {
			if cid == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (s *Store) ClearAllCaptures(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*captureEntry, len(s.items))
	s.order = s.order[:0]
	return nil
}

func (s *Store) ListCaptures(ctx context.Context, f usecase.CaptureFilter) ([]domain.CaptureRecord, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]domain.CaptureRecord, 0, len(s.items))
	for _, id := range s.order { // preserve insertion order
		e := s.items[id]
		if e == nil {
			continue
		}
		if f.Q != "" && !strings.Contains(strings.ToLower(e.record.URL), strings.ToLower(f.Q)) {
			continue
		}
		results = append(results, e.record.Summary())
	}
	total := len(results)
	start := f.Offset
	if start > total {
		start = total
	}
	end := start + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}
	return results[start:end], total, nil
}

func (s *Store) evictExpiredLocked() int {
	if s.ttl <= 0 {
		return 0
	}
	now := time.Now()
	evicted := 0
	i := 0
	for i < len(s.order) {
		id := s.order[i]
		e := s.items[id]
		if e == nil || now.Sub(e.createdAt) > s.ttl {
			delete(s.items, id)
			s.order = append(s.order[:i], s.order[i+1:]...)
			evicted++
			continue
		}
		i++
	}
	return evicted
}
