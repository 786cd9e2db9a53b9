package pricing

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/liftpass/internal/model"
)

// MemoryStore is an in-process Store. It backs STORE_DRIVER=memory and the
// tests.
type MemoryStore struct {
	mu       sync.RWMutex
	costs    map[string]int
	holidays map[string]model.Holiday
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		costs:    map[string]int{},
		holidays: map[string]model.Holiday{},
	}
}

func (s *MemoryStore) BaseCost(_ context.Context, passType string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cost, ok := s.costs[passType]
	if !ok {
		return 0, ErrUnknownPassType
	}
	return cost, nil
}

func (s *MemoryStore) SetBaseCost(_ context.Context, passType string, cost int) error {
	s.mu.Lock()
	s.costs[passType] = cost
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) IsHoliday(_ context.Context, date time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.holidays[date.Format(model.DateLayout)]
	return ok, nil
}

func (s *MemoryStore) AddHoliday(_ context.Context, h model.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := h.Key()
	if _, ok := s.holidays[key]; ok {
		return ErrHolidayExists
	}
	y, m, d := h.Date.Date()
	h.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	s.holidays[key] = h
	return nil
}

func (s *MemoryStore) RemoveHoliday(_ context.Context, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := date.Format(model.DateLayout)
	if _, ok := s.holidays[key]; !ok {
		return ErrHolidayNotFound
	}
	delete(s.holidays, key)
	return nil
}

// ListHolidays returns the holidays in date order.
func (s *MemoryStore) ListHolidays(_ context.Context) ([]model.Holiday, error) {
	s.mu.RLock()
	out := make([]model.Holiday, 0, len(s.holidays))
	for _, h := range s.holidays {
		out = append(out, h)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
