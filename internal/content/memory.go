package content

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store for tests and deployments without a
// database.
type MemoryStore struct {
	mu        sync.RWMutex
	settings  map[string]string
	durations map[string]int
	stylists  map[string]Stylist
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		settings:  make(map[string]string),
		durations: make(map[string]int),
		stylists:  make(map[string]Stylist),
	}
}

func (s *MemoryStore) Setting(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.settings[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *MemoryStore) UpsertSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return nil
}

func (s *MemoryStore) ServiceDurations(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	durations := make(map[string]int, len(s.durations))
	for name, minutes := range s.durations {
		if minutes <= 0 {
			minutes = DefaultServiceDuration
		}
		durations[name] = minutes
	}
	return durations, nil
}

func (s *MemoryStore) UpsertService(ctx context.Context, svc Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.durations[svc.Name] = svc.DurationMinutes
	return nil
}

func (s *MemoryStore) Stylists(ctx context.Context) ([]Stylist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stylists := make([]Stylist, 0, len(s.stylists))
	for _, st := range s.stylists {
		if st.ImageURL == "" {
			st.ImageURL = "/placeholder.png"
		}
		stylists = append(stylists, st)
	}
	sort.Slice(stylists, func(i, j int) bool { return stylists[i].Name < stylists[j].Name })
	return stylists, nil
}

func (s *MemoryStore) UpsertStylist(ctx context.Context, st Stylist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stylists[st.Name] = st
	return nil
}
