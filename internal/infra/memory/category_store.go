package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kitikazis/ELAC-Lectura/internal/app"
	"github.com/kitikazis/ELAC-Lectura/internal/domain"
)

// CategoryStore keeps categories in a map. This is the local-storage
// deployment mode; the postgres store is its hosted counterpart.
type CategoryStore struct {
	mu         sync.RWMutex
	categories map[string]domain.Category
}

var _ app.CategoryStore = (*CategoryStore)(nil)

// NewCategoryStore builds an empty store, optionally pre-filled with seed
// categories the way the standalone deployment ships demo content.
func NewCategoryStore(seed ...domain.Category) *CategoryStore {
	s := &CategoryStore{categories: make(map[string]domain.Category)}
	for _, c := range seed {
		s.categories[c.Key] = c.Clone()
	}
	return s
}

func (s *CategoryStore) List(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *CategoryStore) Get(_ context.Context, key string) (domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[key]
	if !ok {
		return domain.Category{}, domain.ErrNotFound
	}
	return c.Clone(), nil
}

func (s *CategoryStore) Create(_ context.Context, category domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.categories[category.Key]; exists {
		return domain.ErrDuplicateKey
	}
	s.categories[category.Key] = category.Clone()
	return nil
}

func (s *CategoryStore) Update(_ context.Context, key, readingText string, questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[key]
	if !ok {
		return domain.ErrNotFound
	}
	c.ReadingText = readingText
	c.Questions = questions
	s.categories[key] = c.Clone()
	return nil
}

func (s *CategoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.categories, key)
	return nil
}
