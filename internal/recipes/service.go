// Package recipes holds the in-memory recipe book and its optional
// Postgres persistence. The service broadcasts a snapshot to subscribers
// on every mutation and dispatches ingredient batches to the shopping
// list on demand.
package recipes

import (
	"context"
	"errors"
	"sync"

	"recipebook/internal/shoppinglist"
)

// ErrNotFound is returned when a recipe index is out of range.
var ErrNotFound = errors.New("recipe not found")

// Service owns the recipe list state.
type Service struct {
	shopping *shoppinglist.Service
	repo     *Repository

	mu      sync.RWMutex
	recipes []Recipe
	subs    map[int]chan []Recipe
	nextSub int
}

// NewService creates an empty recipe book. repo may be nil when no database
// is configured; FetchAll and StoreAll then report ErrNoRepository.
func NewService(shopping *shoppinglist.Service, repo *Repository) *Service {
	return &Service{
		shopping: shopping,
		repo:     repo,
		subs:     make(map[int]chan []Recipe),
	}
}

// ErrNoRepository is returned by FetchAll/StoreAll when persistence is not
// configured.
var ErrNoRepository = errors.New("recipe persistence is not configured")

// All returns a copy of the current recipe list.
func (s *Service) All() []Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// Get returns the recipe at index.
func (s *Service) Get(index int) (Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.recipes) {
		return Recipe{}, ErrNotFound
	}
	return s.recipes[index], nil
}

// Set replaces the whole list and notifies subscribers.
func (s *Service) Set(recipes []Recipe) {
	s.mu.Lock()
	s.recipes = make([]Recipe, len(recipes))
	copy(s.recipes, recipes)
	s.mu.Unlock()
	s.notify()
}

// Add appends a recipe.
func (s *Service) Add(r Recipe) {
	s.mu.Lock()
	s.recipes = append(s.recipes, r)
	s.mu.Unlock()
	s.notify()
}

// Update replaces the recipe at index.
func (s *Service) Update(index int, r Recipe) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.recipes) {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.recipes[index] = r
	s.mu.Unlock()
	s.notify()
	return nil
}

// Delete removes the recipe at index.
func (s *Service) Delete(index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.recipes) {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.recipes = append(s.recipes[:index], s.recipes[index+1:]...)
	s.mu.Unlock()
	s.notify()
	return nil
}

// AddToShoppingList dispatches the ingredients of the recipe at index to
// the shopping list service.
func (s *Service) AddToShoppingList(index int) error {
	r, err := s.Get(index)
	if err != nil {
		return err
	}
	s.shopping.AddMany(r.Ingredients)
	return nil
}

// FetchAll loads the persisted recipe list, replacing the in-memory one.
func (s *Service) FetchAll(ctx context.Context) ([]Recipe, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}

	recipes, err := s.repo.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	s.Set(recipes)
	return recipes, nil
}

// StoreAll persists the in-memory list, replacing whatever was stored.
func (s *Service) StoreAll(ctx context.Context) error {
	if s.repo == nil {
		return ErrNoRepository
	}
	return s.repo.StoreAll(ctx, s.All())
}

// Subscribe registers a change listener receiving recipe list snapshots.
// The returned cancel func must be called when done.
func (s *Service) Subscribe() (<-chan []Recipe, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan []Recipe, 8)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (s *Service) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Service) snapshot() []Recipe {
	out := make([]Recipe, len(s.recipes))
	copy(out, s.recipes)
	return out
}
