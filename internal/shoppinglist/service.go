// Package shoppinglist holds the in-memory shopping list: a mutable
// ingredient slice plus an edit cursor, broadcasting a snapshot to
// subscribers on every change.
package shoppinglist

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when an ingredient index is out of range.
var ErrNotFound = errors.New("ingredient not found")

// Service owns the shopping list state. All access is serialized by the
// internal mutex.
type Service struct {
	mu          sync.RWMutex
	ingredients []Ingredient
	editIndex   int
	subs        map[int]chan []Ingredient
	nextSub     int
}

// NewService creates an empty shopping list.
func NewService() *Service {
	return &Service{
		editIndex: NoEdit,
		subs:      make(map[int]chan []Ingredient),
	}
}

// All returns a copy of the current list.
func (s *Service) All() []Ingredient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.ingredients)
}

// Get returns the ingredient at index.
func (s *Service) Get(index int) (Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.ingredients) {
		return Ingredient{}, ErrNotFound
	}
	return s.ingredients[index], nil
}

// Add appends one ingredient and notifies subscribers.
func (s *Service) Add(ing Ingredient) {
	s.mu.Lock()
	s.ingredients = append(s.ingredients, ing)
	s.mu.Unlock()
	s.notify()
}

// AddMany appends a batch of ingredients in one change notification. This
// is the target of the recipe service's add-to-shopping-list dispatch.
func (s *Service) AddMany(ings []Ingredient) {
	if len(ings) == 0 {
		return
	}
	s.mu.Lock()
	s.ingredients = append(s.ingredients, ings...)
	s.mu.Unlock()
	s.notify()
}

// Update replaces the ingredient at index and ends any edit on it.
func (s *Service) Update(index int, ing Ingredient) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.ingredients) {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.ingredients[index] = ing
	if s.editIndex == index {
		s.editIndex = NoEdit
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// Delete removes the ingredient at index.
func (s *Service) Delete(index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.ingredients) {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.ingredients = append(s.ingredients[:index], s.ingredients[index+1:]...)
	if s.editIndex == index {
		s.editIndex = NoEdit
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// StartEdit marks the ingredient at index as being edited.
func (s *Service) StartEdit(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.ingredients) {
		return ErrNotFound
	}
	s.editIndex = index
	return nil
}

// StopEdit clears the edit cursor. Idempotent.
func (s *Service) StopEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editIndex = NoEdit
}

// EditIndex returns the index being edited, or NoEdit.
func (s *Service) EditIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editIndex
}

// Subscribe registers a change listener receiving list snapshots. The
// returned cancel func must be called when done. Slow listeners miss
// updates rather than blocking mutations.
func (s *Service) Subscribe() (<-chan []Ingredient, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan []Ingredient, 8)
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

	snap := snapshot(s.ingredients)
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func snapshot(ings []Ingredient) []Ingredient {
	out := make([]Ingredient, len(ings))
	copy(out, ings)
	return out
}
