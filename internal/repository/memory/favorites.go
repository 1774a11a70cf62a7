package memory

import (
	"slices"
	"sync"
)

// FavoritesRepository keeps favorite city names in insertion order.
// The mutex only protects the slice itself; callers get no isolation across calls.
type FavoritesRepository struct {
	mu     sync.RWMutex
	cities []string
}

func NewFavoritesRepository() *FavoritesRepository {
	return &FavoritesRepository{cities: make([]string, 0)}
}

func (r *FavoritesRepository) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.cities)
}

// Add reports whether city was inserted; an exact duplicate is ignored.
func (r *FavoritesRepository) Add(city string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.cities, city) {
		return false
	}
	r.cities = append(r.cities, city)
	return true
}

func (r *FavoritesRepository) Remove(city string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cities = slices.DeleteFunc(r.cities, func(c string) bool {
		return c == city
	})
}
