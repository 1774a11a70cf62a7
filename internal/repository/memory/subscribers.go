package memory

import (
	"slices"
	"sync"

	"github.com/Nazarious-ucu/weather-dashboard/internal/models"
)

type SubscriberRepository struct {
	mu   sync.RWMutex
	subs []models.Subscriber
}

func NewSubscriberRepository() *SubscriberRepository {
	return &SubscriberRepository{}
}

// Add appends without checking for an existing email/city pair.
func (r *SubscriberRepository) Add(email, city string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs = append(r.subs, models.Subscriber{Email: email, City: city})
}

func (r *SubscriberRepository) ListAll() []models.Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.subs)
}
