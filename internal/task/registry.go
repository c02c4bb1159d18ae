package task

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultRegistryTTL is how long a finished generation stays pollable.
const DefaultRegistryTTL = 30 * time.Minute

// Registry keeps generation tasks addressable by id until they expire.
type Registry struct {
	cache *gocache.Cache
}

// NewRegistry creates a registry whose entries expire after ttl.
// A non-positive ttl selects DefaultRegistryTTL.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultRegistryTTL
	}
	return &Registry{cache: gocache.New(ttl, ttl/2)}
}

// Put stores t under its id, replacing any previous entry.
func (r *Registry) Put(t *GenerationTask) {
	r.cache.SetDefault(t.ID().String(), t)
}

// Get returns the task with the given id.
func (r *Registry) Get(id uuid.UUID) (*GenerationTask, bool) {
	v, ok := r.cache.Get(id.String())
	if !ok {
		return nil, false
	}
	t, ok := v.(*GenerationTask)
	return t, ok
}

// Len reports how many tasks are currently registered, expired ones included
// until the janitor runs.
func (r *Registry) Len() int {
	return r.cache.ItemCount()
}
