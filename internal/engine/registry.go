package engine

import (
	"sync"

	"github.com/google/uuid"
)

// registry tracks every active voice for global fade-out and cleanup.
// Add, remove and dispose may race between the render path and an explicit
// stop, so all access is mutex-guarded. Removal is idempotent.
type registry struct {
	mu     sync.Mutex
	voices map[uuid.UUID]*voice
}

func newRegistry() *registry {
	return &registry{voices: make(map[uuid.UUID]*voice)}
}

func (r *registry) add(v *voice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.voices[v.id] = v
}

// remove disposes a voice. The second call for the same id is a no-op.
func (r *registry) remove(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.voices[id]; !ok {
		return false
	}
	delete(r.voices, id)
	return true
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.voices)
}

// each calls f for every registered voice while holding the registry lock;
// f must not call back into the registry.
func (r *registry) each(f func(*voice)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.voices {
		f(v)
	}
}
