package registry

import (
	"sync"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

const DefaultMaxClients = 10

// Registry is a bounded list of connected clients. A registration past the
// bound is dropped: the connection is still served but never reported.
type Registry struct {
	mu      sync.Mutex
	max     int
	clients []domain.ClientRecord
}

func New(maxClients int) *Registry {
	if maxClients <= 0 {
		maxClients = DefaultMaxClients
	}
	return &Registry{max: maxClients, clients: make([]domain.ClientRecord, 0, maxClients)}
}

// Register adds rec and reports whether it is visible.
func (r *Registry) Register(rec domain.ClientRecord) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.clients) >= r.max {
		return false
	}
	r.clients = append(r.clients, rec)
	return true
}

func (r *Registry) IncrementRequests(id int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.clients {
		if r.clients[i].ID == id {
			r.clients[i].RequestCount++
			return
		}
	}
}

// Remove deletes the record for id. The last record takes its slot, so
// order is not stable across removals.
func (r *Registry) Remove(id int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.clients {
		if r.clients[i].ID == id {
			last := len(r.clients) - 1
			r.clients[i] = r.clients[last]
			r.clients = r.clients[:last]
			return
		}
	}
}

func (r *Registry) Snapshot() []domain.ClientRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ClientRecord, len(r.clients))
	copy(out, r.clients)
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}
