package season

import (
	"errors"
	"fmt"
	"sync"
)

// Registry maps league ids to their orchestrators for concurrent lookup.
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]*Orchestrator
	order []string
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Orchestrator)}
}

// Register adds o under its league id.
func (r *Registry) Register(o *Orchestrator) error {
	id := o.League().ID
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("register league %s: already registered", id)
	}
	r.byID[id] = o
	r.order = append(r.order, id)
	return nil
}

func (r *Registry) Get(leagueID string) (*Orchestrator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.byID[leagueID]
	return o, ok
}

// All returns the orchestrators in registration order.
func (r *Registry) All() []*Orchestrator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Orchestrator, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// FindMatch searches every league's current season for a match.
func (r *Registry) FindMatch(matchID string) (MatchRecord, *Orchestrator, bool) {
	for _, o := range r.All() {
		if m, ok := o.Match(matchID); ok {
			return m, o, true
		}
	}
	return MatchRecord{}, nil, false
}

// StartAll starts every league. A league that fails to start is reported
// in the joined error; the others still run.
func (r *Registry) StartAll() error {
	var errs []error
	for _, o := range r.All() {
		if err := o.Start(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) StopAll() {
	for _, o := range r.All() {
		o.Stop()
	}
}
