// Package registry keeps track of rescue teams, their position and
// availability.
package registry

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"sync"

	"github.com/kilianp07/rescue/core/model"
)

var (
	// ErrDuplicateTeam is returned when adding a team whose id is taken.
	ErrDuplicateTeam = errors.New("team already exists")
	// ErrUnknownTeam is returned for operations on a missing team.
	ErrUnknownTeam = errors.New("unknown team")
	// ErrInvalidTeam is returned for an empty team id.
	ErrInvalidTeam = errors.New("invalid team")
)

// DistanceFunc returns the travel distance between two areas. Values of
// math.MaxInt or more mean unreachable.
type DistanceFunc func(from, to string) int

// Registry stores teams in insertion order.
type Registry struct {
	mu    sync.RWMutex
	teams map[string]*model.Team
	order []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{teams: make(map[string]*model.Team)}
}

// AddTeam creates an idle team at the depot.
func (r *Registry) AddTeam(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidTeam)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTeam, id)
	}
	t := model.NewTeam(id)
	r.teams[id] = &t
	r.order = append(r.order, id)
	return nil
}

// Get returns a snapshot of the team.
func (r *Registry) Get(id string) (model.TeamSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.teams[id]
	if !ok {
		return model.TeamSnapshot{}, false
	}
	return t.Snapshot(), true
}

// Len returns the number of teams.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Teams yields team snapshots in insertion order. The sequence can be
// ranged over several times; each run observes the current state.
func (r *Registry) Teams() iter.Seq[model.TeamSnapshot] {
	return func(yield func(model.TeamSnapshot) bool) {
		for _, s := range r.snapshot() {
			if !yield(s) {
				return
			}
		}
	}
}

func (r *Registry) snapshot() []model.TeamSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.TeamSnapshot, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.teams[id].Snapshot())
	}
	return out
}

// FindIdleAtBase returns the first idle team located at the depot.
func (r *Registry) FindIdleAtBase() (model.TeamSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		t := r.teams[id]
		if t.Idle() && t.AtBase() {
			return t.Snapshot(), true
		}
	}
	return model.TeamSnapshot{}, false
}

// FindNearestIdleDeployed returns the idle team outside the depot with
// the smallest distance to target. Ties keep the earliest registered
// team. Teams that cannot reach target are never selected.
func (r *Registry) FindNearestIdleDeployed(target string, distance DistanceFunc) (model.TeamSnapshot, bool) {
	var (
		best  model.TeamSnapshot
		found bool
		min   = math.MaxInt
	)
	for _, t := range r.snapshot() {
		if t.Busy || t.Location == model.Base {
			continue
		}
		if d := distance(t.Location, target); d < min {
			best, min, found = t, d, true
		}
	}
	return best, found
}

// Relocate moves a team to location. The caller guarantees the area exists.
func (r *Registry) Relocate(id, location string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, id)
	}
	t.Location = location
	return nil
}

// SetBusy updates the availability of a team.
func (r *Registry) SetBusy(id string, busy bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, id)
	}
	t.Busy = busy
	return nil
}
