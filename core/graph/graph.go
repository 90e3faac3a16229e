// Package graph holds the areas of an operation theatre and the travel
// distances between them.
package graph

import (
	"fmt"
	"iter"
	"sync"

	"github.com/kilianp07/rescue/core/model"
)

// AreaGraph is an undirected weighted graph of areas. It always contains
// the depot area model.Base.
type AreaGraph struct {
	mu    sync.RWMutex
	areas map[string]*model.Area
	order []string
}

// New returns a graph containing only the depot.
func New() *AreaGraph {
	g := &AreaGraph{areas: make(map[string]*model.Area)}
	g.insert(model.Base, 0)
	return g
}

func (g *AreaGraph) insert(name string, severity int) {
	g.areas[name] = &model.Area{Name: name, Severity: severity, Neighbors: make(map[string]int)}
	g.order = append(g.order, name)
}

// AddArea registers a new area. Existing areas are never overwritten.
func (g *AreaGraph) AddArea(name string, severity int) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidArea)
	}
	if severity < 0 {
		return fmt.Errorf("%w: negative severity %d for %s", ErrInvalidArea, severity, name)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.areas[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateArea, name)
	}
	g.insert(name, severity)
	return nil
}

// ConnectAreas links a and b in both directions. Connecting an already
// linked pair replaces the previous distance.
func (g *AreaGraph) ConnectAreas(a, b string, distance int) error {
	if distance <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWeight, distance)
	}
	if a == b {
		return fmt.Errorf("%w: %s", ErrSelfLoop, a)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	from, ok := g.areas[a]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownArea, a)
	}
	to, ok := g.areas[b]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownArea, b)
	}
	from.Neighbors[b] = distance
	to.Neighbors[a] = distance
	return nil
}

// NeighborsOf returns a copy of the adjacency of name.
func (g *AreaGraph) NeighborsOf(name string) (map[string]int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	a, ok := g.areas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownArea, name)
	}
	out := make(map[string]int, len(a.Neighbors))
	for n, w := range a.Neighbors {
		out[n] = w
	}
	return out, nil
}

// SeverityOf returns the current severity of name.
func (g *AreaGraph) SeverityOf(name string) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	a, ok := g.areas[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownArea, name)
	}
	return a.Severity, nil
}

// SetSeverity updates the severity of name. The depot only accepts 0.
func (g *AreaGraph) SetSeverity(name string, severity int) error {
	if severity < 0 {
		return fmt.Errorf("%w: negative severity %d for %s", ErrInvalidArea, severity, name)
	}
	if name == model.Base && severity != 0 {
		return ErrBaseSeverity
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	a, ok := g.areas[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownArea, name)
	}
	a.Severity = severity
	return nil
}

// Has reports whether the area exists.
func (g *AreaGraph) Has(name string) bool {
	g.mu.RLock()
	_, ok := g.areas[name]
	g.mu.RUnlock()
	return ok
}

// Len returns the number of areas, depot included.
func (g *AreaGraph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// Areas yields area snapshots in insertion order. The sequence can be
// ranged over several times; each run observes the current state.
func (g *AreaGraph) Areas() iter.Seq[model.AreaSnapshot] {
	return func(yield func(model.AreaSnapshot) bool) {
		g.mu.RLock()
		snaps := make([]model.AreaSnapshot, 0, len(g.order))
		for _, name := range g.order {
			snaps = append(snaps, g.areas[name].Snapshot())
		}
		g.mu.RUnlock()
		for _, s := range snaps {
			if !yield(s) {
				return
			}
		}
	}
}

// Edges lists every undirected edge once, ordered by the insertion order
// of the first endpoint and then by the neighbour's insertion order.
func (g *AreaGraph) Edges() []model.Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	pos := make(map[string]int, len(g.order))
	for i, name := range g.order {
		pos[name] = i
	}
	var edges []model.Edge
	for _, name := range g.order {
		a := g.areas[name]
		for _, other := range g.order {
			w, ok := a.Neighbors[other]
			if !ok || pos[other] < pos[name] {
				continue
			}
			edges = append(edges, model.Edge{From: name, To: other, Distance: w})
		}
	}
	return edges
}
