// Package pathfinder computes shortest routes between areas with
// Dijkstra's algorithm over non-negative travel distances.
package pathfinder

import (
	"container/heap"
	"fmt"
	"maps"
	"math"
	"slices"
)

// Unreachable is returned by ShortestDistance when no route exists.
const Unreachable = math.MaxInt

// Graph is the read access the finder needs on an area graph.
type Graph interface {
	Has(name string) bool
	NeighborsOf(name string) (map[string]int, error)
}

// Finder answers shortest route queries over a Graph. It keeps no state
// between calls, so results always reflect the current graph.
type Finder struct {
	g Graph
}

// New returns a Finder reading from g.
func New(g Graph) *Finder {
	return &Finder{g: g}
}

// Tree is the result of a single-source search: the best known distance
// to every reached area and the predecessor used to get there.
type Tree struct {
	Source string
	Dist   map[string]int
	Prev   map[string]string
}

// DistanceTo returns the distance from the source to name, or
// Unreachable.
func (t Tree) DistanceTo(name string) int {
	d, ok := t.Dist[name]
	if !ok {
		return Unreachable
	}
	return d
}

// PathTo returns the areas from the source to name inclusive, or nil
// when name was not reached.
func (t Tree) PathTo(name string) []string {
	if _, ok := t.Dist[name]; !ok {
		return nil
	}
	var path []string
	for cur := name; cur != t.Source; cur = t.Prev[cur] {
		path = append(path, cur)
	}
	path = append(path, t.Source)
	slices.Reverse(path)
	return path
}

// Tree runs Dijkstra from start and returns the full shortest path tree.
func (f *Finder) Tree(start string) (Tree, error) {
	if !f.g.Has(start) {
		return Tree{}, fmt.Errorf("unknown start area %s", start)
	}
	t := Tree{
		Source: start,
		Dist:   map[string]int{start: 0},
		Prev:   make(map[string]string),
	}
	done := make(map[string]bool)
	pq := &priorityQueue{{area: start, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if done[cur.area] || cur.dist > t.Dist[cur.area] {
			continue
		}
		done[cur.area] = true

		neighbors, err := f.g.NeighborsOf(cur.area)
		if err != nil {
			return Tree{}, err
		}
		for _, next := range slices.Sorted(maps.Keys(neighbors)) {
			if done[next] {
				continue
			}
			nd := cur.dist + neighbors[next]
			if d, ok := t.Dist[next]; !ok || nd < d {
				t.Dist[next] = nd
				t.Prev[next] = cur.area
				heap.Push(pq, pqItem{area: next, dist: nd})
			}
		}
	}
	return t, nil
}

// ShortestDistance returns the minimum total distance from start to end,
// or Unreachable if there is no route or either area is unknown.
func (f *Finder) ShortestDistance(start, end string) int {
	if !f.g.Has(end) {
		return Unreachable
	}
	t, err := f.Tree(start)
	if err != nil {
		return Unreachable
	}
	return t.DistanceTo(end)
}

// ShortestPath returns the areas on a shortest route from start to end,
// both included. It returns [start] when start == end and nil when end
// cannot be reached or either area is unknown.
func (f *Finder) ShortestPath(start, end string) []string {
	if !f.g.Has(end) {
		return nil
	}
	t, err := f.Tree(start)
	if err != nil {
		return nil
	}
	return t.PathTo(end)
}

// PathLength sums the edge distances along path. It returns false if two
// consecutive areas are not adjacent.
func (f *Finder) PathLength(path []string) (int, bool) {
	total := 0
	for i := 1; i < len(path); i++ {
		nb, err := f.g.NeighborsOf(path[i-1])
		if err != nil {
			return 0, false
		}
		w, ok := nb[path[i]]
		if !ok {
			return 0, false
		}
		total += w
	}
	return total, true
}
