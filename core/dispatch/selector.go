package dispatch

import (
	"github.com/kilianp07/rescue/core/model"
	"github.com/kilianp07/rescue/core/pathfinder"
	"github.com/kilianp07/rescue/core/registry"
)

// Selector chooses the team sent to a zone.
type Selector interface {
	Select(zone string) (model.TeamSnapshot, bool)
}

// BaseFirstSelector prefers the first idle team waiting at the depot and
// otherwise the idle deployed team closest to the zone.
type BaseFirstSelector struct {
	Teams  *registry.Registry
	Finder *pathfinder.Finder
}

// NewBaseFirstSelector returns the default selection policy.
func NewBaseFirstSelector(reg *registry.Registry, f *pathfinder.Finder) *BaseFirstSelector {
	return &BaseFirstSelector{Teams: reg, Finder: f}
}

// Select implements Selector.
func (s *BaseFirstSelector) Select(zone string) (model.TeamSnapshot, bool) {
	if t, ok := s.Teams.FindIdleAtBase(); ok {
		return t, true
	}
	// Edges are symmetric, so one search from the zone gives the
	// distance from every candidate.
	tree, err := s.Finder.Tree(zone)
	if err != nil {
		return model.TeamSnapshot{}, false
	}
	return s.Teams.FindNearestIdleDeployed(zone, func(from, _ string) int {
		return tree.DistanceTo(from)
	})
}
