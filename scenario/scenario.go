// Package scenario loads disaster scenarios from YAML and applies them to
// an area graph and a team registry.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/rescue/core/graph"
	"github.com/kilianp07/rescue/core/model"
	"github.com/kilianp07/rescue/core/registry"
)

// Expected describes the outcome of one dispatch pass over the scenario.
// It is optional and only read by tests and the dispatch command.
type Expected struct {
	Dispatched  int      `yaml:"dispatched"`
	Unassigned  int      `yaml:"unassigned"`
	Unavailable int      `yaml:"unavailable"`
	Order       []string `yaml:"order,omitempty"`
}

// Check compares the outcomes of a pass against the expectation and
// reports every mismatch.
func (e Expected) Check(outcomes []model.Outcome) error {
	var got [3]int
	order := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		switch o.Kind {
		case model.OutcomeDispatched:
			got[0]++
		case model.OutcomeUnassigned:
			got[1]++
		case model.OutcomeRouteUnavailable:
			got[2]++
		}
		order = append(order, o.Zone)
	}
	var errs []error
	for i, want := range [3]int{e.Dispatched, e.Unassigned, e.Unavailable} {
		if got[i] != want {
			errs = append(errs, fmt.Errorf("%s: got %d, want %d", checkLabels[i], got[i], want))
		}
	}
	if len(e.Order) > 0 && !slices.Equal(order, e.Order) {
		errs = append(errs, fmt.Errorf("order: got %v, want %v", order, e.Order))
	}
	return errors.Join(errs...)
}

var checkLabels = [3]string{"dispatched", "unassigned", "unavailable"}

// AreaDef declares an area and its initial severity.
type AreaDef = model.AreaSnapshot

// EdgeDef declares a road between two areas.
type EdgeDef = model.Edge

// Scenario is a disaster setup: areas with their severity, the roads
// between them and the teams waiting at the depot.
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Areas       []AreaDef `yaml:"areas"`
	Edges       []EdgeDef `yaml:"edges"`
	Teams       []string  `yaml:"teams"`
	Expected    *Expected `yaml:"expected,omitempty"`
}

// Load reads and parses the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a YAML scenario. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty scenario")
		}
		return nil, err
	}
	return &sc, nil
}

// Apply adds the areas, edges and teams in file order and stops at the
// first error. The depot exists in every graph and must not be listed.
func (s *Scenario) Apply(g *graph.AreaGraph, reg *registry.Registry) error {
	for _, a := range s.Areas {
		if err := g.AddArea(a.Name, a.Severity); err != nil {
			return fmt.Errorf("area %q: %w", a.Name, err)
		}
	}
	for _, e := range s.Edges {
		if err := g.ConnectAreas(e.From, e.To, e.Distance); err != nil {
			return fmt.Errorf("edge %s-%s: %w", e.From, e.To, err)
		}
	}
	for _, id := range s.Teams {
		if err := reg.AddTeam(id); err != nil {
			return fmt.Errorf("team %q: %w", id, err)
		}
	}
	return nil
}

// Build returns a fresh graph and registry populated from the scenario.
func (s *Scenario) Build() (*graph.AreaGraph, *registry.Registry, error) {
	g := graph.New()
	reg := registry.New()
	if err := s.Apply(g, reg); err != nil {
		return nil, nil, err
	}
	return g, reg, nil
}
