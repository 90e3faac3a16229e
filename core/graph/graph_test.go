package graph

import (
	"errors"
	"slices"
	"testing"

	"github.com/kilianp07/rescue/core/model"
)

func TestNewContainsBase(t *testing.T) {
	g := New()
	if !g.Has(model.Base) {
		t.Fatalf("expected base area")
	}
	sev, err := g.SeverityOf(model.Base)
	if err != nil || sev != 0 {
		t.Fatalf("expected base severity 0 got %d (%v)", sev, err)
	}
	if g.Len() != 1 {
		t.Fatalf("expected 1 area got %d", g.Len())
	}
}

func TestAddArea(t *testing.T) {
	g := New()
	if err := g.AddArea("A", 5); err != nil {
		t.Fatalf("add: %v", err)
	}
	tests := []struct {
		name     string
		area     string
		severity int
		want     error
	}{
		{"duplicate", "A", 3, ErrDuplicateArea},
		{"duplicate base", model.Base, 0, ErrDuplicateArea},
		{"empty", "", 1, ErrInvalidArea},
		{"negative", "B", -1, ErrInvalidArea},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.AddArea(tt.area, tt.severity)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v got %v", tt.want, err)
			}
		})
	}
	sev, _ := g.SeverityOf("A")
	if sev != 5 {
		t.Fatalf("duplicate add must not overwrite, got severity %d", sev)
	}
}

func TestConnectAreasSymmetric(t *testing.T) {
	g := New()
	_ = g.AddArea("A", 1)
	if err := g.ConnectAreas(model.Base, "A", 10); err != nil {
		t.Fatalf("connect: %v", err)
	}
	nb, _ := g.NeighborsOf("A")
	nbBase, _ := g.NeighborsOf(model.Base)
	if nb[model.Base] != 10 || nbBase["A"] != 10 {
		t.Fatalf("expected symmetric edge of 10, got %v / %v", nb, nbBase)
	}

	if err := g.ConnectAreas("A", model.Base, 4); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	nb, _ = g.NeighborsOf("A")
	nbBase, _ = g.NeighborsOf(model.Base)
	if nb[model.Base] != 4 || nbBase["A"] != 4 {
		t.Fatalf("expected replaced weight 4, got %v / %v", nb, nbBase)
	}
}

func TestConnectAreasErrors(t *testing.T) {
	g := New()
	_ = g.AddArea("A", 1)
	if err := g.ConnectAreas("A", "missing", 3); !errors.Is(err, ErrUnknownArea) {
		t.Fatalf("expected ErrUnknownArea got %v", err)
	}
	if err := g.ConnectAreas("missing", "A", 3); !errors.Is(err, ErrUnknownArea) {
		t.Fatalf("expected ErrUnknownArea got %v", err)
	}
	if err := g.ConnectAreas("A", model.Base, 0); !errors.Is(err, ErrInvalidWeight) {
		t.Fatalf("expected ErrInvalidWeight got %v", err)
	}
	if err := g.ConnectAreas("A", "A", 2); !errors.Is(err, ErrSelfLoop) {
		t.Fatalf("expected ErrSelfLoop got %v", err)
	}
	nb, _ := g.NeighborsOf("A")
	if len(nb) != 0 {
		t.Fatalf("failed connects must not add edges: %v", nb)
	}
}

func TestNeighborsOfReturnsCopy(t *testing.T) {
	g := New()
	_ = g.AddArea("A", 1)
	_ = g.ConnectAreas(model.Base, "A", 2)
	nb, _ := g.NeighborsOf("A")
	nb[model.Base] = 99
	again, _ := g.NeighborsOf("A")
	if again[model.Base] != 2 {
		t.Fatalf("caller mutation leaked into graph")
	}
	if _, err := g.NeighborsOf("nope"); !errors.Is(err, ErrUnknownArea) {
		t.Fatalf("expected ErrUnknownArea got %v", err)
	}
}

func TestSetSeverity(t *testing.T) {
	g := New()
	_ = g.AddArea("A", 7)
	if err := g.SetSeverity("A", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if sev, _ := g.SeverityOf("A"); sev != 0 {
		t.Fatalf("expected 0 got %d", sev)
	}
	if err := g.SetSeverity(model.Base, 3); !errors.Is(err, ErrBaseSeverity) {
		t.Fatalf("expected ErrBaseSeverity got %v", err)
	}
	if err := g.SetSeverity(model.Base, 0); err != nil {
		t.Fatalf("base reset to 0 should pass: %v", err)
	}
	if err := g.SetSeverity("nope", 1); !errors.Is(err, ErrUnknownArea) {
		t.Fatalf("expected ErrUnknownArea got %v", err)
	}
	if _, err := g.SeverityOf("nope"); !errors.Is(err, ErrUnknownArea) {
		t.Fatalf("expected ErrUnknownArea got %v", err)
	}
}

func TestAreasInsertionOrderAndRestartable(t *testing.T) {
	g := New()
	_ = g.AddArea("Z", 1)
	_ = g.AddArea("A", 2)
	var names []string
	for a := range g.Areas() {
		names = append(names, a.Name)
	}
	want := []string{model.Base, "Z", "A"}
	if !slices.Equal(names, want) {
		t.Fatalf("expected %v got %v", want, names)
	}
	seq := g.Areas()
	first := slices.Collect(seq)
	_ = g.SetSeverity("Z", 0)
	second := slices.Collect(seq)
	if len(first) != 3 || len(second) != 3 || second[1].Severity != 0 {
		t.Fatalf("sequence should restart with current state: %v / %v", first, second)
	}
}

func TestEdgesListedOnce(t *testing.T) {
	g := New()
	_ = g.AddArea("A", 1)
	_ = g.AddArea("B", 1)
	_ = g.ConnectAreas(model.Base, "A", 10)
	_ = g.ConnectAreas("B", "A", 5)
	edges := g.Edges()
	want := []model.Edge{{From: model.Base, To: "A", Distance: 10}, {From: "A", To: "B", Distance: 5}}
	if !slices.Equal(edges, want) {
		t.Fatalf("expected %v got %v", want, edges)
	}
}
