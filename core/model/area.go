package model

// Base is the name of the depot area. Every graph contains it and every
// team starts there.
const Base = "base"

// Area is a named location with a rescue severity and weighted links to
// neighbouring areas. A severity of 0 means the area needs no rescue.
type Area struct {
	Name      string
	Severity  int
	Neighbors map[string]int // neighbour name -> travel distance
}

// AreaSnapshot is a read-only view of an area used for reporting.
type AreaSnapshot struct {
	Name     string `json:"name" yaml:"name"`
	Severity int    `json:"severity" yaml:"severity"`
}

// Snapshot returns the reporting view of the area.
func (a Area) Snapshot() AreaSnapshot {
	return AreaSnapshot{Name: a.Name, Severity: a.Severity}
}

// NeedsRescue reports whether the area still has a positive severity.
func (a Area) NeedsRescue() bool { return a.Severity > 0 }

// Edge is an undirected connection between two areas.
type Edge struct {
	From     string `json:"from" yaml:"from"`
	To       string `json:"to" yaml:"to"`
	Distance int    `json:"distance" yaml:"distance"`
}
