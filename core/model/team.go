package model

// Team is a rescue unit. Location always names an existing area.
type Team struct {
	ID       string
	Location string
	// Busy is reset as soon as a dispatch completes because rescues are
	// instantaneous. It is kept so callers can model longer missions.
	Busy bool
}

// TeamSnapshot is a read-only view of a team.
type TeamSnapshot struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	Busy     bool   `json:"busy"`
}

// NewTeam returns an idle team positioned at the depot.
func NewTeam(id string) Team {
	return Team{ID: id, Location: Base}
}

// Snapshot returns the reporting view of the team.
func (t Team) Snapshot() TeamSnapshot {
	return TeamSnapshot{ID: t.ID, Location: t.Location, Busy: t.Busy}
}

// Idle reports whether the team can take a new assignment.
func (t Team) Idle() bool { return !t.Busy }

// AtBase reports whether the team is at the depot.
func (t Team) AtBase() bool { return t.Location == Base }
