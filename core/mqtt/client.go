// Package mqtt defines how dispatch orders leave the engine. The Paho
// based implementation lives in infra/mqtt.
package mqtt

import "time"

// Order tells a team where to go and which route to follow.
type Order struct {
	CommandID string   `json:"command_id"`
	PassID    string   `json:"pass_id"`
	TeamID    string   `json:"team_id"`
	Zone      string   `json:"zone"`
	Severity  int      `json:"severity"`
	Path      []string `json:"path"`
	Distance  int      `json:"distance"`
	Timestamp int64    `json:"timestamp"`
}

// NewOrder stamps an order with the current time in milliseconds.
func NewOrder(passID, teamID, zone string, severity int, path []string, distance int) Order {
	return Order{
		PassID:    passID,
		TeamID:    teamID,
		Zone:      zone,
		Severity:  severity,
		Path:      path,
		Distance:  distance,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Client publishes orders to teams.
type Client interface {
	// SendOrder publishes the order and returns the command identifier
	// assigned to it.
	SendOrder(order Order) (commandID string, err error)
}
