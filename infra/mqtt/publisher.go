package mqtt

import (
	"fmt"
	"sync"

	coremqtt "github.com/kilianp07/rescue/core/mqtt"
)

// Client mirrors the core mqtt.Client interface.
type Client = coremqtt.Client

// MockPublisher keeps orders in memory instead of sending them. Tests use
// it wherever an engine needs a publisher; FailTeams makes publishing to
// the listed teams fail.
type MockPublisher struct {
	Orders    []coremqtt.Order
	FailTeams map[string]bool
	mu        sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{FailTeams: make(map[string]bool)}
}

// SendOrder records the order or returns an error if configured to fail.
func (m *MockPublisher) SendOrder(order coremqtt.Order) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailTeams[order.TeamID] {
		return "", fmt.Errorf("publish failed for team %s", order.TeamID)
	}
	if order.CommandID == "" {
		order.CommandID = fmt.Sprintf("cmd-%s-%d", order.TeamID, len(m.Orders)+1)
	}
	m.Orders = append(m.Orders, order)
	return order.CommandID, nil
}

// Sent returns a copy of the recorded orders.
func (m *MockPublisher) Sent() []coremqtt.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]coremqtt.Order(nil), m.Orders...)
}
