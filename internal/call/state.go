package call

import (
	"fmt"
	"slices"
	"sync"

	"github.com/cosmoschat/cosmoschat/internal/bus"
)

// State represents a call lifecycle state.
type State string

const (
	// Idle means no call is in progress.
	Idle State = "IDLE"
	// Requesting means media access has been requested but not granted.
	Requesting State = "REQUESTING"
	// Active means local media is live and the elapsed counter is running.
	Active State = "ACTIVE"
)

// validTransitions defines allowed state transitions. Requesting falls
// back to Idle when media access is denied.
var validTransitions = map[State][]State{
	Idle:       {Requesting},
	Requesting: {Active, Idle},
	Active:     {Idle},
}

// machine tracks and enforces call state transitions.
type machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

func newMachine(b *bus.Bus) *machine {
	return &machine{current: Idle, bus: b}
}

// Current returns the current state.
func (m *machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns an error if the
// transition is invalid.
func (m *machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid call transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind:    bus.KindCallStateChange,
			Payload: StateChange{From: from, To: to},
		})
	}
	return nil
}

// StateChange is the payload for call.state_changed events.
type StateChange struct {
	From State
	To   State
}
