package kiss

import (
	"fmt"

	"github.com/danmuck/kissctl/internal/logging"
	"github.com/danmuck/kissctl/internal/observability"
)

// State is one point in the attach sequence.
type State int

const (
	StateIdle State = iota
	StateDeviceOpen
	StateSpeedApplied
	StateLineDisciplineSet
	StateInterfaceNamed
	StateHwAddressSet
	StateEncapsulationSet
	StateUp
	StateFailed
)

var stateNames = [...]string{
	StateIdle:              "idle",
	StateDeviceOpen:        "device_open",
	StateSpeedApplied:      "speed_applied",
	StateLineDisciplineSet: "line_discipline_set",
	StateInterfaceNamed:    "interface_named",
	StateHwAddressSet:      "hw_address_set",
	StateEncapsulationSet:  "encapsulation_set",
	StateUp:                "up",
	StateFailed:            "failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateUp || s == StateFailed
}

// machine records forward-only progress for one attach attempt.
type machine struct {
	device string
	state  State
	trail  []State
}

func newMachine(device string) *machine {
	return &machine{device: device, state: StateIdle, trail: []State{StateIdle}}
}

func (m *machine) advance(next State) {
	if m.state.Terminal() || next <= m.state || next == StateFailed {
		panic(fmt.Sprintf("kiss: illegal transition %s -> %s", m.state, next))
	}
	logging.Debugf("kiss.machine.advance device=%q %s -> %s", m.device, m.state, next)
	observability.RecordAttachStep(next.String(), true)
	m.state = next
	m.trail = append(m.trail, next)
}

// fail moves to Failed and returns the StepError naming the last good state.
func (m *machine) fail(err error) error {
	last := m.state
	observability.RecordAttachStep(last.String(), false)
	m.state = StateFailed
	m.trail = append(m.trail, StateFailed)
	return &StepError{State: last, Err: err}
}
