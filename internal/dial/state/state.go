// Package state holds the application lifecycle state machine and the
// cache that is the sole authority for whether a state transition has
// actually happened on the platform.
package state

import "fmt"

// AppState is the lifecycle state of a launched application instance.
type AppState int

const (
	// Starting is set the moment a launch command is accepted, before
	// the platform confirms the app is actually running.
	Starting AppState = iota
	Running
	Hide
	Stopped
	Error
)

// String renders the DIAL canonical (lowercase) spelling used in XML
// responses, per the wire format in spec.md §4.9.
func (s AppState) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Hide:
		return "hidden"
	case Stopped:
		return "stopped"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// validTransitions enumerates the state changes a platform notification
// may legitimately report. It is informational only — AppStateCache does
// not reject an out-of-order update (the platform, not this core, is
// authoritative for what actually happened), and no handler consults it;
// it documents which states are reachable from which.
var validTransitions = map[AppState][]AppState{
	Starting: {Running, Error, Stopped},
	Running:  {Hide, Stopped, Error},
	Hide:     {Running, Stopped, Error},
	Stopped:  {Starting},
	Error:    {Starting, Stopped},
}

// CanTransitionTo reports whether next is a reachable state from s.
func (s AppState) CanTransitionTo(next AppState) bool {
	for _, candidate := range validTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsActive reports whether the app is RUNNING or HIDE — the two states
// the HIDE and STOP handlers require before acting; any other state
// answers 404 (spec.md §4.7).
func (s AppState) IsActive() bool {
	return s == Running || s == Hide
}
