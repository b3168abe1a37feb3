package tui

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Refresh machine states and events
const (
	refreshIdle    = "idle"
	refreshRunning = "refreshing"

	eventRefresh = "REFRESH"
	eventLoaded  = "LOADED"
)

type refreshContext struct {
	Scans int
}

// refresher tracks whether an inventory scan is running. Requests made while
// a scan runs collapse into a single follow-up scan.
type refresher struct {
	interp  *statekit.Interpreter[refreshContext]
	scans   int
	pending bool
}

func newRefresher() (*refresher, error) {
	r := &refresher{}
	machine, err := statekit.NewMachine[refreshContext]("inventory-refresh").
		WithInitial(refreshIdle).
		WithContext(refreshContext{}).
		WithAction("countScan", func(_ *refreshContext, _ statekit.Event) {
			r.scans++
		}).
		State(refreshIdle).
		On(eventRefresh).Target(refreshRunning).Done().
		State(refreshRunning).
		OnEntry("countScan").
		On(eventLoaded).Target(refreshIdle).Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("building refresh machine: %w", err)
	}

	r.interp = statekit.NewInterpreter(machine)
	r.interp.Start()
	return r, nil
}

// Running reports whether a scan is in flight
func (r *refresher) Running() bool {
	return string(r.interp.State().Value) == refreshRunning
}

// Scans returns how many scans have been started
func (r *refresher) Scans() int {
	return r.scans
}

// Request returns true when a scan should start now.
func (r *refresher) Request() bool {
	if r.Running() {
		r.pending = true
		return false
	}
	r.interp.Send(statekit.Event{Type: eventRefresh})
	return true
}

// Done marks the running scan finished and returns true when a follow-up scan
// should start.
func (r *refresher) Done() bool {
	r.interp.Send(statekit.Event{Type: eventLoaded})
	if !r.pending {
		return false
	}
	r.pending = false
	r.interp.Send(statekit.Event{Type: eventRefresh})
	return true
}
