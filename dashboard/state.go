// Package dashboard holds the dashboard's UI state and the controller that
// fills it from the weather provider.
//
// State is an immutable snapshot. Every change goes through Reduce, which
// returns a new snapshot and leaves the old one untouched, so a snapshot can
// be handed to any number of readers without copying.
package dashboard

import (
	"weather-dashboard/models"
)

// CycleStatus describes where the one-time fetch cycle is
type CycleStatus string

const (
	StatusIdle    CycleStatus = "idle"
	StatusRunning CycleStatus = "running"
	StatusDone    CycleStatus = "done"
	StatusFailed  CycleStatus = "failed"
)

// State is a snapshot of everything the dashboard renders
type State struct {
	Current   map[string]models.CurrentConditions `json:"current"`
	Forecasts map[string][]models.ForecastEntry  `json:"forecasts"`

	// Order lists locations with current conditions, in the order they arrived
	Order []string `json:"order"`

	// Selected is the highlighted location, "" for none
	Selected string `json:"selected,omitempty"`

	Err     string      `json:"error,omitempty"`
	Cycle   CycleStatus `json:"cycle"`
	CycleID string      `json:"cycleId,omitempty"`
}

// NewState returns the empty initial snapshot
func NewState() State {
	return State{
		Current:   map[string]models.CurrentConditions{},
		Forecasts: map[string][]models.ForecastEntry{},
		Order:     []string{},
		Cycle:     StatusIdle,
	}
}

// IsSelected reports whether location is the active selection
func (s State) IsSelected(location string) bool {
	return s.Selected != "" && s.Selected == location
}

// Detail returns the forecast for the selected location. ok is false when
// nothing is selected or the selection is missing from either mapping, in
// which case no detail panel is shown.
func (s State) Detail() (entries []models.ForecastEntry, ok bool) {
	if s.Selected == "" {
		return nil, false
	}
	if _, exists := s.Current[s.Selected]; !exists {
		return nil, false
	}
	entries, ok = s.Forecasts[s.Selected]
	return entries, ok
}

// Event is anything Reduce knows how to apply
type Event interface {
	isEvent()
}

// CycleStarted marks the beginning of the fetch cycle
type CycleStarted struct {
	ID string
}

// CurrentFetched carries one location's current conditions
type CurrentFetched struct {
	Conditions models.CurrentConditions
}

// ForecastFetched carries one location's (already trimmed) forecast
type ForecastFetched struct {
	Location string
	Entries  []models.ForecastEntry
}

// CycleFailed stops the cycle with a user-visible message
type CycleFailed struct {
	Message string
}

// CycleCompleted marks a fully successful cycle
type CycleCompleted struct{}

// SelectionToggled selects a location, or clears it if already selected
type SelectionToggled struct {
	Location string
}

func (CycleStarted) isEvent()     {}
func (CurrentFetched) isEvent()   {}
func (ForecastFetched) isEvent()  {}
func (CycleFailed) isEvent()      {}
func (CycleCompleted) isEvent()   {}
func (SelectionToggled) isEvent() {}

// Reduce applies ev to s and returns the resulting snapshot.
// s is never modified.
func Reduce(s State, ev Event) State {
	next := s

	switch e := ev.(type) {
	case CycleStarted:
		next.Cycle = StatusRunning
		next.CycleID = e.ID

	case CurrentFetched:
		key := e.Conditions.Location
		next.Current = cloneMap(s.Current)
		next.Current[key] = e.Conditions
		if _, seen := s.Current[key]; !seen {
			next.Order = append(append(make([]string, 0, len(s.Order)+1), s.Order...), key)
		}

	case ForecastFetched:
		next.Forecasts = cloneMap(s.Forecasts)
		next.Forecasts[e.Location] = append([]models.ForecastEntry(nil), e.Entries...)

	case CycleFailed:
		next.Cycle = StatusFailed
		next.Err = e.Message

	case CycleCompleted:
		next.Cycle = StatusDone
		next.Err = ""

	case SelectionToggled:
		if s.Selected == e.Location {
			next.Selected = ""
		} else {
			next.Selected = e.Location
		}
	}

	return next
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
