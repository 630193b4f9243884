package dashboard

import (
	"testing"
	"time"

	"weather-dashboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conditions(location string, temp float64) models.CurrentConditions {
	return models.CurrentConditions{
		Location:    location,
		Name:        location,
		Temperature: temp,
		Humidity:    60,
		WindSpeed:   3,
		Description: "clear sky",
		ReportTime:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func entries(n int) []models.ForecastEntry {
	out := make([]models.ForecastEntry, n)
	for i := range out {
		out[i] = models.ForecastEntry{
			Timestamp:   time.Unix(int64(1700000000+i*10800), 0),
			Temperature: float64(20 + i),
		}
	}
	return out
}

func TestReduce_ToggleSelection(t *testing.T) {
	s := NewState()

	s = Reduce(s, SelectionToggled{Location: "Kayathar"})
	assert.Equal(t, "Kayathar", s.Selected)
	assert.True(t, s.IsSelected("Kayathar"))

	s = Reduce(s, SelectionToggled{Location: "Kayathar"})
	assert.Equal(t, "", s.Selected)
	assert.False(t, s.IsSelected("Kayathar"))
}

func TestReduce_ToggleOtherLocationSwitches(t *testing.T) {
	s := Reduce(NewState(), SelectionToggled{Location: "Kayathar"})
	s = Reduce(s, SelectionToggled{Location: "Coimbatore"})
	assert.Equal(t, "Coimbatore", s.Selected)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := NewState()
	before = Reduce(before, CurrentFetched{Conditions: conditions("Kayathar", 30.5)})
	before = Reduce(before, ForecastFetched{Location: "Kayathar", Entries: entries(2)})

	after := Reduce(before, CurrentFetched{Conditions: conditions("Tirunelveli", 31)})
	after = Reduce(after, ForecastFetched{Location: "Tirunelveli", Entries: entries(3)})
	after = Reduce(after, SelectionToggled{Location: "Tirunelveli"})
	after = Reduce(after, CycleFailed{Message: "boom"})

	assert.Len(t, before.Current, 1)
	assert.Len(t, before.Forecasts, 1)
	assert.Equal(t, []string{"Kayathar"}, before.Order)
	assert.Equal(t, "", before.Selected)
	assert.Equal(t, "", before.Err)

	assert.Len(t, after.Current, 2)
	assert.Equal(t, []string{"Kayathar", "Tirunelveli"}, after.Order)
}

func TestReduce_ForecastEntriesAreCopied(t *testing.T) {
	in := entries(2)
	s := Reduce(NewState(), ForecastFetched{Location: "Kayathar", Entries: in})

	in[0].Temperature = -100
	assert.Equal(t, 20.0, s.Forecasts["Kayathar"][0].Temperature)
}

func TestReduce_CurrentOverwriteKeepsOrder(t *testing.T) {
	s := Reduce(NewState(), CurrentFetched{Conditions: conditions("Kayathar", 30)})
	s = Reduce(s, CurrentFetched{Conditions: conditions("Coimbatore", 25)})
	s = Reduce(s, CurrentFetched{Conditions: conditions("Kayathar", 32)})

	assert.Equal(t, []string{"Kayathar", "Coimbatore"}, s.Order)
	assert.Equal(t, 32.0, s.Current["Kayathar"].Temperature)
}

func TestReduce_CycleLifecycle(t *testing.T) {
	s := Reduce(NewState(), CycleStarted{ID: "abc"})
	assert.Equal(t, StatusRunning, s.Cycle)
	assert.Equal(t, "abc", s.CycleID)

	s = Reduce(s, CycleFailed{Message: "API returned non-success status: 404"})
	assert.Equal(t, StatusFailed, s.Cycle)
	assert.Equal(t, "API returned non-success status: 404", s.Err)

	// A later successful cycle clears the error
	s = Reduce(s, CycleCompleted{})
	assert.Equal(t, StatusDone, s.Cycle)
	assert.Empty(t, s.Err)
}

func TestDetail(t *testing.T) {
	full := Reduce(NewState(), CurrentFetched{Conditions: conditions("Kayathar", 30.5)})
	full = Reduce(full, ForecastFetched{Location: "Kayathar", Entries: entries(5)})

	testCases := []struct {
		name     string
		state    State
		wantOK   bool
		wantRows int
	}{
		{"nothing selected", full, false, 0},
		{"selected with data", Reduce(full, SelectionToggled{Location: "Kayathar"}), true, 5},
		{"selected unknown location", Reduce(full, SelectionToggled{Location: "Madurai"}), false, 0},
		{
			"selected without forecast yet",
			Reduce(Reduce(NewState(), CurrentFetched{Conditions: conditions("Kayathar", 30.5)}), SelectionToggled{Location: "Kayathar"}),
			false, 0,
		},
		{
			"forecast without current conditions",
			Reduce(Reduce(NewState(), ForecastFetched{Location: "Kayathar", Entries: entries(1)}), SelectionToggled{Location: "Kayathar"}),
			false, 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rows, ok := tc.state.Detail()
			require.Equal(t, tc.wantOK, ok)
			assert.Len(t, rows, tc.wantRows)
		})
	}
}
