package models

import (
	"time"
)

// ForecastEntry is a single 3-hour forecast slot
type ForecastEntry struct {
	Timestamp   time.Time `json:"timestamp"`   // time this forecast is for
	Text        string    `json:"text"`        // provider's dt_txt, UTC
	Temperature float64   `json:"temperature"` // in Celsius
	Humidity    int       `json:"humidity"`    // percentage
	WindSpeed   float64   `json:"windSpeed"`   // in m/s
	Description string    `json:"description"` // short text description
	Icon        string    `json:"icon"`        // provider icon code
}

// ForecastData is a forecast response as received from the provider
type ForecastData struct {
	Location string          `json:"location"` // configured location key
	City     string          `json:"city"`     // city name reported by the provider
	Entries  []ForecastEntry `json:"entries"`
}

// Head returns at most n entries from the start of the forecast, in order
func (f ForecastData) Head(n int) []ForecastEntry {
	if n < 0 {
		n = 0
	}
	if n > len(f.Entries) {
		n = len(f.Entries)
	}
	out := make([]ForecastEntry, n)
	copy(out, f.Entries[:n])
	return out
}
