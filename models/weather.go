package models

import (
	"time"
)

// CurrentConditions is the instantaneous weather snapshot for a location
type CurrentConditions struct {
	Location    string    `json:"location"`    // configured location key
	Name        string    `json:"name"`        // display name returned by the provider
	Temperature float64   `json:"temperature"` // in Celsius
	Humidity    int       `json:"humidity"`    // percentage
	WindSpeed   float64   `json:"windSpeed"`   // in m/s
	Description string    `json:"description"`
	ReportTime  time.Time `json:"reportTime"` // when the client parsed the response
}
