package datasource

import (
	"context"

	"weather-dashboard/models"
)

// WeatherProvider is an interface for services that can fetch current weather data
type WeatherProvider interface {
	// GetWeather fetches current conditions for a location
	GetWeather(ctx context.Context, location string) (models.CurrentConditions, error)

	// Name returns the provider's name
	Name() string
}

// ForecastSource is an interface for services that can fetch 3-hour forecasts
type ForecastSource interface {
	// FetchForecast fetches the full forecast list for a location
	FetchForecast(ctx context.Context, location string) (models.ForecastData, error)

	// Name returns the source's name
	Name() string
}
