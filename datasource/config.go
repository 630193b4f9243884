package datasource

import (
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the OpenWeatherMap 2.5 API root
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	// DefaultForecastLimit is how many 3-hour slots are kept per location
	DefaultForecastLimit = 5

	defaultTimeoutSeconds = 10
)

// Config represents the application configuration
type Config struct {
	OpenWeatherMap struct {
		APIKey         string `json:"apiKey"`
		BaseURL        string `json:"baseURL"`
		TimeoutSeconds int    `json:"timeoutSeconds"`
	} `json:"openWeatherMap"`

	// Locations are fetched in this order
	Locations []string `json:"locations"`

	ForecastLimit int `json:"forecastLimit"`
}

// LoadConfig loads configuration from a JSON file on top of the defaults
func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	config := &Config{}
	config.OpenWeatherMap.BaseURL = DefaultBaseURL
	config.OpenWeatherMap.TimeoutSeconds = defaultTimeoutSeconds
	config.Locations = []string{"Kayathar", "Tirunelveli", "Coimbatore"}
	config.ForecastLimit = DefaultForecastLimit
	return config
}

// ApplyEnv overrides fields from environment variables. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("OPENWEATHERMAP_API_KEY"); v != "" {
		c.OpenWeatherMap.APIKey = v
	}
	if v := getenv("OPENWEATHERMAP_BASE_URL"); v != "" {
		c.OpenWeatherMap.BaseURL = strings.TrimRight(v, "/")
	}
	if v := getenv("OPENWEATHERMAP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.OpenWeatherMap.TimeoutSeconds = n
		}
	}
	if v := getenv("DASHBOARD_LOCATIONS"); v != "" {
		var locations []string
		for _, loc := range strings.Split(v, ",") {
			if loc = strings.TrimSpace(loc); loc != "" {
				locations = append(locations, loc)
			}
		}
		c.Locations = locations
	}
}

// Timeout returns the HTTP client timeout for provider requests
func (c *Config) Timeout() time.Duration {
	if c.OpenWeatherMap.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.OpenWeatherMap.TimeoutSeconds) * time.Second
}

// Validate reports the first configuration problem found
func (c *Config) Validate() error {
	if c.OpenWeatherMap.APIKey == "" {
		return errors.New("no OpenWeatherMap API key provided")
	}
	if len(c.Locations) == 0 {
		return errors.New("no locations configured")
	}
	seen := make(map[string]bool, len(c.Locations))
	for _, loc := range c.Locations {
		if strings.TrimSpace(loc) == "" {
			return errors.New("empty location name")
		}
		if seen[loc] {
			return errors.New("duplicate location: " + loc)
		}
		seen[loc] = true
	}
	if c.ForecastLimit <= 0 {
		return errors.New("forecastLimit must be positive")
	}
	return nil
}
