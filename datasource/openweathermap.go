package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weather-dashboard/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "weather-dashboard/datasource"

// OpenWeatherMapProvider implements both WeatherProvider and ForecastSource interfaces
type OpenWeatherMapProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// Option customizes an OpenWeatherMapProvider
type Option func(*OpenWeatherMapProvider)

// WithBaseURL points the provider at another API root (e.g. a test server)
func WithBaseURL(baseURL string) Option {
	return func(p *OpenWeatherMapProvider) {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(p *OpenWeatherMapProvider) {
		p.httpClient = client
	}
}

// WithClock sets the clock used to stamp report times
func WithClock(now func() time.Time) Option {
	return func(p *OpenWeatherMapProvider) {
		p.now = now
	}
}

// NewOpenWeatherMapProvider creates a new OpenWeatherMap provider
func NewOpenWeatherMapProvider(apiKey string, opts ...Option) *OpenWeatherMapProvider {
	p := &OpenWeatherMapProvider{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name
func (p *OpenWeatherMapProvider) Name() string {
	return "OpenWeatherMap"
}

type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type forecastResponse struct {
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		DtTxt string `json:"dt_txt"`
	} `json:"list"`
}

// GetWeather fetches current weather for a location
func (p *OpenWeatherMapProvider) GetWeather(ctx context.Context, location string) (models.CurrentConditions, error) {
	var response currentResponse
	if err := p.get(ctx, "weather", location, &response); err != nil {
		return models.CurrentConditions{}, err
	}

	description := ""
	if len(response.Weather) > 0 {
		description = response.Weather[0].Description
	}

	return models.CurrentConditions{
		Location:    location,
		Name:        response.Name,
		Temperature: response.Main.Temp,
		Humidity:    response.Main.Humidity,
		WindSpeed:   response.Wind.Speed,
		Description: description,
		ReportTime:  p.now(),
	}, nil
}

// FetchForecast fetches the 5 day / 3 hour forecast for a location.
// The whole list is returned; trimming is up to the caller.
func (p *OpenWeatherMapProvider) FetchForecast(ctx context.Context, location string) (models.ForecastData, error) {
	var response forecastResponse
	if err := p.get(ctx, "forecast", location, &response); err != nil {
		return models.ForecastData{}, err
	}

	forecast := models.ForecastData{
		Location: location,
		City:     response.City.Name,
		Entries:  make([]models.ForecastEntry, 0, len(response.List)),
	}

	for _, item := range response.List {
		description, icon := "", ""
		if len(item.Weather) > 0 {
			description = item.Weather[0].Description
			icon = item.Weather[0].Icon
		}

		forecast.Entries = append(forecast.Entries, models.ForecastEntry{
			Timestamp:   time.Unix(item.Dt, 0),
			Text:        item.DtTxt,
			Temperature: item.Main.Temp,
			Humidity:    item.Main.Humidity,
			WindSpeed:   item.Wind.Speed,
			Description: description,
			Icon:        icon,
		})
	}

	return forecast, nil
}

// get performs a GET against {baseURL}/{endpoint} and decodes the JSON body into out
func (p *OpenWeatherMapProvider) get(ctx context.Context, endpoint, location string, out any) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "openweathermap."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("weather.location", location),
			attribute.String("weather.endpoint", endpoint),
		),
	)
	defer span.End()

	params := url.Values{}
	params.Add("q", location)
	params.Add("appid", p.apiKey)
	params.Add("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return spanError(span, "failed to create request", err)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return spanError(span, "failed to execute request", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return spanError(span, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider returned error status")
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return spanError(span, "failed to parse response", err)
	}

	return nil
}

func spanError(span trace.Span, msg string, err error) error {
	err = fmt.Errorf("%s: %w", msg, err)
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}

// Verify that the provider implements the required interfaces
var (
	_ WeatherProvider = (*OpenWeatherMapProvider)(nil)
	_ ForecastSource  = (*OpenWeatherMapProvider)(nil)
)
