package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"weather-dashboard/datasource"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "weather-dashboard/dashboard"

// ErrCycleAlreadyRun is returned by Run after the first call
var ErrCycleAlreadyRun = errors.New("fetch cycle already ran")

// Controller owns the dashboard state. The fetch cycle and HTTP handlers
// both go through Dispatch, which applies events one at a time.
type Controller struct {
	weather       datasource.WeatherProvider
	forecasts     datasource.ForecastSource
	locations     []string
	forecastLimit int

	mu    sync.RWMutex
	state State
	ran   atomic.Bool
}

// NewController creates a controller for the given locations. forecastLimit
// caps how many forecast entries are kept per location.
func NewController(weather datasource.WeatherProvider, forecasts datasource.ForecastSource, locations []string, forecastLimit int) *Controller {
	return &Controller{
		weather:       weather,
		forecasts:     forecasts,
		locations:     append([]string(nil), locations...),
		forecastLimit: forecastLimit,
		state:         NewState(),
	}
}

// State returns the current snapshot. Callers must not modify it.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Dispatch applies ev and returns the new snapshot
func (c *Controller) Dispatch(ev Event) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, ev)
	return c.state
}

// ToggleSelection selects location, or clears the selection if it is already selected
func (c *Controller) ToggleSelection(location string) State {
	return c.Dispatch(SelectionToggled{Location: location})
}

// fetchOp is one step of the fetch cycle
type fetchOp struct {
	location string
	kind     string
	run      func(ctx context.Context) (Event, error)
}

// plan lists the cycle's requests in execution order: current conditions
// then forecast, location by location.
func (c *Controller) plan() []fetchOp {
	ops := make([]fetchOp, 0, 2*len(c.locations))
	for _, loc := range c.locations {
		ops = append(ops,
			fetchOp{
				location: loc,
				kind:     "current",
				run: func(ctx context.Context) (Event, error) {
					data, err := c.weather.GetWeather(ctx, loc)
					if err != nil {
						return nil, err
					}
					return CurrentFetched{Conditions: data}, nil
				},
			},
			fetchOp{
				location: loc,
				kind:     "forecast",
				run: func(ctx context.Context) (Event, error) {
					forecast, err := c.forecasts.FetchForecast(ctx, loc)
					if err != nil {
						return nil, err
					}
					return ForecastFetched{Location: loc, Entries: forecast.Head(c.forecastLimit)}, nil
				},
			},
		)
	}
	return ops
}

// Run executes the fetch cycle. Requests are issued strictly one after
// another; the first failure stops the cycle and becomes the state's error
// message, leaving whatever was fetched before it in place. Run only does
// work once per Controller; later calls return ErrCycleAlreadyRun.
func (c *Controller) Run(ctx context.Context) error {
	if !c.ran.CompareAndSwap(false, true) {
		return ErrCycleAlreadyRun
	}

	id := uuid.NewString()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "dashboard.fetch_cycle")
	defer span.End()
	span.SetAttributes(
		attribute.String("cycle.id", id),
		attribute.Int("cycle.locations", len(c.locations)),
	)

	start := time.Now()
	slog.Info("fetch cycle starting", "cycle", id, "locations", len(c.locations))
	c.Dispatch(CycleStarted{ID: id})

	for _, op := range c.plan() {
		ev, err := op.run(ctx)
		if err != nil {
			slog.Error("fetch cycle aborted",
				"cycle", id,
				"location", op.location,
				"request", op.kind,
				"err", err,
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, "fetch cycle aborted")
			c.Dispatch(CycleFailed{Message: err.Error()})
			return fmt.Errorf("%s request for %s: %w", op.kind, op.location, err)
		}
		c.Dispatch(ev)
		slog.Debug("fetched", "cycle", id, "location", op.location, "request", op.kind)
	}

	c.Dispatch(CycleCompleted{})
	slog.Info("fetch cycle complete",
		"cycle", id,
		"locations", len(c.locations),
		"duration", time.Since(start),
	)
	return nil
}
