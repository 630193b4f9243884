// Package render turns a dashboard snapshot into the HTML page.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"time"

	"weather-dashboard/dashboard"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

const (
	reportTimeLayout = "2006-01-02 15:04:05"
	dateLayout       = "2006-01-02"
	timeLayout       = "15:04:05"
)

// Renderer renders dashboard pages with times shown in a fixed zone
type Renderer struct {
	tmpl *template.Template
	loc  *time.Location
}

// New parses the page template. A nil loc means time.Local.
func New(loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.Local
	}
	tmpl, err := template.ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}
	return &Renderer{tmpl: tmpl, loc: loc}, nil
}

type page struct {
	Error  string
	Cards  []card
	Detail *detail
}

type card struct {
	Location    string
	Action      string
	Name        string
	Description string
	ReportTime  string
	Temp        string
	Humidity    string
	Wind        string
	Selected    bool
}

type detail struct {
	Location string
	Rows     []row
}

type row struct {
	Date     string
	Time     string
	Weather  string
	Temp     string
	Humidity string
	Wind     string
}

// Render writes the page for s to w
func (r *Renderer) Render(w io.Writer, s dashboard.State) error {
	return r.tmpl.Execute(w, r.page(s))
}

func (r *Renderer) page(s dashboard.State) page {
	p := page{Error: s.Err}

	for _, loc := range s.Order {
		c, ok := s.Current[loc]
		if !ok {
			continue
		}
		p.Cards = append(p.Cards, card{
			Location:    loc,
			Action:      "/select/" + url.PathEscape(loc),
			Name:        c.Name,
			Description: c.Description,
			ReportTime:  c.ReportTime.In(r.loc).Format(reportTimeLayout),
			Temp:        Celsius(c.Temperature),
			Humidity:    Percent(c.Humidity),
			Wind:        Speed(c.WindSpeed),
			Selected:    s.IsSelected(loc),
		})
	}

	if entries, ok := s.Detail(); ok {
		d := &detail{Location: s.Selected}
		for _, e := range entries {
			ts := e.Timestamp.In(r.loc)
			d.Rows = append(d.Rows, row{
				Date:     ts.Format(dateLayout),
				Time:     ts.Format(timeLayout),
				Weather:  e.Description,
				Temp:     Celsius(e.Temperature),
				Humidity: Percent(e.Humidity),
				Wind:     Speed(e.WindSpeed),
			})
		}
		p.Detail = d
	}

	return p
}

// Celsius formats a temperature the way the provider sent it, e.g. "30.5°C"
func Celsius(v float64) string {
	return number(v) + "°C"
}

// Percent formats a humidity value, e.g. "62%"
func Percent(v int) string {
	return strconv.Itoa(v) + "%"
}

// Speed formats a wind speed, e.g. "4.12 m/s"
func Speed(v float64) string {
	return number(v) + " m/s"
}

// number uses the shortest representation that round-trips
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
