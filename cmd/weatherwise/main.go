// Command weatherwise runs the dashboard analysis pipeline from a terminal.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/jonboulle/clockwork"

	"github.com/yanqian/weatherwise/internal/domain/advisor"
	"github.com/yanqian/weatherwise/internal/domain/analysis"
	"github.com/yanqian/weatherwise/internal/domain/calendar"
	"github.com/yanqian/weatherwise/internal/domain/report"
	"github.com/yanqian/weatherwise/internal/domain/weather"
	"github.com/yanqian/weatherwise/pkg/logger"
	"github.com/yanqian/weatherwise/pkg/metrics"
)

// Globals are shared by every subcommand.
type Globals struct {
	Seed    int64 `help:"Jitter seed. Zero disables jitter for reproducible output." default:"0"`
	Verbose bool  `short:"v" help:"Log to stderr."`
}

// LocationFlags select the place being analyzed.
type LocationFlags struct {
	Lat   float64 `required:"" help:"Latitude in degrees."`
	Lng   float64 `required:"" help:"Longitude in degrees."`
	Label string  `help:"Display name of the place."`
}

func (l LocationFlags) location() weather.Location {
	label := l.Label
	if label == "" {
		label = fmt.Sprintf("%.4f, %.4f", l.Lat, l.Lng)
	}
	return weather.Location{Lat: l.Lat, Lng: l.Lng, Label: label}
}

// AnalyzeCmd prints metrics, suggestions and insights as JSON.
type AnalyzeCmd struct {
	LocationFlags `embed:""`

	Date    string `required:"" help:"Date as YYYY-MM-DD."`
	Profile string `enum:",family,farmer,planner,adventurer" default:"" help:"Activity profile."`
}

func (c *AnalyzeCmd) Run(deps *deps) error {
	loc := c.location()
	resp, err := deps.analysis.Analyze(context.Background(), analysis.Request{Location: &loc, Date: c.Date, Profile: c.Profile})
	if err != nil {
		return err
	}
	return deps.printJSON(resp)
}

// CalendarCmd prints the monthly risk calendar as JSON.
type CalendarCmd struct {
	Year    int      `required:"" help:"Calendar year."`
	Month   int      `required:"" help:"Month, 1-12."`
	Lat     *float64 `help:"Latitude. Omit with --lng for a location-free calendar."`
	Lng     *float64 `help:"Longitude."`
	Profile string   `enum:",family,farmer,planner,adventurer" default:"" help:"Activity profile."`
}

func (c *CalendarCmd) request() (calendar.Request, error) {
	req := calendar.Request{Year: c.Year, Month: c.Month, Profile: c.Profile}
	switch {
	case c.Lat != nil && c.Lng != nil:
		req.Location = &weather.Location{Lat: *c.Lat, Lng: *c.Lng}
	case c.Lat != nil || c.Lng != nil:
		return calendar.Request{}, errors.New("--lat and --lng must be given together")
	}
	return req, nil
}

func (c *CalendarCmd) Run(deps *deps) error {
	req, err := c.request()
	if err != nil {
		return err
	}
	cal, err := deps.calendar.Build(context.Background(), req)
	if err != nil {
		return err
	}
	return deps.printJSON(cal)
}

// ReportCmd writes the CSV or text export to stdout.
type ReportCmd struct {
	LocationFlags `embed:""`

	Date    string `required:"" help:"Date as YYYY-MM-DD."`
	Profile string `enum:",family,farmer,planner,adventurer" default:"" help:"Activity profile."`
	Format  string `enum:"csv,text" default:"csv" help:"Export format."`
}

func (c *ReportCmd) Run(deps *deps) error {
	ctx := context.Background()
	loc := c.location()
	resp, err := deps.analysis.Analyze(ctx, analysis.Request{Location: &loc, Date: c.Date, Profile: c.Profile})
	if err != nil {
		return err
	}
	doc, err := deps.report.Export(ctx, report.Request{
		Location: &loc,
		Date:     c.Date,
		Profile:  c.Profile,
		Metrics:  resp.Metrics,
		Format:   report.Format(c.Format),
	})
	if err != nil {
		return err
	}
	_, err = deps.out.Write(doc.Content)
	return err
}

// ElaborateCmd prints the long form text for one advisory subject.
type ElaborateCmd struct {
	LocationFlags `embed:""`

	Subject string `arg:"" help:"Advisory title or topic, e.g. \"Carry an umbrella\"."`
	Date    string `required:"" help:"Date as YYYY-MM-DD."`
	Profile string `enum:",family,farmer,planner,adventurer" default:"" help:"Activity profile."`
}

func (c *ElaborateCmd) Run(deps *deps) error {
	ctx := context.Background()
	loc := c.location()
	resp, err := deps.analysis.Analyze(ctx, analysis.Request{Location: &loc, Date: c.Date, Profile: c.Profile})
	if err != nil {
		return err
	}
	out, err := deps.analysis.Elaborate(ctx, analysis.ElaborateRequest{Subject: c.Subject, Metrics: resp.Metrics, Location: &loc, Date: c.Date})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(deps.out, out.Text)
	return err
}

// CLI is the kong command tree.
type CLI struct {
	Globals

	Analyze   AnalyzeCmd   `cmd:"" help:"Synthesize metrics and advisories for a place and date."`
	Calendar  CalendarCmd  `cmd:"" help:"Render the monthly risk calendar."`
	Report    ReportCmd    `cmd:"" help:"Export an analysis report."`
	Elaborate ElaborateCmd `cmd:"" help:"Explain one advisory in detail."`
}

type deps struct {
	analysis analysis.Service
	calendar calendar.Service
	report   report.Service
	out      io.Writer
}

func (d *deps) printJSON(v any) error {
	enc := json.NewEncoder(d.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newDeps(g Globals, out io.Writer) *deps {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if g.Verbose {
		log = logger.NewTo(os.Stderr)
	}

	var jitter weather.Jitter = weather.ZeroJitter{}
	if g.Seed != 0 {
		jitter = weather.NewRandomJitter(g.Seed)
	}
	clock := clockwork.NewRealClock()
	m := metrics.New(nil)
	synth := weather.NewSynthesizer(weather.DefaultTuning(), jitter)

	return &deps{
		analysis: analysis.NewService(synth, advisor.NewResponder(nil), clock, m, log),
		calendar: calendar.NewService(jitter, log),
		report:   report.NewService(nil, clock, m, log),
		out:      out,
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("weatherwise"),
		kong.Description("Simulated weather risk analysis for a place, date and activity profile."),
		kong.UsageOnError(),
	)
	err := ctx.Run(newDeps(cli.Globals, os.Stdout))
	ctx.FatalIfErrorf(err)
}
