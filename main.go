package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/aviling/pulsecheck/internal/api"
	"github.com/aviling/pulsecheck/internal/checker"
	"github.com/aviling/pulsecheck/internal/config"
	"github.com/aviling/pulsecheck/internal/errors"
	"github.com/aviling/pulsecheck/internal/fixture"
	"github.com/aviling/pulsecheck/internal/format"
	"github.com/aviling/pulsecheck/internal/report"
)

// Version information
const (
	Version = "0.1.0"
)

// CLI defines the command-line interface
var CLI struct {
	Config  string           `help:"Path to config file. Defaults to the nearest .pulsecheck.yml." type:"path"`
	Token   string           `help:"Personal access token. Overrides the configured token env variable."`
	BaseURL string           `help:"API base URL override." name:"base-url"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	NoColor bool             `help:"Disable colored output."`
	Version kong.VersionFlag `help:"Show version information." short:"v"`

	Check     CheckCmd     `cmd:"" default:"1" help:"Compare stored fixtures against live API responses."`
	Pull      PullCmd      `cmd:"" help:"Fetch one endpoint and print it."`
	Endpoints EndpointsCmd `cmd:"" help:"List the monitored endpoints."`
}

// appEnv holds the runtime context shared by all commands
type appEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("pulsecheck"),
		kong.Description("A tool to audit stored Pulseband API fixtures against live responses"),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("pulsecheck version %s", Version)},
	)

	app, err := buildEnv()
	if err == nil {
		err = ctx.Run(app)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: pulsecheck --help\n")
		os.Exit(1)
	}
}

// buildEnv loads configuration and applies global CLI overrides
func buildEnv() (*appEnv, error) {
	cfg := config.NewConfig()

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if CLI.BaseURL != "" {
		cfg.BaseURL = CLI.BaseURL
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if CLI.NoColor {
		cfg.NoColor = true
	}

	return &appEnv{
		cfg:    cfg,
		logger: buildLogger(cfg.Debug),
		out:    os.Stdout,
	}, nil
}

// buildLogger creates the application logger. Debug output goes to stderr so
// report lines on stdout stay clean.
func buildLogger(debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newClient builds an API client from the resolved configuration
func (app *appEnv) newClient() (*api.Client, error) {
	token, err := app.cfg.Token(CLI.Token)
	if err != nil {
		return nil, err
	}
	return api.NewClient(token,
		api.WithBaseURL(app.cfg.BaseURL),
		api.WithLogger(app.logger),
	), nil
}

// dateWindow resolves the date range, preferring explicit flags over the
// configured rolling window.
func (app *appEnv) dateWindow(startFlag, endFlag string) (start, end string) {
	start, end = app.cfg.DateWindow(time.Now())
	if startFlag != "" {
		start = startFlag
	}
	if endFlag != "" {
		end = endFlag
	}
	return start, end
}

// CheckCmd runs the drift check across all configured endpoints
type CheckCmd struct {
	Fixtures string `help:"Directory fixtures are stored in. Overrides the configured directory." type:"path"`
	Start    string `help:"Range start date (YYYY-MM-DD) for dated endpoints."`
	End      string `help:"Range end date (YYYY-MM-DD) for dated endpoints."`
	Update   bool   `help:"Rewrite fixtures for endpoints that drifted." short:"u"`
	Parallel int    `help:"Number of endpoints checked concurrently. Overrides the configured value."`
}

func (cmd *CheckCmd) Run(app *appEnv) error {
	client, err := app.newClient()
	if err != nil {
		return err
	}

	endpoints, err := app.cfg.ResolveEndpoints()
	if err != nil {
		return err
	}

	fixturesDir := app.cfg.FixturesDir
	if cmd.Fixtures != "" {
		fixturesDir = cmd.Fixtures
	}
	parallel := app.cfg.Parallel
	if cmd.Parallel > 0 {
		parallel = cmd.Parallel
	}
	start, end := app.dateWindow(cmd.Start, cmd.End)

	console := report.NewConsole(app.out, app.cfg.NoColor)
	chk := &checker.Checker{
		Client:   client,
		Store:    fixture.NewStore(fixturesDir),
		Reporter: console,
		Logger:   app.logger,
		Start:    start,
		End:      end,
		Update:   cmd.Update,
		Parallel: parallel,
	}

	sum := chk.Run(context.Background(), endpoints)
	console.Summary(sum.Checked, sum.Matched, sum.Drifted, sum.Bootstrapped, sum.Failed)

	if sum.Failed > 0 {
		return errors.NewFetchError(fmt.Sprintf("%d endpoint(s) could not be checked", sum.Failed), nil)
	}
	return nil
}

// PullCmd fetches a single endpoint and prints it
type PullCmd struct {
	Endpoint string `arg:"" help:"Endpoint name (see 'pulsecheck endpoints')."`
	Raw      bool   `help:"Print the raw JSON response instead of a summary." short:"r"`
	Start    string `help:"Range start date (YYYY-MM-DD) for dated endpoints."`
	End      string `help:"Range end date (YYYY-MM-DD) for dated endpoints."`
}

func (cmd *PullCmd) Run(app *appEnv) error {
	ep, ok := api.EndpointByName(cmd.Endpoint)
	if !ok {
		return errors.NewConfigError(fmt.Sprintf("unknown endpoint '%s'", cmd.Endpoint), errors.ErrUnknownEndpoint)
	}

	client, err := app.newClient()
	if err != nil {
		return err
	}

	ctx := context.Background()
	start, end := app.dateWindow(cmd.Start, cmd.End)

	if cmd.Raw {
		value, err := client.Get(ctx, ep.Path, ep.Query(start, end))
		if err != nil {
			return errors.NewFetchError(fmt.Sprintf("failed to fetch %s", ep.Name), err)
		}
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return errors.NewOutputError("failed to encode response", err)
		}
		fmt.Fprintln(app.out, string(data))
		return nil
	}

	return cmd.summarize(ctx, app, client, ep, start, end)
}

// summarize prints a human-readable digest for one endpoint using the typed
// accessors and the display formatting helpers.
func (cmd *PullCmd) summarize(ctx context.Context, app *appEnv, client *api.Client, ep api.Endpoint, start, end string) error {
	switch ep.Name {
	case "userinfo":
		profile, err := client.Profile(ctx)
		if err != nil {
			return errors.NewFetchError("failed to fetch profile", err)
		}
		fmt.Fprintf(app.out, "%s, age %d, %.1fkg, %.0fcm\n",
			profile.Email, profile.Age, profile.Weight, profile.Height)

	case "sleep":
		summaries, err := client.Sleep(ctx, start, end)
		if err != nil {
			return errors.NewFetchError("failed to fetch sleep summaries", err)
		}
		fmt.Fprintf(app.out, "sleep %s\n", format.DateRange(start, end))
		for _, s := range summaries {
			fmt.Fprintf(app.out, "  %s: slept %s (deep %s, rem %s), score %s, temp %s\n",
				s.SummaryDate,
				format.Duration(s.Total),
				format.Duration(s.Deep),
				format.Duration(s.Rem),
				format.Score(s.Score),
				format.Delta(s.TemperatureDelta))
		}

	case "activity":
		summaries, err := client.Activity(ctx, start, end)
		if err != nil {
			return errors.NewFetchError("failed to fetch activity summaries", err)
		}
		fmt.Fprintf(app.out, "activity %s\n", format.DateRange(start, end))
		for _, s := range summaries {
			fmt.Fprintf(app.out, "  %s: %s steps, %s kcal active, score %s\n",
				s.SummaryDate,
				format.Thousands(s.Steps),
				format.Thousands(s.CalActive),
				format.Score(s.Score))
		}

	case "readiness":
		summaries, err := client.Readiness(ctx, start, end)
		if err != nil {
			return errors.NewFetchError("failed to fetch readiness summaries", err)
		}
		fmt.Fprintf(app.out, "readiness %s\n", format.DateRange(start, end))
		for _, s := range summaries {
			fmt.Fprintf(app.out, "  %s: score %s, recovery %s\n",
				s.SummaryDate,
				format.Score(s.Score),
				format.Score(s.ScoreRecoveryIndex))
		}

	case "heartrate":
		samples, err := client.HeartRate(ctx, start, end)
		if err != nil {
			return errors.NewFetchError("failed to fetch heart rate samples", err)
		}
		fmt.Fprintf(app.out, "heartrate %s: %s sample(s)\n",
			format.DateRange(start, end), format.Thousands(len(samples)))
		if len(samples) > 0 {
			total := 0
			for _, s := range samples {
				total += s.BPM
			}
			fmt.Fprintf(app.out, "  average %d bpm\n", total/len(samples))
		}

	default:
		// Registry entries without a typed accessor still work raw.
		cmd.Raw = true
		return cmd.Run(app)
	}
	return nil
}

// EndpointsCmd lists the monitored endpoints
type EndpointsCmd struct{}

func (cmd *EndpointsCmd) Run(app *appEnv) error {
	start, end := app.cfg.DateWindow(time.Now())
	for _, ep := range api.Endpoints() {
		if ep.Dated {
			fmt.Fprintf(app.out, "%-10s %s (%s)\n", ep.Name, ep.Path, format.DateRange(start, end))
		} else {
			fmt.Fprintf(app.out, "%-10s %s\n", ep.Name, ep.Path)
		}
	}
	return nil
}
