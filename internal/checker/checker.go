// Package checker orchestrates drift checks: for each monitored endpoint it
// fetches the live response, loads the stored fixture, extracts both type
// signatures, diffs them, and hands the result to a reporter. Endpoints are
// checked independently; one failing endpoint never aborts the run.
package checker

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aviling/pulsecheck/internal/api"
	"github.com/aviling/pulsecheck/internal/drift"
	"github.com/aviling/pulsecheck/internal/errors"
	"github.com/aviling/pulsecheck/internal/models"
	"github.com/aviling/pulsecheck/internal/signature"
)

// Fetcher supplies live JSON documents from the API.
type Fetcher interface {
	Get(ctx context.Context, path string, query url.Values) (models.JSONValue, error)
}

// Baseline supplies and persists fixture documents.
type Baseline interface {
	Load(name string) (models.JSONValue, error)
	Save(name string, value models.JSONValue) error
	Path(name string) string
}

// Reporter consumes per-endpoint outcomes.
type Reporter interface {
	Match(endpoint string)
	Drift(endpoint string, rep drift.Report)
	Bootstrap(endpoint, path string)
	Failure(endpoint string, err error)
}

// Checker wires the collaborators for a drift run.
type Checker struct {
	Client   Fetcher
	Store    Baseline
	Reporter Reporter
	Logger   *slog.Logger

	// Start and End bound dated endpoints (YYYY-MM-DD, inclusive).
	Start string
	End   string

	// Update rewrites the fixture from the live response when drift is found.
	Update bool

	// Parallel bounds concurrent endpoint checks. Values below 1 mean serial.
	Parallel int
}

// Summary totals one run.
type Summary struct {
	Checked      int
	Matched      int
	Drifted      int
	Bootstrapped int
	Failed       int
}

type outcome int

const (
	outcomeMatched outcome = iota
	outcomeDrifted
	outcomeBootstrapped
	outcomeFailed
)

type result struct {
	endpoint    string
	outcome     outcome
	report      drift.Report
	fixturePath string
	err         error
}

// Run checks every endpoint and returns the run totals. Failures are
// reported through the Reporter, never returned; ctx cancellation is the
// caller's lever for bounding a stalled fetch.
func (c *Checker) Run(ctx context.Context, endpoints []api.Endpoint) Summary {
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	limit := c.Parallel
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)

	var mu sync.Mutex
	var sum Summary

	for _, ep := range endpoints {
		g.Go(func() error {
			res := c.checkOne(ctx, ep, logger)

			// Reporting and totals are serialized; checks themselves run
			// concurrently when Parallel allows it.
			mu.Lock()
			defer mu.Unlock()
			sum.Checked++
			switch res.outcome {
			case outcomeMatched:
				sum.Matched++
				c.Reporter.Match(res.endpoint)
			case outcomeDrifted:
				sum.Drifted++
				c.Reporter.Drift(res.endpoint, res.report)
			case outcomeBootstrapped:
				sum.Bootstrapped++
				c.Reporter.Bootstrap(res.endpoint, res.fixturePath)
			case outcomeFailed:
				sum.Failed++
				c.Reporter.Failure(res.endpoint, res.err)
			}
			return nil
		})
	}
	g.Wait()

	return sum
}

// checkOne evaluates a single endpoint. It never panics out of the run: any
// failure becomes an outcomeFailed result.
func (c *Checker) checkOne(ctx context.Context, ep api.Endpoint, logger *slog.Logger) result {
	res := result{endpoint: ep.Name}

	actual, err := c.Client.Get(ctx, ep.Path, ep.Query(c.Start, c.End))
	if err != nil {
		logger.Warn("fetch failed", "endpoint", ep.Name, "error", err)
		res.outcome = outcomeFailed
		res.err = err
		return res
	}

	fixtureValue, err := c.Store.Load(ep.Name)
	if err != nil {
		if stderrors.Is(err, errors.ErrNoFixture) {
			// First run for this endpoint: the live response becomes the
			// baseline and there is nothing to compare yet.
			if saveErr := c.Store.Save(ep.Name, actual); saveErr != nil {
				logger.Warn("fixture bootstrap failed", "endpoint", ep.Name, "error", saveErr)
				res.outcome = outcomeFailed
				res.err = saveErr
				return res
			}
			logger.Info("fixture bootstrapped", "endpoint", ep.Name, "path", c.Store.Path(ep.Name))
			res.outcome = outcomeBootstrapped
			res.fixturePath = c.Store.Path(ep.Name)
			return res
		}
		logger.Warn("fixture load failed", "endpoint", ep.Name, "error", err)
		res.outcome = outcomeFailed
		res.err = err
		return res
	}

	fixtureSig, err := signature.Extract(fixtureValue)
	if err != nil {
		res.outcome = outcomeFailed
		res.err = err
		return res
	}
	actualSig, err := signature.Extract(actual)
	if err != nil {
		res.outcome = outcomeFailed
		res.err = err
		return res
	}

	rep := drift.Compare(fixtureSig, actualSig)
	if rep.Clean() {
		logger.Debug("signatures match", "endpoint", ep.Name, "paths", actualSig.Len())
		res.outcome = outcomeMatched
		return res
	}

	added, removed, changed := rep.Counts()
	logger.Info("drift detected",
		"endpoint", ep.Name,
		"added", added,
		"removed", removed,
		"changed", changed)

	if c.Update {
		if saveErr := c.Store.Save(ep.Name, actual); saveErr != nil {
			logger.Warn("fixture update failed", "endpoint", ep.Name, "error", saveErr)
		} else {
			logger.Info("fixture updated", "endpoint", ep.Name, "path", c.Store.Path(ep.Name))
		}
	}

	res.outcome = outcomeDrifted
	res.report = rep
	return res
}
