package checker

import (
	"context"
	stderrors "errors"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aviling/pulsecheck/internal/api"
	"github.com/aviling/pulsecheck/internal/drift"
	"github.com/aviling/pulsecheck/internal/fixture"
	"github.com/aviling/pulsecheck/internal/models"
	"github.com/aviling/pulsecheck/internal/parser"
)

// stubFetcher serves canned JSON documents keyed by request path.
type stubFetcher struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (f *stubFetcher) Get(ctx context.Context, path string, query url.Values) (models.JSONValue, error) {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.mu.Unlock()

	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	body, ok := f.responses[path]
	if !ok {
		return nil, stderrors.New("no canned response for " + path)
	}
	return parser.ParseString(body)
}

// recordingReporter captures every outcome for assertions.
type recordingReporter struct {
	matches    []string
	bootstraps []string
	failures   map[string]error
	drifts     map[string]drift.Report
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{
		failures: make(map[string]error),
		drifts:   make(map[string]drift.Report),
	}
}

func (r *recordingReporter) Match(endpoint string)                   { r.matches = append(r.matches, endpoint) }
func (r *recordingReporter) Drift(endpoint string, rep drift.Report) { r.drifts[endpoint] = rep }
func (r *recordingReporter) Bootstrap(endpoint, path string) {
	r.bootstraps = append(r.bootstraps, endpoint)
}
func (r *recordingReporter) Failure(endpoint string, err error) { r.failures[endpoint] = err }

var sleepEndpoint = api.Endpoint{Name: "sleep", Path: "/v1/sleep", Dated: true}

func newChecker(t *testing.T, fetcher *stubFetcher) (*Checker, *recordingReporter, *fixture.Store) {
	t.Helper()
	store := fixture.NewStore(t.TempDir())
	reporter := newRecordingReporter()
	return &Checker{
		Client:   fetcher,
		Store:    store,
		Reporter: reporter,
		Start:    "2026-08-23",
		End:      "2026-08-30",
	}, reporter, store
}

func TestChecker_BootstrapOnFirstRun(t *testing.T) {
	fetcher := &stubFetcher{responses: map[string]string{
		"/v1/sleep": `{"sleep": [{"score": 84}]}`,
	}}
	chk, reporter, store := newChecker(t, fetcher)

	sum := chk.Run(context.Background(), []api.Endpoint{sleepEndpoint})

	assert.Equal(t, Summary{Checked: 1, Bootstrapped: 1}, sum)
	assert.Equal(t, []string{"sleep"}, reporter.bootstraps)
	assert.True(t, store.Exists("sleep"), "bootstrap should write the fixture")
}

func TestChecker_MatchOnSecondRun(t *testing.T) {
	fetcher := &stubFetcher{responses: map[string]string{
		"/v1/sleep": `{"sleep": [{"score": 84, "total": 25620}]}`,
	}}
	chk, reporter, _ := newChecker(t, fetcher)

	endpoints := []api.Endpoint{sleepEndpoint}
	first := chk.Run(context.Background(), endpoints)
	second := chk.Run(context.Background(), endpoints)

	assert.Equal(t, Summary{Checked: 1, Bootstrapped: 1}, first)
	assert.Equal(t, Summary{Checked: 1, Matched: 1}, second)
	assert.Equal(t, []string{"sleep"}, reporter.matches)
}

func TestChecker_DriftDetected(t *testing.T) {
	fetcher := &stubFetcher{responses: map[string]string{
		"/v1/sleep": `{"sleep": [{"score": "eighty-four", "hrv": 52}]}`,
	}}
	chk, reporter, store := newChecker(t, fetcher)

	baseline, err := parser.ParseString(`{"sleep": [{"score": 84, "total": 25620}]}`)
	require.NoError(t, err)
	require.NoError(t, store.Save("sleep", baseline))

	sum := chk.Run(context.Background(), []api.Endpoint{sleepEndpoint})
	assert.Equal(t, Summary{Checked: 1, Drifted: 1}, sum)

	rep, ok := reporter.drifts["sleep"]
	require.True(t, ok)
	added, removed, changed := rep.Counts()
	assert.Equal(t, 1, added, "hrv is new")
	assert.Equal(t, 1, removed, "total is gone")
	assert.Equal(t, 1, changed, "score changed number -> string")

	// Without Update the baseline stays as it was.
	loaded, err := store.Load("sleep")
	require.NoError(t, err)
	assert.Equal(t, baseline, loaded)
}

func TestChecker_UpdateRewritesDriftedFixture(t *testing.T) {
	fetcher := &stubFetcher{responses: map[string]string{
		"/v1/sleep": `{"sleep": [], "version": 2}`,
	}}
	chk, _, store := newChecker(t, fetcher)
	chk.Update = true

	baseline, err := parser.ParseString(`{"sleep": []}`)
	require.NoError(t, err)
	require.NoError(t, store.Save("sleep", baseline))

	sum := chk.Run(context.Background(), []api.Endpoint{sleepEndpoint})
	assert.Equal(t, Summary{Checked: 1, Drifted: 1}, sum)

	loaded, err := store.Load("sleep")
	require.NoError(t, err)
	expected, err := parser.ParseString(`{"sleep": [], "version": 2}`)
	require.NoError(t, err)
	assert.Equal(t, expected, loaded, "update mode rewrites the fixture from the live response")
}

func TestChecker_FetchFailureDoesNotAbortRun(t *testing.T) {
	fetcher := &stubFetcher{
		responses: map[string]string{
			"/v1/activity": `{"activity": []}`,
		},
		errs: map[string]error{
			"/v1/sleep": stderrors.New("connection refused"),
		},
	}
	chk, reporter, _ := newChecker(t, fetcher)

	endpoints := []api.Endpoint{
		sleepEndpoint,
		{Name: "activity", Path: "/v1/activity", Dated: true},
	}
	sum := chk.Run(context.Background(), endpoints)

	assert.Equal(t, Summary{Checked: 2, Bootstrapped: 1, Failed: 1}, sum)
	require.Contains(t, reporter.failures, "sleep")
	assert.Equal(t, []string{"activity"}, reporter.bootstraps, "the healthy endpoint is still processed")
}

func TestChecker_CorruptFixtureIsBootstrapped(t *testing.T) {
	fetcher := &stubFetcher{responses: map[string]string{
		"/v1/sleep": `{"sleep": []}`,
	}}
	chk, reporter, store := newChecker(t, fetcher)

	// An unreadable baseline is "no baseline yet", not a failure.
	require.NoError(t, store.Save("sleep", models.JSONObject{}))
	require.NoError(t, os.WriteFile(store.Path("sleep"), []byte("{not json"), 0644))

	sum := chk.Run(context.Background(), []api.Endpoint{sleepEndpoint})
	assert.Equal(t, Summary{Checked: 1, Bootstrapped: 1}, sum)
	assert.Equal(t, []string{"sleep"}, reporter.bootstraps)

	loaded, err := store.Load("sleep")
	require.NoError(t, err)
	expected, err := parser.ParseString(`{"sleep": []}`)
	require.NoError(t, err)
	assert.Equal(t, expected, loaded)
}

func TestChecker_ParallelRun(t *testing.T) {
	responses := make(map[string]string)
	var endpoints []api.Endpoint
	for _, name := range []string{"userinfo", "sleep", "activity", "readiness", "heartrate"} {
		path := "/v1/" + name
		responses[path] = `{"ok": true}`
		endpoints = append(endpoints, api.Endpoint{Name: name, Path: path})
	}
	fetcher := &stubFetcher{responses: responses}
	chk, reporter, _ := newChecker(t, fetcher)
	chk.Parallel = 4

	sum := chk.Run(context.Background(), endpoints)

	assert.Equal(t, Summary{Checked: 5, Bootstrapped: 5}, sum)
	assert.Len(t, reporter.bootstraps, 5)
	assert.Len(t, fetcher.calls, 5)
}
