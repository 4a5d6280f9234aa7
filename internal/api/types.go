package api

import (
	"context"
	"net/url"
)

// Profile is the account profile returned by /v1/userinfo.
type Profile struct {
	Age    int     `json:"age"`
	Weight float64 `json:"weight"`
	Height float64 `json:"height"`
	Gender string  `json:"gender"`
	Email  string  `json:"email"`
}

// SleepSummary is one night of sleep from /v1/sleep.
type SleepSummary struct {
	SummaryDate      string  `json:"summary_date"`
	BedtimeStart     string  `json:"bedtime_start"`
	BedtimeEnd       string  `json:"bedtime_end"`
	Duration         int     `json:"duration"`
	Total            int     `json:"total"`
	Awake            int     `json:"awake"`
	Rem              int     `json:"rem"`
	Deep             int     `json:"deep"`
	Light            int     `json:"light"`
	Score            int     `json:"score"`
	HRAverage        float64 `json:"hr_average"`
	HRLowest         float64 `json:"hr_lowest"`
	TemperatureDelta float64 `json:"temperature_delta"`
}

// ActivitySummary is one day of activity from /v1/activity.
type ActivitySummary struct {
	SummaryDate   string `json:"summary_date"`
	Steps         int    `json:"steps"`
	DailyMovement int    `json:"daily_movement"`
	CalActive     int    `json:"cal_active"`
	CalTotal      int    `json:"cal_total"`
	Score         int    `json:"score"`
	Inactive      int    `json:"inactive"`
	Rest          int    `json:"rest"`
}

// ReadinessSummary is one day of readiness from /v1/readiness.
type ReadinessSummary struct {
	SummaryDate        string `json:"summary_date"`
	Score              int    `json:"score"`
	ScorePreviousNight int    `json:"score_previous_night"`
	ScoreSleepBalance  int    `json:"score_sleep_balance"`
	ScoreActivity      int    `json:"score_activity_balance"`
	ScoreRecoveryIndex int    `json:"score_recovery_index"`
	ScoreHRBalance     int    `json:"score_hr_balance"`
}

// HeartRateSample is one reading from /v1/heartrate.
type HeartRateSample struct {
	Timestamp string `json:"timestamp"`
	BPM       int    `json:"bpm"`
	Source    string `json:"source"`
}

type sleepResponse struct {
	Sleep []SleepSummary `json:"sleep"`
}

type activityResponse struct {
	Activity []ActivitySummary `json:"activity"`
}

type readinessResponse struct {
	Readiness []ReadinessSummary `json:"readiness"`
}

type heartRateResponse struct {
	HeartRate []HeartRateSample `json:"heartrate"`
}

// Profile fetches the account profile.
func (c *Client) Profile(ctx context.Context) (Profile, error) {
	var p Profile
	err := c.getTyped(ctx, "/v1/userinfo", nil, &p)
	return p, err
}

// Sleep fetches sleep summaries for the inclusive date range start..end
// (YYYY-MM-DD).
func (c *Client) Sleep(ctx context.Context, start, end string) ([]SleepSummary, error) {
	var resp sleepResponse
	err := c.getTyped(ctx, "/v1/sleep", dateRange(start, end), &resp)
	return resp.Sleep, err
}

// Activity fetches activity summaries for the inclusive date range start..end.
func (c *Client) Activity(ctx context.Context, start, end string) ([]ActivitySummary, error) {
	var resp activityResponse
	err := c.getTyped(ctx, "/v1/activity", dateRange(start, end), &resp)
	return resp.Activity, err
}

// Readiness fetches readiness summaries for the inclusive date range
// start..end.
func (c *Client) Readiness(ctx context.Context, start, end string) ([]ReadinessSummary, error) {
	var resp readinessResponse
	err := c.getTyped(ctx, "/v1/readiness", dateRange(start, end), &resp)
	return resp.Readiness, err
}

// HeartRate fetches heart rate samples for the inclusive date range
// start..end.
func (c *Client) HeartRate(ctx context.Context, start, end string) ([]HeartRateSample, error) {
	var resp heartRateResponse
	err := c.getTyped(ctx, "/v1/heartrate", dateRange(start, end), &resp)
	return resp.HeartRate, err
}

func dateRange(start, end string) url.Values {
	query := url.Values{}
	if start != "" {
		query.Set("start", start)
	}
	if end != "" {
		query.Set("end", end)
	}
	return query
}

// Endpoint describes one monitored API endpoint.
type Endpoint struct {
	Name  string
	Path  string
	Dated bool // takes start/end date query parameters
}

// Query builds the query parameters for the endpoint given a date range.
func (e Endpoint) Query(start, end string) url.Values {
	if !e.Dated {
		return nil
	}
	return dateRange(start, end)
}

// endpoints is the canonical registry of monitored endpoints, in check order.
var endpoints = []Endpoint{
	{Name: "userinfo", Path: "/v1/userinfo"},
	{Name: "sleep", Path: "/v1/sleep", Dated: true},
	{Name: "activity", Path: "/v1/activity", Dated: true},
	{Name: "readiness", Path: "/v1/readiness", Dated: true},
	{Name: "heartrate", Path: "/v1/heartrate", Dated: true},
}

// Endpoints returns the registry of monitored endpoints.
func Endpoints() []Endpoint {
	out := make([]Endpoint, len(endpoints))
	copy(out, endpoints)
	return out
}

// EndpointByName looks up an endpoint by its registry name.
func EndpointByName(name string) (Endpoint, bool) {
	for _, e := range endpoints {
		if e.Name == name {
			return e, true
		}
	}
	return Endpoint{}, false
}
