package statsapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/pickemhq/pickem/internal/platform/logging"
	"github.com/pickemhq/pickem/internal/platform/resilience"
	"github.com/pickemhq/pickem/internal/usecase"
)

const (
	defaultBaseURL      = "https://statsapi.mlb.com/api/v1"
	sportIDBaseball     = "1"
	scheduleHydrate     = "team,linescore"
	teamLogoURLTemplate = "https://www.mlbstatic.com/team-logos/%d.svg"
)

var errStatsAPITransient = crerr.New("statsapi transient failure")

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the MLB Stats API. It implements usecase.ScheduleSource.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		timeout:        timeout,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchTeams returns the active MLB teams.
func (c *Client) FetchTeams(ctx context.Context) ([]usecase.ExternalTeam, error) {
	query := map[string]string{
		"sportId":   sportIDBaseball,
		"activeSts": "Y",
	}

	var envelope teamsEnvelope
	if err := c.doJSON(ctx, "/teams", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch teams: %w", err)
	}

	out := make([]usecase.ExternalTeam, 0, len(envelope.Teams))
	for _, item := range envelope.Teams {
		if item.ID <= 0 {
			continue
		}
		out = append(out, usecase.ExternalTeam{
			ID:   item.ID,
			Name: strings.TrimSpace(item.Name),
			City: strings.TrimSpace(item.LocationName),
			Nick: strings.TrimSpace(item.TeamName),
			Abbr: strings.ToUpper(strings.TrimSpace(item.Abbreviation)),
			Logo: fmt.Sprintf(teamLogoURLTemplate, item.ID),
		})
	}
	return out, nil
}

// FetchSchedule returns every game scheduled on one calendar date.
func (c *Client) FetchSchedule(ctx context.Context, date time.Time) ([]usecase.ExternalGame, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("schedule date is required")
	}

	day := date.UTC().Format(time.DateOnly)
	query := map[string]string{
		"sportId": sportIDBaseball,
		"date":    day,
		"hydrate": scheduleHydrate,
	}

	var envelope scheduleEnvelope
	if err := c.doJSON(ctx, "/schedule", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch schedule date=%s: %w", day, err)
	}

	out := make([]usecase.ExternalGame, 0, 16)
	for _, scheduleDay := range envelope.Dates {
		for _, item := range scheduleDay.Games {
			mapped, ok := mapScheduleGame(item)
			if !ok {
				continue
			}
			out = append(out, mapped)
		}
	}
	return out, nil
}

func mapScheduleGame(item scheduleGame) (usecase.ExternalGame, bool) {
	if item.GamePk <= 0 || item.Teams.Home.Team.ID <= 0 || item.Teams.Away.Team.ID <= 0 {
		return usecase.ExternalGame{}, false
	}

	startAt, err := time.Parse(time.RFC3339, item.GameDate)
	if err != nil {
		return usecase.ExternalGame{}, false
	}
	startAt = startAt.UTC()

	mapped := usecase.ExternalGame{
		ID:           item.GamePk,
		HomeTeamID:   item.Teams.Home.Team.ID,
		AwayTeamID:   item.Teams.Away.Team.ID,
		HomeName:     strings.TrimSpace(item.Teams.Home.Team.Name),
		AwayName:     strings.TrimSpace(item.Teams.Away.Team.Name),
		Date:         startAt,
		StartTimeUTC: startAt,
		Venue:        strings.TrimSpace(item.Venue.Name),
		Finished:     item.Status.AbstractGameState == "Final",
	}
	if officialDate := strings.TrimSpace(item.OfficialDate); officialDate != "" {
		if parsed, err := time.Parse(time.DateOnly, officialDate); err == nil {
			mapped.Date = parsed
		}
	}

	if mapped.Finished {
		mapped.HomeScore = item.Teams.Home.Score
		mapped.AwayScore = item.Teams.Away.Score
		switch {
		case item.Teams.Home.IsWinner != nil && *item.Teams.Home.IsWinner:
			winner := item.Teams.Home.Team.ID
			mapped.WinnerTeamID = &winner
		case item.Teams.Away.IsWinner != nil && *item.Teams.Away.IsWinner:
			winner := item.Teams.Away.Team.ID
			mapped.WinnerTeamID = &winner
		case mapped.HomeScore != nil && mapped.AwayScore != nil && *mapped.HomeScore != *mapped.AwayScore:
			winner := item.Teams.Away.Team.ID
			if *mapped.HomeScore > *mapped.AwayScore {
				winner = item.Teams.Home.Team.ID
			}
			mapped.WinnerTeamID = &winner
		}
	}
	return mapped, true
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "statsapi circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: schedule provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	buf := bytebufferpool.Get()
	_, _ = buf.WriteString(c.baseURL)
	_, _ = buf.WriteString(path)
	if encoded := values.Encode(); encoded != "" {
		_ = buf.WriteByte('?')
		_, _ = buf.WriteString(encoded)
	}
	fullURL := buf.String()
	bytebufferpool.Put(buf)

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isStatsAPICircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, status, err := c.doGet(fullURL)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errStatsAPITransient, err)
		} else if status >= 200 && status < 300 {
			return raw, nil
		} else if isRetryableStatus(status) {
			lastErr = fmt.Errorf("%w: provider status=%d body=%s", errStatsAPITransient, status, abbreviateBody(raw))
		} else {
			return nil, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "statsapi request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) doGet(fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, 0, err
	}

	// The response buffer is pooled; the caller keeps a copy.
	raw := append([]byte(nil), resp.Body()...)
	return raw, resp.StatusCode(), nil
}

func isStatsAPICircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errStatsAPITransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}

type teamsEnvelope struct {
	Teams []teamItem `json:"teams"`
}

type teamItem struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	TeamName     string `json:"teamName"`
	LocationName string `json:"locationName"`
	Abbreviation string `json:"abbreviation"`
	Active       bool   `json:"active"`
}

type scheduleEnvelope struct {
	Dates []scheduleDate `json:"dates"`
}

type scheduleDate struct {
	Date  string         `json:"date"`
	Games []scheduleGame `json:"games"`
}

type scheduleGame struct {
	GamePk       int64         `json:"gamePk"`
	GameDate     string        `json:"gameDate"`
	OfficialDate string        `json:"officialDate"`
	Status       gameStatus    `json:"status"`
	Teams        scheduleTeams `json:"teams"`
	Venue        scheduleVenue `json:"venue"`
}

type gameStatus struct {
	AbstractGameState string `json:"abstractGameState"`
	DetailedState     string `json:"detailedState"`
}

type scheduleTeams struct {
	Home scheduleTeamSide `json:"home"`
	Away scheduleTeamSide `json:"away"`
}

type scheduleTeamSide struct {
	Team     scheduleTeamRef `json:"team"`
	Score    *int            `json:"score"`
	IsWinner *bool           `json:"isWinner"`
}

type scheduleTeamRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type scheduleVenue struct {
	Name string `json:"name"`
}
