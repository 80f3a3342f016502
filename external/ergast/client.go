package ergast

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pitwall/f1-stats/internal/domain/rawdata"
	"github.com/pitwall/f1-stats/internal/platform/logging"
	"github.com/pitwall/f1-stats/internal/platform/ratelimit"
	"github.com/pitwall/f1-stats/internal/platform/resilience"
	"github.com/pitwall/f1-stats/internal/usecase"
)

const (
	defaultBaseURL   = "https://api.jolpi.ca/ergast/f1"
	defaultPageLimit = 100
	minSeason        = 1950
	userAgent        = "f1-stats-etl/1.0 (+https://github.com/pitwall/f1-stats)"
	maxResponseBytes = 6 << 20
)

var errErgastTransient = crerr.New("ergast transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	PageLimit      int
	Logger         *logging.Logger
	Limiter        ratelimit.Limiter
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to an Ergast-compatible API. All requests flow through one
// shared rate limiter so worker concurrency never multiplies the request
// rate seen upstream.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	retryBaseDelay time.Duration
	pageLimit      int
	logger         *logging.Logger
	limiter        ratelimit.Limiter
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
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = ratelimit.Nop()
	}

	retryBaseDelay := cfg.RetryBaseDelay
	if retryBaseDelay <= 0 {
		retryBaseDelay = time.Second
	}

	pageLimit := cfg.PageLimit
	if pageLimit <= 0 || pageLimit > defaultPageLimit {
		pageLimit = defaultPageLimit
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     max(cfg.MaxRetries, 0),
		retryBaseDelay: retryBaseDelay,
		pageLimit:      pageLimit,
		logger:         logger,
		limiter:        limiter,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchSeasonSchedule(ctx context.Context, seasonYear int) ([]usecase.ExternalRace, []rawdata.Payload, error) {
	if err := validateSeason(seasonYear); err != nil {
		return nil, nil, err
	}

	path := fmt.Sprintf("/%d.json", seasonYear)
	pages, payloads, err := c.fetchPages(ctx, path, seasonYear, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch season schedule season=%d: %w", seasonYear, err)
	}

	races := make([]usecase.ExternalRace, 0, 24)
	for _, page := range pages {
		if page.RaceTable == nil {
			continue
		}
		for _, item := range page.RaceTable.Races {
			races = append(races, usecase.ExternalRace{
				Season:  item.Season,
				Round:   item.Round,
				Name:    item.RaceName,
				URL:     item.URL,
				Date:    item.Date,
				Time:    item.Time,
				Circuit: mapCircuit(item.Circuit),
			})
		}
	}

	return races, payloads, nil
}

func (c *Client) FetchRaceResults(ctx context.Context, seasonYear, round int) ([]usecase.ExternalResult, []rawdata.Payload, error) {
	if err := validateSeasonRound(seasonYear, round); err != nil {
		return nil, nil, err
	}

	path := fmt.Sprintf("/%d/%d/results.json", seasonYear, round)
	pages, payloads, err := c.fetchPages(ctx, path, seasonYear, &round)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch race results season=%d round=%d: %w", seasonYear, round, err)
	}

	results := make([]usecase.ExternalResult, 0, 24)
	for _, page := range pages {
		if page.RaceTable == nil {
			continue
		}
		for _, race := range page.RaceTable.Races {
			for _, item := range race.Results {
				results = append(results, mapResult(race, item))
			}
		}
	}

	return results, payloads, nil
}

func (c *Client) FetchQualifying(ctx context.Context, seasonYear, round int) ([]usecase.ExternalQualifying, []rawdata.Payload, error) {
	if err := validateSeasonRound(seasonYear, round); err != nil {
		return nil, nil, err
	}

	path := fmt.Sprintf("/%d/%d/qualifying.json", seasonYear, round)
	pages, payloads, err := c.fetchPages(ctx, path, seasonYear, &round)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch qualifying season=%d round=%d: %w", seasonYear, round, err)
	}

	sessions := make([]usecase.ExternalQualifying, 0, 24)
	for _, page := range pages {
		if page.RaceTable == nil {
			continue
		}
		for _, race := range page.RaceTable.Races {
			for _, item := range race.QualifyingResults {
				sessions = append(sessions, usecase.ExternalQualifying{
					Season:      race.Season,
					Round:       race.Round,
					Position:    item.Position,
					Q1:          item.Q1,
					Q2:          item.Q2,
					Q3:          item.Q3,
					Driver:      mapDriver(item.Driver),
					Constructor: mapConstructor(item.Constructor),
				})
			}
		}
	}

	return sessions, payloads, nil
}

func (c *Client) FetchDriverStandings(ctx context.Context, seasonYear int) ([]usecase.ExternalDriverStanding, []rawdata.Payload, error) {
	if err := validateSeason(seasonYear); err != nil {
		return nil, nil, err
	}

	path := fmt.Sprintf("/%d/driverStandings.json", seasonYear)
	pages, payloads, err := c.fetchPages(ctx, path, seasonYear, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch driver standings season=%d: %w", seasonYear, err)
	}

	standings := make([]usecase.ExternalDriverStanding, 0, 24)
	for _, page := range pages {
		if page.StandingsTable == nil {
			continue
		}
		for _, list := range page.StandingsTable.StandingsLists {
			for _, item := range list.DriverStandings {
				constructors := make([]usecase.ExternalConstructor, 0, len(item.Constructors))
				for _, team := range item.Constructors {
					constructors = append(constructors, mapConstructor(team))
				}
				standings = append(standings, usecase.ExternalDriverStanding{
					Season:       list.Season,
					Position:     item.Position,
					PositionText: item.PositionText,
					Points:       item.Points,
					Wins:         item.Wins,
					Driver:       mapDriver(item.Driver),
					Constructors: constructors,
				})
			}
		}
	}

	return standings, payloads, nil
}

func (c *Client) FetchConstructorStandings(ctx context.Context, seasonYear int) ([]usecase.ExternalConstructorStanding, []rawdata.Payload, error) {
	if err := validateSeason(seasonYear); err != nil {
		return nil, nil, err
	}

	path := fmt.Sprintf("/%d/constructorStandings.json", seasonYear)
	pages, payloads, err := c.fetchPages(ctx, path, seasonYear, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch constructor standings season=%d: %w", seasonYear, err)
	}

	standings := make([]usecase.ExternalConstructorStanding, 0, 16)
	for _, page := range pages {
		if page.StandingsTable == nil {
			continue
		}
		for _, list := range page.StandingsTable.StandingsLists {
			for _, item := range list.ConstructorStandings {
				standings = append(standings, usecase.ExternalConstructorStanding{
					Season:       list.Season,
					Position:     item.Position,
					PositionText: item.PositionText,
					Points:       item.Points,
					Wins:         item.Wins,
					Constructor:  mapConstructor(item.Constructor),
				})
			}
		}
	}

	return standings, payloads, nil
}

// fetchPages walks the offset pagination of one endpoint until the reported
// total is exhausted. Each page's verbatim body is returned for raw storage.
func (c *Client) fetchPages(ctx context.Context, path string, seasonYear int, round *int) ([]mrData, []rawdata.Payload, error) {
	pages := make([]mrData, 0, 1)
	payloads := make([]rawdata.Payload, 0, 1)

	offset := 0
	for {
		query := map[string]string{
			"limit":  strconv.Itoa(c.pageLimit),
			"offset": strconv.Itoa(offset),
		}

		var envelope mrDataEnvelope
		raw, err := c.getJSON(ctx, path, query, &envelope)
		if err != nil {
			return nil, nil, err
		}

		pages = append(pages, envelope.MRData)
		payloads = append(payloads, buildAPIPayload(path, query, seasonYear, round, raw))

		total, err := strconv.Atoi(strings.TrimSpace(envelope.MRData.Total))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: pagination total %q is not numeric", usecase.ErrMalformedPayload, envelope.MRData.Total)
		}

		offset += c.pageLimit
		if offset >= total {
			break
		}
	}

	return pages, payloads, nil
}

// getJSON fetches one resource through the breaker, the singleflight group,
// and the retry loop, then decodes the body into target. The verbatim body
// comes back alongside so callers can archive it.
func (c *Client) getJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "ergast circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrTransientFetch)
		}
	}

	resource := canonicalResource(path, query)
	out, err, _ := c.flight.Do(resource, func() (any, error) {
		raw, reqErr := c.get(ctx, c.baseURL+resource)
		if c.circuitEnabled {
			if stderrors.Is(reqErr, errErgastTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if stderrors.Is(err, errErgastTransient) {
			return nil, fmt.Errorf("%w: %v", usecase.ErrTransientFetch, err)
		}
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("%w: decode provider payload: %v", usecase.ErrMalformedPayload, err)
	}

	return raw, nil
}

// get retries transient failures with exponential backoff. Failures that
// are not wrapped in errErgastTransient abort the loop immediately.
func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		raw, err := c.getOnce(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		if !stderrors.Is(err, errErgastTransient) {
			return nil, err
		}
		lastErr = err

		if attempt == c.maxRetries {
			break
		}
		if err := sleepBackoff(ctx, c.retryBaseDelay<<attempt); err != nil {
			return nil, err
		}
	}

	c.logger.WarnContext(ctx, "ergast request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) getOnce(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("user-agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errErgastTransient, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errErgastTransient, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: provider status=404", usecase.ErrNotFound)
	case isRetryableStatus(resp.StatusCode):
		return nil, fmt.Errorf("%w: provider status=%d body=%s", errErgastTransient, resp.StatusCode, trimBody(raw))
	default:
		return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, trimBody(raw))
	}
}

func sleepBackoff(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// canonicalResource renders path plus sorted query parameters. It keys the
// singleflight group and doubles as the stored payload's entity key, so the
// same resource always canonicalizes identically.
func canonicalResource(path string, query map[string]string) string {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	if encoded := values.Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}

func buildAPIPayload(path string, query map[string]string, seasonYear int, round *int, raw []byte) rawdata.Payload {
	return rawdata.Payload{
		Endpoint:    path,
		EntityKey:   canonicalResource(path, query),
		Season:      seasonYear,
		Round:       round,
		PayloadJSON: string(raw),
		FetchedAt:   time.Now().UTC(),
	}
}

func mapCircuit(item circuitItem) usecase.ExternalCircuit {
	return usecase.ExternalCircuit{
		Ref:      item.CircuitID,
		Name:     item.Name,
		Locality: item.Location.Locality,
		Country:  item.Location.Country,
		Lat:      item.Location.Lat,
		Long:     item.Location.Long,
		URL:      item.URL,
	}
}

func mapDriver(item driverItem) usecase.ExternalDriver {
	return usecase.ExternalDriver{
		Ref:             item.DriverID,
		PermanentNumber: item.PermanentNumber,
		Code:            item.Code,
		GivenName:       item.GivenName,
		FamilyName:      item.FamilyName,
		DateOfBirth:     item.DateOfBirth,
		Nationality:     item.Nationality,
		URL:             item.URL,
	}
}

func mapConstructor(item constructorItem) usecase.ExternalConstructor {
	return usecase.ExternalConstructor{
		Ref:         item.ConstructorID,
		Name:        item.Name,
		Nationality: item.Nationality,
		URL:         item.URL,
	}
}

func mapResult(race raceItem, item resultItem) usecase.ExternalResult {
	out := usecase.ExternalResult{
		Season:       race.Season,
		Round:        race.Round,
		Number:       item.Number,
		Position:     item.Position,
		PositionText: item.PositionText,
		Points:       item.Points,
		Grid:         item.Grid,
		Laps:         item.Laps,
		Status:       item.Status,
		Driver:       mapDriver(item.Driver),
		Constructor:  mapConstructor(item.Constructor),
	}
	if item.Time != nil {
		out.TimeMillis = item.Time.Millis
	}
	if item.FastestLap != nil {
		out.FastestLapRank = item.FastestLap.Rank
	}
	return out
}

func validateSeason(seasonYear int) error {
	// The championship starts in 1950; earlier years are "no data", not a
	// caller bug.
	if seasonYear < minSeason {
		return fmt.Errorf("%w: no data before season %d", usecase.ErrNotFound, minSeason)
	}
	return nil
}

func validateSeasonRound(seasonYear, round int) error {
	if err := validateSeason(seasonYear); err != nil {
		return err
	}
	if round < 1 {
		return fmt.Errorf("%w: round must be >= 1", usecase.ErrInvalidInput)
	}
	return nil
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func trimBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
