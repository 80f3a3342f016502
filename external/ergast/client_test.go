package ergast

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/pitwall/f1-stats/internal/platform/resilience"
	"github.com/pitwall/f1-stats/internal/usecase"
)

const testBaseURL = "https://ergast.test/api/f1"

func newTestClient(t *testing.T, maxRetries, pageLimit int) *Client {
	t.Helper()

	httpClient := &http.Client{}
	httpmock.ActivateNonDefault(httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	return NewClient(ClientConfig{
		HTTPClient:     httpClient,
		BaseURL:        testBaseURL,
		MaxRetries:     maxRetries,
		RetryBaseDelay: time.Millisecond,
		PageLimit:      pageLimit,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
}

func resultsPage(offset, total string, rows string) string {
	return `{"MRData":{"series":"f1","limit":"2","offset":"` + offset + `","total":"` + total + `",` +
		`"RaceTable":{"season":"2024","round":"1","Races":[{"season":"2024","round":"1",` +
		`"raceName":"Bahrain Grand Prix","Circuit":{"circuitId":"bahrain","circuitName":"Bahrain International Circuit",` +
		`"Location":{"lat":"26.0325","long":"50.5106","locality":"Sakhir","country":"Bahrain"}},` +
		`"date":"2024-03-02","time":"15:00:00Z","Results":[` + rows + `]}]}}}`
}

func resultRow(position, driverRef, points string) string {
	return `{"number":"1","position":"` + position + `","positionText":"` + position + `","points":"` + points + `",` +
		`"Driver":{"driverId":"` + driverRef + `","code":"VER","givenName":"Max","familyName":"Verstappen",` +
		`"dateOfBirth":"1997-09-30","nationality":"Dutch"},` +
		`"Constructor":{"constructorId":"red_bull","name":"Red Bull","nationality":"Austrian"},` +
		`"grid":"1","laps":"57","status":"Finished",` +
		`"Time":{"millis":"5504742","time":"1:31:44.742"},"FastestLap":{"rank":"1","lap":"39"}}`
}

func TestClient_FetchRaceResults_PaginatesUntilTotal(t *testing.T) {
	client := newTestClient(t, 0, 2)

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/2024/1/results.json",
		func(req *http.Request) (*http.Response, error) {
			switch req.URL.Query().Get("offset") {
			case "0":
				rows := resultRow("1", "max_verstappen", "26") + "," + resultRow("2", "perez", "18")
				return httpmock.NewStringResponse(http.StatusOK, resultsPage("0", "3", rows)), nil
			case "2":
				return httpmock.NewStringResponse(http.StatusOK, resultsPage("2", "3", resultRow("3", "sainz", "15"))), nil
			default:
				return httpmock.NewStringResponse(http.StatusBadRequest, "unexpected offset"), nil
			}
		})

	results, payloads, err := client.FetchRaceResults(context.Background(), 2024, 1)
	if err != nil {
		t.Fatalf("fetch race results: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results across pages, got %d", len(results))
	}
	if len(payloads) != 2 {
		t.Fatalf("expected 2 raw payloads, got %d", len(payloads))
	}

	first := results[0]
	if first.Driver.Ref != "max_verstappen" {
		t.Fatalf("unexpected driver ref: %q", first.Driver.Ref)
	}
	if first.Points != "26" {
		t.Fatalf("unexpected points: %q", first.Points)
	}
	if first.TimeMillis != "5504742" {
		t.Fatalf("unexpected time millis: %q", first.TimeMillis)
	}
	if first.FastestLapRank != "1" {
		t.Fatalf("unexpected fastest lap rank: %q", first.FastestLapRank)
	}
	if payloads[0].Endpoint != "/2024/1/results.json" {
		t.Fatalf("unexpected payload endpoint: %q", payloads[0].Endpoint)
	}
	if payloads[0].Round == nil || *payloads[0].Round != 1 {
		t.Fatalf("expected payload round=1, got %+v", payloads[0].Round)
	}
}

func TestClient_FetchSeasonSchedule_MapsCircuit(t *testing.T) {
	client := newTestClient(t, 0, 100)

	body := `{"MRData":{"limit":"100","offset":"0","total":"1","RaceTable":{"season":"1957","Races":[` +
		`{"season":"1957","round":"4","url":"http://example.org/1957_french_gp","raceName":"French Grand Prix",` +
		`"Circuit":{"circuitId":"rouen","circuitName":"Rouen-Les-Essarts",` +
		`"Location":{"lat":"49.3306","long":"1.00458","locality":"Rouen","country":"France"}},"date":"1957-07-07"}]}}}`
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/1957.json", httpmock.NewStringResponder(http.StatusOK, body))

	races, payloads, err := client.FetchSeasonSchedule(context.Background(), 1957)
	if err != nil {
		t.Fatalf("fetch season schedule: %v", err)
	}
	if len(races) != 1 || len(payloads) != 1 {
		t.Fatalf("unexpected counts races=%d payloads=%d", len(races), len(payloads))
	}

	race := races[0]
	if race.Round != "4" {
		t.Fatalf("unexpected round: %q", race.Round)
	}
	if race.Circuit.Ref != "rouen" {
		t.Fatalf("unexpected circuit ref: %q", race.Circuit.Ref)
	}
	if race.Circuit.Country != "France" {
		t.Fatalf("unexpected circuit country: %q", race.Circuit.Country)
	}
}

func TestClient_FetchDriverStandings_MapsStandingsList(t *testing.T) {
	client := newTestClient(t, 0, 100)

	body := `{"MRData":{"limit":"100","offset":"0","total":"2","StandingsTable":{"season":"2024","StandingsLists":[` +
		`{"season":"2024","round":"24","DriverStandings":[` +
		`{"position":"1","positionText":"1","points":"437","wins":"9",` +
		`"Driver":{"driverId":"max_verstappen","givenName":"Max","familyName":"Verstappen"},` +
		`"Constructors":[{"constructorId":"red_bull","name":"Red Bull"}]},` +
		`{"position":"2","positionText":"2","points":"374","wins":"2",` +
		`"Driver":{"driverId":"norris","givenName":"Lando","familyName":"Norris"},` +
		`"Constructors":[{"constructorId":"mclaren","name":"McLaren"}]}]}]}}}`
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/2024/driverStandings.json", httpmock.NewStringResponder(http.StatusOK, body))

	standings, _, err := client.FetchDriverStandings(context.Background(), 2024)
	if err != nil {
		t.Fatalf("fetch driver standings: %v", err)
	}
	if len(standings) != 2 {
		t.Fatalf("expected 2 standings, got %d", len(standings))
	}
	if standings[0].Driver.Ref != "max_verstappen" {
		t.Fatalf("unexpected leader ref: %q", standings[0].Driver.Ref)
	}
	if standings[1].Constructors[0].Ref != "mclaren" {
		t.Fatalf("unexpected constructor ref: %q", standings[1].Constructors[0].Ref)
	}
}

func TestClient_FetchRaceResults_RetriesTransientStatus(t *testing.T) {
	client := newTestClient(t, 2, 100)

	var calls atomic.Int32
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/2024/1/results.json",
		func(req *http.Request) (*http.Response, error) {
			if calls.Add(1) == 1 {
				return httpmock.NewStringResponse(http.StatusInternalServerError, "upstream exploded"), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, resultsPage("0", "1", resultRow("1", "max_verstappen", "25"))), nil
		})

	results, _, err := client.FetchRaceResults(context.Background(), 2024, 1)
	if err != nil {
		t.Fatalf("fetch race results after retry: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", got)
	}
}

func TestClient_FetchRaceResults_TransientExhaustionYieldsTypedError(t *testing.T) {
	client := newTestClient(t, 1, 100)

	var calls atomic.Int32
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/2024/1/results.json",
		func(req *http.Request) (*http.Response, error) {
			calls.Add(1)
			return httpmock.NewStringResponse(http.StatusTooManyRequests, "slow down"), nil
		})

	_, _, err := client.FetchRaceResults(context.Background(), 2024, 1)
	if !errors.Is(err, usecase.ErrTransientFetch) {
		t.Fatalf("expected ErrTransientFetch, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected initial call plus one retry, got %d", got)
	}
}

func TestClient_FetchRaceResults_NotFoundIsNotRetried(t *testing.T) {
	client := newTestClient(t, 3, 100)

	var calls atomic.Int32
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/2026/30/results.json",
		func(req *http.Request) (*http.Response, error) {
			calls.Add(1)
			return httpmock.NewStringResponse(http.StatusNotFound, "not found"), nil
		})

	_, _, err := client.FetchRaceResults(context.Background(), 2026, 30)
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single upstream call, got %d", got)
	}
}

func TestClient_FetchRaceResults_ClientErrorIsFatal(t *testing.T) {
	client := newTestClient(t, 3, 100)

	var calls atomic.Int32
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/2024/1/results.json",
		func(req *http.Request) (*http.Response, error) {
			calls.Add(1)
			return httpmock.NewStringResponse(http.StatusBadRequest, "bad request"), nil
		})

	_, _, err := client.FetchRaceResults(context.Background(), 2024, 1)
	if err == nil {
		t.Fatalf("expected error for status 400")
	}
	if errors.Is(err, usecase.ErrTransientFetch) {
		t.Fatalf("status 400 must not be transient: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single upstream call, got %d", got)
	}
}

func TestClient_FetchRaceResults_MalformedEnvelope(t *testing.T) {
	client := newTestClient(t, 0, 100)

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/2024/1/results.json",
		httpmock.NewStringResponder(http.StatusOK, `{"MRData":{"total":"not-a-number"}}`))

	_, _, err := client.FetchRaceResults(context.Background(), 2024, 1)
	if !errors.Is(err, usecase.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestClient_FetchSeasonSchedule_PreChampionshipSeasonIsNoData(t *testing.T) {
	client := newTestClient(t, 0, 100)

	_, _, err := client.FetchSeasonSchedule(context.Background(), 1949)
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
