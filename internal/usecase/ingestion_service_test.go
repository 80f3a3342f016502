package usecase

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pitwall/f1-stats/internal/domain/circuit"
	"github.com/pitwall/f1-stats/internal/domain/constructor"
	"github.com/pitwall/f1-stats/internal/domain/driver"
	"github.com/pitwall/f1-stats/internal/domain/metrics"
	"github.com/pitwall/f1-stats/internal/domain/qualifying"
	"github.com/pitwall/f1-stats/internal/domain/race"
	"github.com/pitwall/f1-stats/internal/domain/rawdata"
	"github.com/pitwall/f1-stats/internal/domain/result"
	"github.com/pitwall/f1-stats/internal/domain/season"
	"github.com/pitwall/f1-stats/internal/domain/standing"
	"github.com/pitwall/f1-stats/internal/infrastructure/repository/memory"
	"github.com/pitwall/f1-stats/internal/platform/cache"
	"github.com/pitwall/f1-stats/internal/platform/logging"
)

type seqIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.n++
	return fmt.Sprintf("id-%04d", g.n), nil
}

type ingestionFixture struct {
	svc        *IngestionService
	results    *memory.ResultRepository
	qualifying *memory.QualifyingRepository
	standings  *memory.StandingRepository
	metrics    *memory.MetricsRepository
	rawData    *memory.RawDataRepository
}

func newIngestionFixture() *ingestionFixture {
	fix := &ingestionFixture{
		results:    memory.NewResultRepository(),
		qualifying: memory.NewQualifyingRepository(),
		standings:  memory.NewStandingRepository(),
		metrics:    memory.NewMetricsRepository(),
		rawData:    memory.NewRawDataRepository(),
	}
	fix.svc = NewIngestionService(
		memory.NewSeasonRepository(),
		memory.NewCircuitRepository(),
		memory.NewDriverRepository(),
		memory.NewConstructorRepository(),
		memory.NewRaceRepository(),
		fix.results,
		fix.qualifying,
		fix.standings,
		fix.metrics,
		fix.rawData,
		&seqIDGenerator{},
		cache.NewStore(time.Minute),
		logging.NewNop(),
	)
	return fix
}

func monacoUnit() RaceUnit {
	return RaceUnit{
		Race: race.Race{
			Season:     2019,
			Round:      6,
			Name:       "Monaco Grand Prix",
			CircuitRef: "monaco",
			Date:       time.Date(2019, time.May, 26, 0, 0, 0, 0, time.UTC),
			StartTime:  "13:10:00Z",
		},
		Circuits: []circuit.Circuit{
			{Ref: "monaco", Name: "Circuit de Monaco", Locality: "Monte-Carlo", Country: "Monaco"},
		},
		Drivers: []driver.Driver{
			{Ref: "hamilton", Code: "HAM", GivenName: "Lewis", FamilyName: "Hamilton", Nationality: "British"},
			{Ref: "vettel", Code: "VET", GivenName: "Sebastian", FamilyName: "Vettel", Nationality: "German"},
		},
		Constructors: []constructor.Constructor{
			{Ref: "mercedes", Name: "Mercedes", Nationality: "German"},
			{Ref: "ferrari", Name: "Ferrari", Nationality: "Italian"},
		},
		Results: []result.Result{
			{Season: 2019, Round: 6, DriverRef: "hamilton", ConstructorRef: "mercedes", Grid: 1, Position: intPtr(1), PositionText: "1", PositionOrder: 1, Points: 25, Laps: 78, Status: "Finished", EraTag: "2019"},
			{Season: 2019, Round: 6, DriverRef: "vettel", ConstructorRef: "ferrari", Grid: 4, Position: intPtr(2), PositionText: "2", PositionOrder: 2, Points: 18, Laps: 78, Status: "Finished", EraTag: "2019"},
		},
		Qualifying: []qualifying.Qualifying{
			{Season: 2019, Round: 6, DriverRef: "hamilton", ConstructorRef: "mercedes", Position: 1, Q1: "1:11.542", Q2: "1:10.884", Q3: "1:10.166"},
			{Season: 2019, Round: 6, DriverRef: "vettel", ConstructorRef: "ferrari", Position: 4, Q1: "1:11.434", Q2: "1:11.126", Q3: "1:10.947"},
		},
	}
}

func TestIngestionService_LoadRaceUnit_FirstLoadInsertsEverything(t *testing.T) {
	t.Parallel()

	fix := newIngestionFixture()

	summary, err := fix.svc.LoadRaceUnit(t.Context(), monacoUnit())
	if err != nil {
		t.Fatalf("LoadRaceUnit error: %v", err)
	}
	if summary.Inserted != 10 || summary.Updated != 0 || summary.Unchanged != 0 || summary.Failed != 0 {
		t.Fatalf("expected 10 inserts on a fresh store, got %+v", summary)
	}

	rows, err := fix.results.ListByRace(t.Context(), 2019, 6)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 result rows, got=%d", len(rows))
	}
	for _, row := range rows {
		if row.ID == "" {
			t.Fatalf("expected minted id on result for %s", row.DriverRef)
		}
	}

	quals, err := fix.qualifying.ListByRace(t.Context(), 2019, 6)
	if err != nil {
		t.Fatalf("list qualifying: %v", err)
	}
	if len(quals) != 2 {
		t.Fatalf("expected 2 qualifying rows, got=%d", len(quals))
	}
}

func TestIngestionService_LoadRaceUnit_RerunIsIdempotent(t *testing.T) {
	t.Parallel()

	fix := newIngestionFixture()

	if _, err := fix.svc.LoadRaceUnit(t.Context(), monacoUnit()); err != nil {
		t.Fatalf("first load: %v", err)
	}
	before, err := fix.results.ListByRace(t.Context(), 2019, 6)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}

	summary, err := fix.svc.LoadRaceUnit(t.Context(), monacoUnit())
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if summary.Inserted != 0 || summary.Updated != 0 {
		t.Fatalf("expected a no-op rerun, got %+v", summary)
	}
	if summary.Unchanged != 10 {
		t.Fatalf("expected 10 unchanged rows, got %+v", summary)
	}

	after, err := fix.results.ListByRace(t.Context(), 2019, 6)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	for idx := range before {
		if after[idx].ID != before[idx].ID {
			t.Fatalf("result id churned for %s: %s to %s", before[idx].DriverRef, before[idx].ID, after[idx].ID)
		}
	}
}

func TestIngestionService_LoadRaceUnit_ChangedRowConvergesWithStableIDs(t *testing.T) {
	t.Parallel()

	fix := newIngestionFixture()

	if _, err := fix.svc.LoadRaceUnit(t.Context(), monacoUnit()); err != nil {
		t.Fatalf("first load: %v", err)
	}
	before, err := fix.results.ListByRace(t.Context(), 2019, 6)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	idByDriver := make(map[string]string, len(before))
	for _, row := range before {
		idByDriver[row.DriverRef] = row.ID
	}

	corrected := monacoUnit()
	corrected.Results[1].Points = 15

	summary, err := fix.svc.LoadRaceUnit(t.Context(), corrected)
	if err != nil {
		t.Fatalf("corrected load: %v", err)
	}
	if summary.Updated != 1 || summary.Unchanged != 9 || summary.Inserted != 0 {
		t.Fatalf("expected one updated row, got %+v", summary)
	}

	after, err := fix.results.ListByRace(t.Context(), 2019, 6)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	for _, row := range after {
		if row.ID != idByDriver[row.DriverRef] {
			t.Fatalf("result id churned for %s: %s to %s", row.DriverRef, idByDriver[row.DriverRef], row.ID)
		}
		if row.DriverRef == "vettel" && row.Points != 15 {
			t.Fatalf("expected corrected points to land, got %v", row.Points)
		}
	}
}

func TestIngestionService_LoadRaceUnit_EmptyQualifyingClearsStoredRows(t *testing.T) {
	t.Parallel()

	fix := newIngestionFixture()

	if _, err := fix.svc.LoadRaceUnit(t.Context(), monacoUnit()); err != nil {
		t.Fatalf("first load: %v", err)
	}

	withdrawn := monacoUnit()
	withdrawn.Qualifying = nil

	summary, err := fix.svc.LoadRaceUnit(t.Context(), withdrawn)
	if err != nil {
		t.Fatalf("reload without qualifying: %v", err)
	}
	if summary.Unchanged != 8 || summary.Inserted != 0 || summary.Updated != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	quals, err := fix.qualifying.ListByRace(t.Context(), 2019, 6)
	if err != nil {
		t.Fatalf("list qualifying: %v", err)
	}
	if len(quals) != 0 {
		t.Fatalf("expected qualifying rows cleared, got=%d", len(quals))
	}
}

func TestIngestionService_LoadRaceUnit_RejectsInvalidSeasonOrRound(t *testing.T) {
	t.Parallel()

	fix := newIngestionFixture()

	early := monacoUnit()
	early.Race.Season = 1949
	if _, err := fix.svc.LoadRaceUnit(t.Context(), early); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for pre-championship season, got %v", err)
	}

	unrounded := monacoUnit()
	unrounded.Race.Round = 0
	if _, err := fix.svc.LoadRaceUnit(t.Context(), unrounded); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for round zero, got %v", err)
	}
}

func seasonAggregates() SeasonAggregates {
	return SeasonAggregates{
		Season: season.Season{Year: 2019, URL: "http://en.wikipedia.org/wiki/2019_Formula_One_World_Championship"},
		DriverStandings: []standing.DriverStanding{
			{Season: 2019, DriverRef: "hamilton", Position: 1, Points: 413, Wins: 11, EraTag: "2019"},
			{Season: 2019, DriverRef: "bottas", Position: 2, Points: 326, Wins: 4, EraTag: "2019"},
		},
		ConstructorStandings: []standing.ConstructorStanding{
			{Season: 2019, ConstructorRef: "mercedes", Position: 1, Points: 739, Wins: 15, EraTag: "2019"},
		},
		DriverMetrics: []metrics.DriverMetrics{
			{Season: 2019, DriverRef: "hamilton", EraTag: "2019", RacesEntered: 21, RacesFinished: 21, Wins: 11, Podiums: 17, TotalPoints: 413, AvgFinish: float64Ptr(2.333), AvgGrid: float64Ptr(2.857), AvgPointsPerRace: 19.667},
		},
		ConstructorMetrics: []metrics.ConstructorMetrics{
			{Season: 2019, ConstructorRef: "mercedes", EraTag: "2019", RacesEntered: 21, Wins: 15, Podiums: 32, TotalPoints: 739, AvgFinish: float64Ptr(2.405), AvgPointsPerRace: 35.19, ReliabilityRate: float64Ptr(97.619)},
		},
	}
}

func TestIngestionService_LoadSeasonAggregates_RerunIsIdempotent(t *testing.T) {
	t.Parallel()

	fix := newIngestionFixture()

	first, err := fix.svc.LoadSeasonAggregates(t.Context(), seasonAggregates())
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.Inserted != 6 || first.Updated != 0 || first.Unchanged != 0 {
		t.Fatalf("expected 6 inserts on a fresh store, got %+v", first)
	}

	second, err := fix.svc.LoadSeasonAggregates(t.Context(), seasonAggregates())
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if second.Inserted != 0 || second.Updated != 0 || second.Unchanged != 6 {
		t.Fatalf("expected a no-op rerun, got %+v", second)
	}

	standings, err := fix.standings.ListDriverStandings(t.Context(), 2019)
	if err != nil {
		t.Fatalf("list driver standings: %v", err)
	}
	if len(standings) != 2 {
		t.Fatalf("expected 2 driver standings, got=%d", len(standings))
	}
}

func TestIngestionService_LoadSeasonAggregates_RevisedStandingConverges(t *testing.T) {
	t.Parallel()

	fix := newIngestionFixture()

	if _, err := fix.svc.LoadSeasonAggregates(t.Context(), seasonAggregates()); err != nil {
		t.Fatalf("first load: %v", err)
	}

	revised := seasonAggregates()
	revised.DriverStandings[1].Points = 330

	summary, err := fix.svc.LoadSeasonAggregates(t.Context(), revised)
	if err != nil {
		t.Fatalf("revised load: %v", err)
	}
	if summary.Updated != 1 || summary.Inserted != 0 {
		t.Fatalf("expected one updated standing, got %+v", summary)
	}

	standings, err := fix.standings.ListDriverStandings(t.Context(), 2019)
	if err != nil {
		t.Fatalf("list driver standings: %v", err)
	}
	for _, row := range standings {
		if row.DriverRef == "bottas" && row.Points != 330 {
			t.Fatalf("expected revised points to land, got %v", row.Points)
		}
	}
}

func TestIngestionService_UpsertRawPayloads_DedupesBySourceAndKey(t *testing.T) {
	t.Parallel()

	fix := newIngestionFixture()

	item := rawdata.Payload{
		Endpoint:    "/api/f1/2019/6/results.json",
		EntityKey:   "results/2019/6",
		Season:      2019,
		Round:       intPtr(6),
		PayloadJSON: `{"MRData":{"RaceTable":{"Races":[]}}}`,
	}

	if err := fix.svc.UpsertRawPayloads(t.Context(), "", []rawdata.Payload{item}); err != nil {
		t.Fatalf("UpsertRawPayloads error: %v", err)
	}
	if err := fix.svc.UpsertRawPayloads(t.Context(), " Ergast ", []rawdata.Payload{item}); err != nil {
		t.Fatalf("UpsertRawPayloads rerun error: %v", err)
	}
	if fix.rawData.Stored() != 1 {
		t.Fatalf("expected one stored payload after replay, got=%d", fix.rawData.Stored())
	}

	other := item
	other.EntityKey = "qualifying/2019/6"
	if err := fix.svc.UpsertRawPayloads(t.Context(), "", []rawdata.Payload{other}); err != nil {
		t.Fatalf("UpsertRawPayloads second key error: %v", err)
	}
	if fix.rawData.Stored() != 2 {
		t.Fatalf("expected two stored payloads, got=%d", fix.rawData.Stored())
	}
}

func TestIngestionService_UpsertRawPayloads_RejectsIncompleteItems(t *testing.T) {
	t.Parallel()

	fix := newIngestionFixture()

	err := fix.svc.UpsertRawPayloads(t.Context(), "ergast", []rawdata.Payload{{
		Endpoint:    "/api/f1/2019.json",
		PayloadJSON: `{}`,
	}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing entity key, got %v", err)
	}
}
