package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/pitwall/f1-stats/internal/domain/etlrun"
	"github.com/pitwall/f1-stats/internal/domain/rawdata"
	"github.com/pitwall/f1-stats/internal/domain/result"
	"github.com/pitwall/f1-stats/internal/infrastructure/repository/memory"
	"github.com/pitwall/f1-stats/internal/platform/cache"
	"github.com/pitwall/f1-stats/internal/platform/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("github.com/panjf2000/ants/v2.(*poolCommon).purgeStaleWorkers"),
		goleak.IgnoreTopFunction("github.com/panjf2000/ants/v2.(*poolCommon).ticktock"),
	)
}

type fakeStatsProvider struct {
	mu                   sync.Mutex
	schedules            map[int][]ExternalRace
	scheduleErr          map[int]error
	results              map[string][]ExternalResult
	resultErr            map[string]error
	qualifying           map[string][]ExternalQualifying
	driverStandings      map[int][]ExternalDriverStanding
	constructorStandings map[int][]ExternalConstructorStanding

	onFetchResults func(seasonYear, round int)
}

func fetchKey(seasonYear, round int) string {
	return fmt.Sprintf("%d/%d", seasonYear, round)
}

func fetchPayload(entityKey string, seasonYear int) []rawdata.Payload {
	return []rawdata.Payload{{
		Endpoint:    "/api/f1/" + entityKey + ".json",
		EntityKey:   entityKey,
		Season:      seasonYear,
		PayloadJSON: fmt.Sprintf(`{"entity":%q}`, entityKey),
	}}
}

func (p *fakeStatsProvider) FetchSeasonSchedule(_ context.Context, seasonYear int) ([]ExternalRace, []rawdata.Payload, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.scheduleErr[seasonYear]; err != nil {
		return nil, nil, err
	}
	races, ok := p.schedules[seasonYear]
	if !ok {
		return nil, nil, fmt.Errorf("%w: no schedule for season %d", ErrNotFound, seasonYear)
	}
	return races, fetchPayload(fmt.Sprintf("schedule/%d", seasonYear), seasonYear), nil
}

func (p *fakeStatsProvider) FetchRaceResults(_ context.Context, seasonYear, round int) ([]ExternalResult, []rawdata.Payload, error) {
	if p.onFetchResults != nil {
		p.onFetchResults(seasonYear, round)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	key := fetchKey(seasonYear, round)
	if err := p.resultErr[key]; err != nil {
		return nil, nil, err
	}
	rows, ok := p.results[key]
	if !ok {
		return nil, nil, fmt.Errorf("%w: no results for %s", ErrNotFound, key)
	}
	return rows, fetchPayload("results/"+key, seasonYear), nil
}

func (p *fakeStatsProvider) FetchQualifying(_ context.Context, seasonYear, round int) ([]ExternalQualifying, []rawdata.Payload, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := fetchKey(seasonYear, round)
	rows, ok := p.qualifying[key]
	if !ok {
		return nil, nil, fmt.Errorf("%w: no qualifying for %s", ErrNotFound, key)
	}
	return rows, fetchPayload("qualifying/"+key, seasonYear), nil
}

func (p *fakeStatsProvider) FetchDriverStandings(_ context.Context, seasonYear int) ([]ExternalDriverStanding, []rawdata.Payload, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rows, ok := p.driverStandings[seasonYear]
	if !ok {
		return nil, nil, fmt.Errorf("%w: no driver standings for season %d", ErrNotFound, seasonYear)
	}
	return rows, fetchPayload(fmt.Sprintf("driver-standings/%d", seasonYear), seasonYear), nil
}

func (p *fakeStatsProvider) FetchConstructorStandings(_ context.Context, seasonYear int) ([]ExternalConstructorStanding, []rawdata.Payload, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rows, ok := p.constructorStandings[seasonYear]
	if !ok {
		return nil, nil, fmt.Errorf("%w: no constructor standings for season %d", ErrNotFound, seasonYear)
	}
	return rows, fetchPayload(fmt.Sprintf("constructor-standings/%d", seasonYear), seasonYear), nil
}

func extRace(seasonYear, round int, name, circuitRef, date string) ExternalRace {
	return ExternalRace{
		Season:  strconv.Itoa(seasonYear),
		Round:   strconv.Itoa(round),
		Name:    name,
		Date:    date,
		Circuit: ExternalCircuit{Ref: circuitRef, Name: name},
	}
}

func extResult(seasonYear, round, position int, points, driverRef, constructorRef string) ExternalResult {
	pos := strconv.Itoa(position)
	return ExternalResult{
		Season:       strconv.Itoa(seasonYear),
		Round:        strconv.Itoa(round),
		Position:     pos,
		PositionText: pos,
		Points:       points,
		Grid:         pos,
		Laps:         "58",
		Status:       "Finished",
		Driver:       ExternalDriver{Ref: driverRef},
		Constructor:  ExternalConstructor{Ref: constructorRef},
	}
}

func extQualifying(seasonYear, round, position int, driverRef, constructorRef string) ExternalQualifying {
	return ExternalQualifying{
		Season:      strconv.Itoa(seasonYear),
		Round:       strconv.Itoa(round),
		Position:    strconv.Itoa(position),
		Q1:          "1:30.000",
		Driver:      ExternalDriver{Ref: driverRef},
		Constructor: ExternalConstructor{Ref: constructorRef},
	}
}

// providerForSeason builds an upstream with the given number of completed
// rounds, two cars per round.
func providerForSeason(seasonYear, rounds int) *fakeStatsProvider {
	p := &fakeStatsProvider{
		schedules:            make(map[int][]ExternalRace),
		results:              make(map[string][]ExternalResult),
		qualifying:           make(map[string][]ExternalQualifying),
		driverStandings:      make(map[int][]ExternalDriverStanding),
		constructorStandings: make(map[int][]ExternalConstructorStanding),
	}
	addSeason(p, seasonYear, rounds)
	return p
}

func addSeason(p *fakeStatsProvider, seasonYear, rounds int) {
	names := []string{"Australian Grand Prix", "Bahrain Grand Prix", "Chinese Grand Prix"}
	circuits := []string{"albert_park", "bahrain", "shanghai"}

	schedule := make([]ExternalRace, 0, rounds)
	for round := 1; round <= rounds; round++ {
		date := fmt.Sprintf("%d-03-%02d", seasonYear, 10+round)
		schedule = append(schedule, extRace(seasonYear, round, names[round-1], circuits[round-1], date))

		key := fetchKey(seasonYear, round)
		p.results[key] = []ExternalResult{
			extResult(seasonYear, round, 1, "25", "hamilton", "mercedes"),
			extResult(seasonYear, round, 2, "18", "vettel", "ferrari"),
		}
		p.qualifying[key] = []ExternalQualifying{
			extQualifying(seasonYear, round, 1, "hamilton", "mercedes"),
			extQualifying(seasonYear, round, 2, "vettel", "ferrari"),
		}
	}
	p.schedules[seasonYear] = schedule

	year := strconv.Itoa(seasonYear)
	p.driverStandings[seasonYear] = []ExternalDriverStanding{
		{Season: year, Position: "1", Points: strconv.Itoa(25 * rounds), Wins: strconv.Itoa(rounds), Driver: ExternalDriver{Ref: "hamilton"}},
		{Season: year, Position: "2", Points: strconv.Itoa(18 * rounds), Driver: ExternalDriver{Ref: "vettel"}},
	}
	p.constructorStandings[seasonYear] = []ExternalConstructorStanding{
		{Season: year, Position: "1", Points: strconv.Itoa(25 * rounds), Wins: strconv.Itoa(rounds), Constructor: ExternalConstructor{Ref: "mercedes"}},
		{Season: year, Position: "2", Points: strconv.Itoa(18 * rounds), Constructor: ExternalConstructor{Ref: "ferrari"}},
	}
}

type captureAlertPublisher struct {
	mu     sync.Mutex
	alerts []RunAlert
}

func (p *captureAlertPublisher) PublishRunAlert(_ context.Context, alert RunAlert) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.alerts = append(p.alerts, alert)
	return nil
}

func (p *captureAlertPublisher) last() (RunAlert, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.alerts) == 0 {
		return RunAlert{}, false
	}
	return p.alerts[len(p.alerts)-1], true
}

type outageResultRepo struct {
	*memory.ResultRepository
}

func (r *outageResultRepo) ReplaceByRace(context.Context, int, int, []result.Result) error {
	return fmt.Errorf("exec replace: %w", ErrStorageUnavailable)
}

type pipelineFixture struct {
	provider *fakeStatsProvider
	runs     *memory.ETLRunRepository
	rawData  *memory.RawDataRepository
	alerts   *captureAlertPublisher
	svc      *PipelineService
}

func newPipelineFixture(provider *fakeStatsProvider, cfg PipelineConfig) *pipelineFixture {
	return newPipelineFixtureWithResults(provider, cfg, memory.NewResultRepository())
}

func newPipelineFixtureWithResults(provider *fakeStatsProvider, cfg PipelineConfig, resultRepo result.Repository) *pipelineFixture {
	qualRepo := memory.NewQualifyingRepository()
	metricsRepo := memory.NewMetricsRepository()
	rawData := memory.NewRawDataRepository()

	ingestion := NewIngestionService(
		memory.NewSeasonRepository(),
		memory.NewCircuitRepository(),
		memory.NewDriverRepository(),
		memory.NewConstructorRepository(),
		memory.NewRaceRepository(),
		resultRepo,
		qualRepo,
		memory.NewStandingRepository(),
		metricsRepo,
		rawData,
		&seqIDGenerator{},
		cache.NewStore(time.Minute),
		logging.NewNop(),
	)
	normalizer := NewNormalizerService(memory.NewAliasRepository(memory.SeedAliases()), logging.NewNop())
	metricsService := NewMetricsService(metricsRepo, logging.NewNop())
	runs := memory.NewETLRunRepository()
	alerts := &captureAlertPublisher{}

	svc := NewPipelineService(
		provider,
		normalizer,
		metricsService,
		ingestion,
		runs,
		resultRepo,
		qualRepo,
		alerts,
		&seqIDGenerator{},
		cfg,
		logging.NewNop(),
	)
	return &pipelineFixture{provider: provider, runs: runs, rawData: rawData, alerts: alerts, svc: svc}
}

func TestPipelineService_Run_SeasonModeLoadsFullSeason(t *testing.T) {
	t.Parallel()

	fix := newPipelineFixture(providerForSeason(2019, 2), PipelineConfig{MaxWorkers: 2, CurrentYear: 2019})

	out, err := fix.svc.Run(t.Context(), SeasonMode{Years: []int{2019}})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Mode != etlrun.ModeSeason {
		t.Fatalf("expected season mode, got %s", out.Mode)
	}
	if out.Status != etlrun.StatusSuccess {
		t.Fatalf("expected SUCCESS, got %s", out.Status)
	}
	if out.UnitsTotal != 3 || out.UnitsSucceeded != 3 || out.UnitsFailed != 0 || out.UnitsSkipped != 0 {
		t.Fatalf("unexpected unit counts: total=%d succeeded=%d failed=%d skipped=%d",
			out.UnitsTotal, out.UnitsSucceeded, out.UnitsFailed, out.UnitsSkipped)
	}
	if out.WorkerCount != 2 {
		t.Fatalf("expected 2 workers, got=%d", out.WorkerCount)
	}
	if out.Load.Inserted != 25 || out.Load.Unchanged != 4 || out.Load.Updated != 0 || out.Load.Failed != 0 {
		t.Fatalf("unexpected load totals: %+v", out.Load)
	}

	if len(out.Units) != 3 {
		t.Fatalf("expected 3 units, got=%d", len(out.Units))
	}
	if out.Units[0].Round != 1 || out.Units[1].Round != 2 || out.Units[2].Round != 0 {
		t.Fatalf("expected race units before the aggregate unit, got %+v", out.Units)
	}
	if out.Units[2].Name != "season aggregates" {
		t.Fatalf("unexpected aggregate unit name %q", out.Units[2].Name)
	}
	for _, unit := range out.Units {
		if unit.State != etlrun.UnitDone {
			t.Fatalf("expected every unit done, got %+v", unit)
		}
	}

	if fix.rawData.Stored() != 7 {
		t.Fatalf("expected 7 archived payloads, got=%d", fix.rawData.Stored())
	}

	run, err := fix.runs.GetByID(t.Context(), out.RunID)
	if err != nil || run == nil {
		t.Fatalf("expected a run record, got run=%v err=%v", run, err)
	}
	if run.Status != etlrun.StatusSuccess || run.UnitsTotal != 3 || run.FinishedAt == nil {
		t.Fatalf("unexpected run record: %+v", run)
	}
	if run.ErrorSummary != "" {
		t.Fatalf("expected empty error summary, got %q", run.ErrorSummary)
	}

	alert, ok := fix.alerts.last()
	if !ok {
		t.Fatal("expected a published run alert")
	}
	if alert.Status != string(etlrun.StatusSuccess) || alert.UnitsSucceeded != 3 {
		t.Fatalf("unexpected alert: %+v", alert)
	}
}

func TestPipelineService_Run_RerunConvergesWithNoNewWrites(t *testing.T) {
	t.Parallel()

	fix := newPipelineFixture(providerForSeason(2019, 2), PipelineConfig{MaxWorkers: 2, CurrentYear: 2019})

	if _, err := fix.svc.Run(t.Context(), SeasonMode{Years: []int{2019}}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	out, err := fix.svc.Run(t.Context(), SeasonMode{Years: []int{2019}})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if out.Status != etlrun.StatusSuccess {
		t.Fatalf("expected SUCCESS, got %s", out.Status)
	}
	if out.Load.Inserted != 0 || out.Load.Updated != 0 {
		t.Fatalf("expected no new writes on rerun, got %+v", out.Load)
	}
	if out.Load.Unchanged != 29 {
		t.Fatalf("expected every row unchanged on rerun, got %+v", out.Load)
	}

	runs, err := fix.runs.ListRecent(t.Context(), 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 run records, got=%d", len(runs))
	}
}

func TestPipelineService_Run_TransientUnitFailureKeepsSiblingsLoading(t *testing.T) {
	t.Parallel()

	provider := providerForSeason(2019, 2)
	provider.resultErr = map[string]error{
		fetchKey(2019, 2): fmt.Errorf("%w: upstream said 503", ErrTransientFetch),
	}
	fix := newPipelineFixture(provider, PipelineConfig{MaxWorkers: 2, CurrentYear: 2019})

	out, err := fix.svc.Run(t.Context(), SeasonMode{Years: []int{2019}})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Status != etlrun.StatusPartial {
		t.Fatalf("expected PARTIAL, got %s", out.Status)
	}
	if out.UnitsSucceeded != 2 || out.UnitsFailed != 1 {
		t.Fatalf("unexpected unit counts: succeeded=%d failed=%d", out.UnitsSucceeded, out.UnitsFailed)
	}

	failed := out.Units[1]
	if failed.Round != 2 || failed.State != etlrun.UnitFailed {
		t.Fatalf("expected round 2 failed, got %+v", failed)
	}
	if failed.ErrorKind != "transient_fetch" {
		t.Fatalf("unexpected error kind %q", failed.ErrorKind)
	}
	if out.Units[0].State != etlrun.UnitDone || out.Units[2].State != etlrun.UnitDone {
		t.Fatalf("expected sibling units done, got %+v", out.Units)
	}

	run, err := fix.runs.GetByID(t.Context(), out.RunID)
	if err != nil || run == nil {
		t.Fatalf("expected a run record, got run=%v err=%v", run, err)
	}
	if run.ErrorSummary != "1 units failed (transient_fetch=1)" {
		t.Fatalf("unexpected error summary %q", run.ErrorSummary)
	}
}

func TestPipelineService_Run_UnracedRoundCompletesWithoutLoading(t *testing.T) {
	t.Parallel()

	provider := providerForSeason(2019, 1)
	provider.schedules[2019] = append(provider.schedules[2019],
		extRace(2019, 2, "Bahrain Grand Prix", "bahrain", "2019-03-31"))
	fix := newPipelineFixture(provider, PipelineConfig{MaxWorkers: 2, CurrentYear: 2019})

	out, err := fix.svc.Run(t.Context(), SeasonMode{Years: []int{2019}})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Status != etlrun.StatusSuccess {
		t.Fatalf("expected SUCCESS, got %s", out.Status)
	}

	future := out.Units[1]
	if future.Round != 2 || future.State != etlrun.UnitDone {
		t.Fatalf("expected the unraced round done, got %+v", future)
	}
	if future.Message != "no results upstream yet" {
		t.Fatalf("unexpected message %q", future.Message)
	}
	if future.Load.Inserted != 0 {
		t.Fatalf("expected no rows loaded for the unraced round, got %+v", future.Load)
	}
	if out.Load.Inserted != 19 {
		t.Fatalf("expected 19 inserts from round 1 and the aggregates, got %+v", out.Load)
	}
}

func TestPipelineService_Run_IncrementalFallsBackToPreviousSeason(t *testing.T) {
	t.Parallel()

	fix := newPipelineFixture(providerForSeason(2020, 1), PipelineConfig{MaxWorkers: 1, CurrentYear: 2021})

	out, err := fix.svc.Run(t.Context(), IncrementalMode{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Mode != etlrun.ModeIncremental {
		t.Fatalf("expected incremental mode, got %s", out.Mode)
	}
	if len(out.Seasons) != 1 || out.Seasons[0] != 2020 {
		t.Fatalf("expected fallback to 2020, got %v", out.Seasons)
	}
	if out.Status != etlrun.StatusSuccess || out.UnitsTotal != 2 {
		t.Fatalf("unexpected outcome: status=%s total=%d", out.Status, out.UnitsTotal)
	}
}

func TestPipelineService_Run_IncrementalProbeFailureIsReturned(t *testing.T) {
	t.Parallel()

	provider := providerForSeason(2020, 1)
	provider.scheduleErr = map[int]error{
		2021: fmt.Errorf("%w: upstream said 503", ErrTransientFetch),
	}
	fix := newPipelineFixture(provider, PipelineConfig{MaxWorkers: 1, CurrentYear: 2021})

	out, err := fix.svc.Run(t.Context(), IncrementalMode{})
	if !errors.Is(err, ErrTransientFetch) {
		t.Fatalf("expected ErrTransientFetch, got %v", err)
	}
	if out.RunID != "" {
		t.Fatalf("expected no run to start, got %+v", out)
	}
	if _, ok := fix.alerts.last(); ok {
		t.Fatal("expected no alert for a run that never started")
	}
}

func TestPipelineService_Run_CancelFinishesInFlightAndSkipsRest(t *testing.T) {
	t.Parallel()

	provider := providerForSeason(2019, 1)
	addSeason(provider, 2020, 1)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	provider.onFetchResults = func(seasonYear, round int) {
		if seasonYear == 2019 && round == 1 {
			cancel()
		}
	}
	fix := newPipelineFixture(provider, PipelineConfig{MaxWorkers: 1, CurrentYear: 2020})

	out, err := fix.svc.Run(ctx, SeasonMode{Years: []int{2019, 2020}})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Status != etlrun.StatusPartial {
		t.Fatalf("expected PARTIAL after cancellation, got %s", out.Status)
	}
	if out.UnitsSucceeded != 1 || out.UnitsFailed != 0 || out.UnitsSkipped != 2 {
		t.Fatalf("unexpected unit counts: succeeded=%d failed=%d skipped=%d",
			out.UnitsSucceeded, out.UnitsFailed, out.UnitsSkipped)
	}

	inFlight := out.Units[0]
	if inFlight.Season != 2019 || inFlight.Round != 1 || inFlight.State != etlrun.UnitDone {
		t.Fatalf("expected the in-flight unit to finish, got %+v", inFlight)
	}
	if inFlight.Load.Inserted == 0 {
		t.Fatal("expected the in-flight unit to load its rows after cancel")
	}
	for _, unit := range out.Units[1:] {
		if unit.State != etlrun.UnitPending {
			t.Fatalf("expected later units skipped, got %+v", unit)
		}
		if unit.Message != "skipped: run canceled or aborted" {
			t.Fatalf("unexpected skip message %q", unit.Message)
		}
	}

	run, err := fix.runs.GetByID(t.Context(), out.RunID)
	if err != nil || run == nil {
		t.Fatalf("expected a finalized run record, got run=%v err=%v", run, err)
	}
	if run.Status != etlrun.StatusPartial || run.FinishedAt == nil {
		t.Fatalf("expected the run record finalized despite cancel, got %+v", run)
	}
}

func TestPipelineService_Run_StorageOutageAbortsRun(t *testing.T) {
	t.Parallel()

	fix := newPipelineFixtureWithResults(
		providerForSeason(2019, 1),
		PipelineConfig{MaxWorkers: 1, CurrentYear: 2019},
		&outageResultRepo{memory.NewResultRepository()},
	)

	out, err := fix.svc.Run(t.Context(), SeasonMode{Years: []int{2019}})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if out.Status != etlrun.StatusFailed {
		t.Fatalf("expected FAILED, got %s", out.Status)
	}
	if out.UnitsFailed != 1 || out.UnitsSkipped != 1 || out.UnitsSucceeded != 0 {
		t.Fatalf("unexpected unit counts: succeeded=%d failed=%d skipped=%d",
			out.UnitsSucceeded, out.UnitsFailed, out.UnitsSkipped)
	}
	if out.Units[0].ErrorKind != "storage_unavailable" {
		t.Fatalf("unexpected error kind %q", out.Units[0].ErrorKind)
	}

	run, err := fix.runs.GetByID(t.Context(), out.RunID)
	if err != nil || run == nil {
		t.Fatalf("expected a run record, got run=%v err=%v", run, err)
	}
	if run.Status != etlrun.StatusFailed {
		t.Fatalf("expected FAILED run record, got %s", run.Status)
	}
	if run.ErrorSummary != "1 units failed (storage_unavailable=1)" {
		t.Fatalf("unexpected error summary %q", run.ErrorSummary)
	}
}

func TestPipelineService_Run_BackfillCoversFloorThroughCurrentYear(t *testing.T) {
	t.Parallel()

	provider := providerForSeason(2018, 1)
	addSeason(provider, 2019, 1)
	fix := newPipelineFixture(provider, PipelineConfig{MaxWorkers: 2, SeasonFloor: 2018, CurrentYear: 2019})

	out, err := fix.svc.Run(t.Context(), BackfillMode{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Mode != etlrun.ModeBackfill {
		t.Fatalf("expected backfill mode, got %s", out.Mode)
	}
	if len(out.Seasons) != 2 || out.Seasons[0] != 2018 || out.Seasons[1] != 2019 {
		t.Fatalf("expected seasons 2018..2019, got %v", out.Seasons)
	}
	if out.Status != etlrun.StatusSuccess || out.UnitsTotal != 4 {
		t.Fatalf("unexpected outcome: status=%s total=%d", out.Status, out.UnitsTotal)
	}
}

func TestPipelineService_Run_RejectsBadInput(t *testing.T) {
	t.Parallel()

	fix := newPipelineFixture(providerForSeason(2019, 1), PipelineConfig{MaxWorkers: 1, CurrentYear: 2019})

	if _, err := fix.svc.Run(t.Context(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for nil mode, got %v", err)
	}
	if _, err := fix.svc.Run(t.Context(), SeasonMode{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty season list, got %v", err)
	}
	if _, err := fix.svc.Run(t.Context(), SeasonMode{Years: []int{1949}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for pre-championship season, got %v", err)
	}

	empty := newPipelineFixture(providerForSeason(2019, 1), PipelineConfig{MaxWorkers: 1, SeasonFloor: 2025, CurrentYear: 2024})
	if _, err := empty.svc.Run(t.Context(), BackfillMode{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an empty backfill window, got %v", err)
	}

	runs, err := fix.runs.ListRecent(t.Context(), 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no run records for rejected input, got=%d", len(runs))
	}
}
