package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/pitwall/f1-stats/internal/domain/circuit"
	"github.com/pitwall/f1-stats/internal/domain/etlrun"
	"github.com/pitwall/f1-stats/internal/domain/qualifying"
	"github.com/pitwall/f1-stats/internal/domain/race"
	"github.com/pitwall/f1-stats/internal/domain/rawdata"
	"github.com/pitwall/f1-stats/internal/domain/result"
	"github.com/pitwall/f1-stats/internal/domain/season"
	"github.com/pitwall/f1-stats/internal/platform/id"
	"github.com/pitwall/f1-stats/internal/platform/logging"
)

const (
	defaultPipelineWorkers = 4
	maxPipelineWorkers     = 8

	// aggregateSortRound orders a season's aggregate unit after its races.
	aggregateSortRound = 1 << 30
)

// PipelineConfig tunes how a run resolves and processes seasons.
type PipelineConfig struct {
	MaxWorkers  int
	SeasonFloor int
	CurrentYear int
}

// RunMode selects which seasons a run covers.
type RunMode interface {
	mode() etlrun.Mode
}

// SeasonMode processes an explicit list of seasons.
type SeasonMode struct {
	Years []int
}

// IncrementalMode processes only the season currently in progress, falling
// back to the previous season when the current year has no schedule yet.
type IncrementalMode struct{}

// BackfillMode processes every season from the configured floor through the
// current year.
type BackfillMode struct{}

func (SeasonMode) mode() etlrun.Mode      { return etlrun.ModeSeason }
func (IncrementalMode) mode() etlrun.Mode { return etlrun.ModeIncremental }
func (BackfillMode) mode() etlrun.Mode    { return etlrun.ModeBackfill }

// PipelineResult reports one run: per-unit outcomes plus rolled-up counts.
type PipelineResult struct {
	RunID          string        `json:"run_id"`
	Mode           etlrun.Mode   `json:"mode"`
	Status         etlrun.Status `json:"status"`
	Seasons        []int         `json:"seasons"`
	WorkerCount    int           `json:"worker_count"`
	UnitsTotal     int           `json:"units_total"`
	UnitsSucceeded int           `json:"units_succeeded"`
	UnitsFailed    int           `json:"units_failed"`
	UnitsSkipped   int           `json:"units_skipped"`
	Load           LoadSummary   `json:"load"`
	Units          []UnitResult  `json:"units"`
	DurationMs     int64         `json:"duration_ms"`
}

// UnitResult is one unit's journey through the pipeline. Round is zero for
// season-level units (the schedule fetch and the aggregate step).
type UnitResult struct {
	Season     int              `json:"season"`
	Round      int              `json:"round,omitempty"`
	Name       string           `json:"name"`
	State      etlrun.UnitState `json:"state"`
	ErrorKind  string           `json:"error_kind,omitempty"`
	Message    string           `json:"message,omitempty"`
	Load       LoadSummary      `json:"load"`
	DurationMs int64            `json:"duration_ms"`
}

// PipelineService drives full runs: it resolves seasons for the requested
// mode, fans race units out over a bounded worker pool, and finishes each
// season with an aggregate unit that recomputes standings and metrics.
// Cancellation lets in-flight units finish and skips the rest.
type PipelineService struct {
	provider   StatsProvider
	normalizer *NormalizerService
	metrics    *MetricsService
	ingestion  *IngestionService
	runRepo    etlrun.Repository
	resultRepo result.Repository
	qualRepo   qualifying.Repository
	alerts     AlertPublisher
	idGen      id.Generator
	cfg        PipelineConfig
	logger     *logging.Logger
}

func NewPipelineService(
	provider StatsProvider,
	normalizer *NormalizerService,
	metricsService *MetricsService,
	ingestion *IngestionService,
	runRepo etlrun.Repository,
	resultRepo result.Repository,
	qualRepo qualifying.Repository,
	alerts AlertPublisher,
	idGen id.Generator,
	cfg PipelineConfig,
	logger *logging.Logger,
) *PipelineService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SeasonFloor < season.First {
		cfg.SeasonFloor = season.First
	}
	if cfg.CurrentYear <= 0 {
		cfg.CurrentYear = time.Now().UTC().Year()
	}

	return &PipelineService{
		provider:   provider,
		normalizer: normalizer,
		metrics:    metricsService,
		ingestion:  ingestion,
		runRepo:    runRepo,
		resultRepo: resultRepo,
		qualRepo:   qualRepo,
		alerts:     alerts,
		idGen:      idGen,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run executes one pipeline invocation and records it as a run row. The
// returned error is non-nil only for invalid input, a failure to record the
// run, or a storage outage that aborted the run; per-unit failures land in
// the result instead.
func (s *PipelineService) Run(ctx context.Context, mode RunMode) (PipelineResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.Run")
	defer span.End()

	if mode == nil {
		return PipelineResult{}, fmt.Errorf("%w: run mode is required", ErrInvalidInput)
	}
	if s.provider == nil || s.normalizer == nil || s.metrics == nil || s.ingestion == nil {
		return PipelineResult{}, fmt.Errorf("%w: pipeline is not fully configured", ErrInvalidInput)
	}

	seasons, err := s.resolveSeasons(ctx, mode)
	if err != nil {
		return PipelineResult{}, err
	}

	if err := s.normalizer.LoadAliases(ctx); err != nil {
		return PipelineResult{}, fmt.Errorf("load alias table: %w", err)
	}

	runID, err := s.idGen.NewID()
	if err != nil {
		return PipelineResult{}, fmt.Errorf("mint run id: %w", err)
	}

	started := time.Now()
	run := etlrun.Run{
		ID:        runID,
		Mode:      mode.mode(),
		Seasons:   toInt64Seasons(seasons),
		Status:    etlrun.StatusRunning,
		StartedAt: started.UTC(),
	}
	if s.runRepo != nil {
		if err := s.runRepo.Create(ctx, &run); err != nil {
			return PipelineResult{}, fmt.Errorf("record run start: %w", err)
		}
	}

	out := PipelineResult{
		RunID:       runID,
		Mode:        run.Mode,
		Seasons:     seasons,
		WorkerCount: normalizePipelineWorkerCount(s.cfg.MaxWorkers, maxPipelineWorkers),
	}

	s.logger.InfoContext(ctx, "pipeline run started",
		"run_id", runID,
		"mode", string(run.Mode),
		"seasons", len(seasons),
	)

	state := &runState{}
	for _, year := range seasons {
		units := s.processSeason(ctx, year, state)
		out.Units = append(out.Units, units...)
		if state.aborted.Load() {
			break
		}
	}

	sort.SliceStable(out.Units, func(i, j int) bool {
		if out.Units[i].Season != out.Units[j].Season {
			return out.Units[i].Season < out.Units[j].Season
		}
		return unitSortRound(out.Units[i]) < unitSortRound(out.Units[j])
	})

	out.UnitsTotal = len(out.Units)
	for _, unit := range out.Units {
		switch unit.State {
		case etlrun.UnitDone:
			out.UnitsSucceeded++
		case etlrun.UnitFailed:
			out.UnitsFailed++
		default:
			out.UnitsSkipped++
		}
		out.Load.merge(unit.Load)
	}
	out.Status = runStatus(out, state.abortErr())
	out.DurationMs = time.Since(started).Milliseconds()

	run.Status = out.Status
	run.UnitsTotal = out.UnitsTotal
	run.UnitsSucceeded = out.UnitsSucceeded
	run.UnitsFailed = out.UnitsFailed
	run.ErrorSummary = buildErrorSummary(out.Units)
	finished := time.Now().UTC()
	run.FinishedAt = &finished

	// Finalization must land even when the run context was canceled.
	finCtx := context.WithoutCancel(ctx)
	if s.runRepo != nil {
		if err := s.runRepo.Update(finCtx, &run); err != nil {
			s.logger.WarnContext(finCtx, "run record update failed", "run_id", runID, "error", err)
		}
	}
	s.publishAlert(finCtx, run, seasons)

	s.logger.InfoContext(finCtx, "pipeline run finished",
		"run_id", runID,
		"status", string(out.Status),
		"units_total", out.UnitsTotal,
		"units_succeeded", out.UnitsSucceeded,
		"units_failed", out.UnitsFailed,
		"units_skipped", out.UnitsSkipped,
		"duration_ms", out.DurationMs,
	)

	if err := state.abortErr(); err != nil {
		return out, err
	}
	return out, nil
}

// runState carries the abort signal across seasons. The first storage outage
// wins and stops the run from dispatching anything further.
type runState struct {
	aborted atomic.Bool
	once    sync.Once
	err     error
}

func (r *runState) abort(err error) {
	r.once.Do(func() { r.err = err })
	r.aborted.Store(true)
}

func (r *runState) abortErr() error {
	if !r.aborted.Load() {
		return nil
	}
	return r.err
}

type raceUnitTask struct {
	row      race.Race
	circuits []circuit.Circuit
}

func (s *PipelineService) processSeason(ctx context.Context, year int, state *runState) []UnitResult {
	if ctx.Err() != nil || state.aborted.Load() {
		return []UnitResult{skippedUnit(year, 0, "schedule")}
	}

	scheduleStart := time.Now()
	externals, schedulePayloads, err := s.provider.FetchSeasonSchedule(ctx, year)
	if err != nil {
		unit := UnitResult{Season: year, Name: "schedule", State: etlrun.UnitExtracting}
		unit = failUnit(unit, err, scheduleStart)
		if errors.Is(err, ErrStorageUnavailable) {
			state.abort(err)
		}
		return []UnitResult{unit}
	}
	schedule, err := s.normalizer.NormalizeSchedule(ctx, year, externals)
	if err != nil {
		unit := UnitResult{Season: year, Name: "schedule", State: etlrun.UnitTransforming}
		return []UnitResult{failUnit(unit, err, scheduleStart)}
	}

	circuitsByRef := make(map[string]circuit.Circuit, len(schedule.Circuits))
	for _, row := range schedule.Circuits {
		circuitsByRef[row.Ref] = row
	}
	tasks := make([]raceUnitTask, 0, len(schedule.Races))
	for _, row := range schedule.Races {
		task := raceUnitTask{row: row}
		if c, ok := circuitsByRef[row.CircuitRef]; ok {
			task.circuits = []circuit.Circuit{c}
		}
		tasks = append(tasks, task)
	}

	units := make([]UnitResult, 0, len(tasks)+1)
	units = append(units, s.dispatchRaceUnits(ctx, tasks, state)...)

	if ctx.Err() != nil || state.aborted.Load() {
		units = append(units, skippedUnit(year, 0, "season aggregates"))
		return units
	}
	aggregate := s.processSeasonAggregates(ctx, year, schedulePayloads)
	if aggregate.State == etlrun.UnitFailed && aggregate.ErrorKind == errorKindStorage {
		state.abort(fmt.Errorf("%w: season %d aggregates", ErrStorageUnavailable, year))
	}
	units = append(units, aggregate)
	return units
}

func (s *PipelineService) dispatchRaceUnits(ctx context.Context, tasks []raceUnitTask, state *runState) []UnitResult {
	if len(tasks) == 0 {
		return nil
	}

	workerCount := normalizePipelineWorkerCount(s.cfg.MaxWorkers, len(tasks))
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		out := make([]UnitResult, 0, len(tasks))
		for _, task := range tasks {
			unit := UnitResult{Season: task.row.Season, Round: task.row.Round, Name: task.row.Name, State: etlrun.UnitExtracting}
			out = append(out, failUnit(unit, fmt.Errorf("create worker pool: %w", err), time.Now()))
		}
		return out
	}
	defer pool.Release()

	results := make(chan UnitResult, len(tasks))

	// In-flight units run to completion even after the run is canceled;
	// only dispatch of new units stops.
	unitCtx := context.WithoutCancel(ctx)

	var workers sync.WaitGroup
	for _, task := range tasks {
		task := task
		if ctx.Err() != nil || state.aborted.Load() {
			results <- skippedUnit(task.row.Season, task.row.Round, task.row.Name)
			continue
		}
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			unit := s.processRaceUnit(unitCtx, task)
			if unit.State == etlrun.UnitFailed && unit.ErrorKind == errorKindStorage {
				state.abort(fmt.Errorf("%w: season %d round %d", ErrStorageUnavailable, unit.Season, unit.Round))
			}
			results <- unit
		}); err != nil {
			workers.Done()
			unit := UnitResult{Season: task.row.Season, Round: task.row.Round, Name: task.row.Name, State: etlrun.UnitExtracting}
			results <- failUnit(unit, fmt.Errorf("submit unit to worker pool: %w", err), time.Now())
		}
	}

	workers.Wait()
	close(results)

	out := make([]UnitResult, 0, len(tasks))
	for unit := range results {
		out = append(out, unit)
	}
	return out
}

func (s *PipelineService) processRaceUnit(ctx context.Context, task raceUnitTask) UnitResult {
	start := time.Now()
	row := task.row
	unit := UnitResult{Season: row.Season, Round: row.Round, Name: row.Name, State: etlrun.UnitPending}
	unit.State, _ = etlrun.Transition(unit.State, etlrun.UnitExtracting)

	var (
		wg         conc.WaitGroup
		resultRows []ExternalResult
		resultRaw  []rawdata.Payload
		resultErr  error
		qualRows   []ExternalQualifying
		qualRaw    []rawdata.Payload
		qualErr    error
	)
	wg.Go(func() {
		resultRows, resultRaw, resultErr = s.provider.FetchRaceResults(ctx, row.Season, row.Round)
	})
	wg.Go(func() {
		qualRows, qualRaw, qualErr = s.provider.FetchQualifying(ctx, row.Season, row.Round)
	})
	wg.Wait()

	// Qualifying does not exist upstream for early seasons.
	if errors.Is(qualErr, ErrNotFound) {
		qualErr = nil
		qualRows = nil
		qualRaw = nil
	}
	if resultErr != nil && !errors.Is(resultErr, ErrNotFound) {
		return failUnit(unit, resultErr, start)
	}
	if errors.Is(resultErr, ErrNotFound) || len(resultRows) == 0 {
		// Scheduled but not yet raced.
		unit.State, _ = etlrun.Transition(unit.State, etlrun.UnitDone)
		unit.Message = "no results upstream yet"
		unit.DurationMs = time.Since(start).Milliseconds()
		return unit
	}
	if qualErr != nil {
		return failUnit(unit, qualErr, start)
	}

	unit.State, _ = etlrun.Transition(unit.State, etlrun.UnitTransforming)

	rows, err := s.normalizer.NormalizeResults(ctx, row.Season, row.Round, resultRows)
	if err != nil {
		return failUnit(unit, err, start)
	}
	qualRowsNorm, err := s.normalizer.NormalizeQualifying(ctx, row.Season, row.Round, qualRows)
	if err != nil {
		return failUnit(unit, err, start)
	}

	unit.State, _ = etlrun.Transition(unit.State, etlrun.UnitLoading)

	payloads := make([]rawdata.Payload, 0, len(resultRaw)+len(qualRaw))
	payloads = append(payloads, resultRaw...)
	payloads = append(payloads, qualRaw...)

	summary, err := s.ingestion.LoadRaceUnit(ctx, RaceUnit{
		Race:         row,
		Circuits:     task.circuits,
		Drivers:      rows.Drivers,
		Constructors: rows.Constructors,
		Results:      rows.Results,
		Qualifying:   qualRowsNorm,
		RawPayloads:  payloads,
	})
	unit.Load = summary
	if err != nil {
		return failUnit(unit, err, start)
	}

	unit.State, _ = etlrun.Transition(unit.State, etlrun.UnitDone)
	unit.DurationMs = time.Since(start).Milliseconds()
	return unit
}

// processSeasonAggregates fetches the championship tables and recomputes
// per-driver and per-constructor metrics from everything loaded so far, so
// the aggregate step converges even when a prior run loaded part of the
// season.
func (s *PipelineService) processSeasonAggregates(ctx context.Context, year int, schedulePayloads []rawdata.Payload) UnitResult {
	start := time.Now()
	unit := UnitResult{Season: year, Name: "season aggregates", State: etlrun.UnitPending}
	unit.State, _ = etlrun.Transition(unit.State, etlrun.UnitExtracting)

	var (
		wg            conc.WaitGroup
		driverRows    []ExternalDriverStanding
		driverRaw     []rawdata.Payload
		driverErr     error
		constructRows []ExternalConstructorStanding
		constructRaw  []rawdata.Payload
		constructErr  error
	)
	wg.Go(func() {
		driverRows, driverRaw, driverErr = s.provider.FetchDriverStandings(ctx, year)
	})
	wg.Go(func() {
		constructRows, constructRaw, constructErr = s.provider.FetchConstructorStandings(ctx, year)
	})
	wg.Wait()

	// A season with no completed round has no standings yet.
	if errors.Is(driverErr, ErrNotFound) {
		driverErr = nil
		driverRows = nil
		driverRaw = nil
	}
	if errors.Is(constructErr, ErrNotFound) {
		constructErr = nil
		constructRows = nil
		constructRaw = nil
	}
	if driverErr != nil {
		return failUnit(unit, driverErr, start)
	}
	if constructErr != nil {
		return failUnit(unit, constructErr, start)
	}

	unit.State, _ = etlrun.Transition(unit.State, etlrun.UnitTransforming)

	driverStandings, err := s.normalizer.NormalizeDriverStandings(ctx, year, driverRows)
	if err != nil {
		return failUnit(unit, err, start)
	}
	constructorStandings, err := s.normalizer.NormalizeConstructorStandings(ctx, year, constructRows)
	if err != nil {
		return failUnit(unit, err, start)
	}

	seasonResults, err := s.resultRepo.ListBySeason(ctx, year)
	if err != nil {
		return failUnit(unit, fmt.Errorf("list season results: %w", err), start)
	}
	seasonQualifying, err := s.qualRepo.ListBySeason(ctx, year)
	if err != nil {
		return failUnit(unit, fmt.Errorf("list season qualifying: %w", err), start)
	}

	driverMetrics := s.metrics.ComputeDriverMetrics(ctx, year, seasonResults, seasonQualifying)
	constructorMetrics := s.metrics.ComputeConstructorMetrics(ctx, year, seasonResults, seasonQualifying)

	unit.State, _ = etlrun.Transition(unit.State, etlrun.UnitLoading)

	payloads := make([]rawdata.Payload, 0, len(schedulePayloads)+len(driverRaw)+len(constructRaw))
	payloads = append(payloads, schedulePayloads...)
	payloads = append(payloads, driverRaw...)
	payloads = append(payloads, constructRaw...)

	summary, err := s.ingestion.LoadSeasonAggregates(ctx, SeasonAggregates{
		Season:               season.Season{Year: year},
		DriverStandings:      driverStandings,
		ConstructorStandings: constructorStandings,
		DriverMetrics:        driverMetrics,
		ConstructorMetrics:   constructorMetrics,
		RawPayloads:          payloads,
	})
	unit.Load = summary
	if err != nil {
		return failUnit(unit, err, start)
	}

	unit.State, _ = etlrun.Transition(unit.State, etlrun.UnitDone)
	unit.DurationMs = time.Since(start).Milliseconds()
	return unit
}

func (s *PipelineService) resolveSeasons(ctx context.Context, mode RunMode) ([]int, error) {
	switch m := mode.(type) {
	case SeasonMode:
		return normalizeSeasonList(m.Years)
	case IncrementalMode:
		return s.currentSeason(ctx)
	case BackfillMode:
		if s.cfg.CurrentYear < s.cfg.SeasonFloor {
			return nil, fmt.Errorf("%w: backfill window %d..%d is empty", ErrInvalidInput, s.cfg.SeasonFloor, s.cfg.CurrentYear)
		}
		years := make([]int, 0, s.cfg.CurrentYear-s.cfg.SeasonFloor+1)
		for year := s.cfg.SeasonFloor; year <= s.cfg.CurrentYear; year++ {
			years = append(years, year)
		}
		return years, nil
	default:
		return nil, fmt.Errorf("%w: unsupported run mode", ErrInvalidInput)
	}
}

// currentSeason probes the current year's schedule. Before the new calendar
// is published upstream the previous season is still the one in progress.
func (s *PipelineService) currentSeason(ctx context.Context) ([]int, error) {
	year := s.cfg.CurrentYear
	races, _, err := s.provider.FetchSeasonSchedule(ctx, year)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("probe current season: %w", err)
	}
	if err == nil && len(races) > 0 {
		return []int{year}, nil
	}
	if year-1 < s.cfg.SeasonFloor {
		return nil, fmt.Errorf("%w: no season in progress", ErrNotFound)
	}
	return []int{year - 1}, nil
}

func (s *PipelineService) publishAlert(ctx context.Context, run etlrun.Run, seasons []int) {
	if s.alerts == nil {
		return
	}

	alert := RunAlert{
		RunID:          run.ID,
		Mode:           string(run.Mode),
		Status:         string(run.Status),
		Seasons:        seasons,
		UnitsTotal:     run.UnitsTotal,
		UnitsSucceeded: run.UnitsSucceeded,
		UnitsFailed:    run.UnitsFailed,
		ErrorSummary:   run.ErrorSummary,
	}
	if err := s.alerts.PublishRunAlert(ctx, alert); err != nil {
		s.logger.WarnContext(ctx, "run alert publish failed", "run_id", run.ID, "error", err)
	}
}

func failUnit(unit UnitResult, err error, start time.Time) UnitResult {
	unit.State, _ = etlrun.Transition(unit.State, etlrun.UnitFailed)
	unit.ErrorKind = errorKind(err)
	unit.Message = err.Error()
	unit.DurationMs = time.Since(start).Milliseconds()
	return unit
}

func skippedUnit(seasonYear, round int, name string) UnitResult {
	return UnitResult{
		Season:  seasonYear,
		Round:   round,
		Name:    name,
		State:   etlrun.UnitPending,
		Message: "skipped: run canceled or aborted",
	}
}

func runStatus(out PipelineResult, abortErr error) etlrun.Status {
	switch {
	case abortErr != nil:
		return etlrun.StatusFailed
	case out.UnitsFailed == 0 && out.UnitsSkipped == 0:
		return etlrun.StatusSuccess
	case out.UnitsSucceeded == 0 && out.UnitsFailed > 0:
		return etlrun.StatusFailed
	default:
		return etlrun.StatusPartial
	}
}

const (
	errorKindCanceled  = "canceled"
	errorKindStorage   = "storage_unavailable"
	errorKindConflict  = "load_conflict"
	errorKindMalformed = "malformed_payload"
	errorKindTransient = "transient_fetch"
	errorKindNotFound  = "not_found"
	errorKindInvalid   = "invalid_input"
	errorKindInternal  = "internal"
)

func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrStorageUnavailable):
		return errorKindStorage
	case errors.Is(err, ErrLoadConflict):
		return errorKindConflict
	case errors.Is(err, ErrMalformedPayload):
		return errorKindMalformed
	case errors.Is(err, ErrTransientFetch):
		return errorKindTransient
	case errors.Is(err, ErrNotFound):
		return errorKindNotFound
	case errors.Is(err, ErrInvalidInput):
		return errorKindInvalid
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errorKindCanceled
	default:
		return errorKindInternal
	}
}

// buildErrorSummary rolls failed units up into one line for the run record,
// e.g. "3 units failed (transient_fetch=2, storage_unavailable=1)".
func buildErrorSummary(units []UnitResult) string {
	counts := make(map[string]int)
	failed := 0
	for _, unit := range units {
		if unit.State != etlrun.UnitFailed {
			continue
		}
		failed++
		kind := unit.ErrorKind
		if kind == "" {
			kind = errorKindInternal
		}
		counts[kind]++
	}
	if failed == 0 {
		return ""
	}

	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", kind, counts[kind]))
	}
	return fmt.Sprintf("%d units failed (%s)", failed, strings.Join(parts, ", "))
}

func normalizePipelineWorkerCount(value, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = defaultPipelineWorkers
	}
	if value > maxPipelineWorkers {
		value = maxPipelineWorkers
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}

func unitSortRound(unit UnitResult) int {
	if unit.Round == 0 {
		return aggregateSortRound
	}
	return unit.Round
}

func toInt64Seasons(seasons []int) []int64 {
	out := make([]int64, 0, len(seasons))
	for _, year := range seasons {
		out = append(out, int64(year))
	}
	return out
}
