package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
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
	"github.com/pitwall/f1-stats/internal/platform/cache"
	"github.com/pitwall/f1-stats/internal/platform/id"
	"github.com/pitwall/f1-stats/internal/platform/logging"
)

// IngestionService writes normalized rows into storage. Reference entities
// are upserted by natural key, result and standings sets are replaced
// wholesale inside one transaction each, and every write to the same natural
// key is serialized so concurrent units cannot interleave.
type IngestionService struct {
	seasonRepo      season.Repository
	circuitRepo     circuit.Repository
	driverRepo      driver.Repository
	constructorRepo constructor.Repository
	raceRepo        race.Repository
	resultRepo      result.Repository
	qualifyingRepo  qualifying.Repository
	standingRepo    standing.Repository
	metricsRepo     metrics.Repository
	rawDataRepo     rawdata.Repository
	idGen           id.Generator
	refCache        *cache.Store
	keys            keyedMutex
	logger          *logging.Logger
}

func NewIngestionService(
	seasonRepo season.Repository,
	circuitRepo circuit.Repository,
	driverRepo driver.Repository,
	constructorRepo constructor.Repository,
	raceRepo race.Repository,
	resultRepo result.Repository,
	qualifyingRepo qualifying.Repository,
	standingRepo standing.Repository,
	metricsRepo metrics.Repository,
	rawDataRepo rawdata.Repository,
	idGen id.Generator,
	refCache *cache.Store,
	logger *logging.Logger,
) *IngestionService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &IngestionService{
		seasonRepo:      seasonRepo,
		circuitRepo:     circuitRepo,
		driverRepo:      driverRepo,
		constructorRepo: constructorRepo,
		raceRepo:        raceRepo,
		resultRepo:      resultRepo,
		qualifyingRepo:  qualifyingRepo,
		standingRepo:    standingRepo,
		metricsRepo:     metricsRepo,
		rawDataRepo:     rawDataRepo,
		idGen:           idGen,
		refCache:        refCache,
		logger:          logger,
	}
}

// LoadSummary counts what a load did per row. A rerun over identical input
// reports everything unchanged and inserts nothing.
type LoadSummary struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
}

func (s *LoadSummary) add(outcome loadOutcome) {
	switch outcome {
	case outcomeInserted:
		s.Inserted++
	case outcomeUpdated:
		s.Updated++
	case outcomeUnchanged:
		s.Unchanged++
	}
}

func (s *LoadSummary) merge(other LoadSummary) {
	s.Inserted += other.Inserted
	s.Updated += other.Updated
	s.Unchanged += other.Unchanged
	s.Failed += other.Failed
}

type loadOutcome int

const (
	outcomeUnchanged loadOutcome = iota
	outcomeInserted
	outcomeUpdated
)

// RaceUnit is one race's normalized rows, ready to persist together.
type RaceUnit struct {
	Race         race.Race
	Circuits     []circuit.Circuit
	Drivers      []driver.Driver
	Constructors []constructor.Constructor
	Results      []result.Result
	Qualifying   []qualifying.Qualifying
	RawPayloads  []rawdata.Payload
}

// SeasonAggregates is one season's standings and recomputed metrics.
type SeasonAggregates struct {
	Season               season.Season
	DriverStandings      []standing.DriverStanding
	ConstructorStandings []standing.ConstructorStanding
	DriverMetrics        []metrics.DriverMetrics
	ConstructorMetrics   []metrics.ConstructorMetrics
	RawPayloads          []rawdata.Payload
}

// LoadRaceUnit persists one race: its reference entities by natural key,
// then the full result and qualifying sets as transactional replacements.
// An empty qualifying set is a valid load, not a failure.
func (s *IngestionService) LoadRaceUnit(ctx context.Context, unit RaceUnit) (LoadSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.LoadRaceUnit")
	defer span.End()

	if unit.Race.Season < season.First || unit.Race.Round <= 0 {
		return LoadSummary{}, fmt.Errorf("%w: race unit needs a season and round", ErrInvalidInput)
	}
	unlock := s.keys.lock(fmt.Sprintf("race/%d/%d", unit.Race.Season, unit.Race.Round))
	defer unlock()

	summary := LoadSummary{}

	for _, item := range unit.Circuits {
		outcome, err := s.upsertCircuit(ctx, item)
		if err != nil {
			summary.Failed++
			return summary, err
		}
		summary.add(outcome)
	}
	for _, item := range unit.Drivers {
		outcome, err := s.upsertDriver(ctx, item)
		if err != nil {
			summary.Failed++
			return summary, err
		}
		summary.add(outcome)
	}
	for _, item := range unit.Constructors {
		outcome, err := s.upsertConstructor(ctx, item)
		if err != nil {
			summary.Failed++
			return summary, err
		}
		summary.add(outcome)
	}

	outcome, err := s.upsertRace(ctx, unit.Race)
	if err != nil {
		summary.Failed++
		return summary, err
	}
	summary.add(outcome)

	resultSummary, err := s.replaceResults(ctx, unit.Race.Season, unit.Race.Round, unit.Results)
	summary.merge(resultSummary)
	if err != nil {
		return summary, err
	}

	qualifyingSummary, err := s.replaceQualifying(ctx, unit.Race.Season, unit.Race.Round, unit.Qualifying)
	summary.merge(qualifyingSummary)
	if err != nil {
		return summary, err
	}

	if err := s.UpsertRawPayloads(ctx, "", unit.RawPayloads); err != nil {
		return summary, err
	}

	s.logger.DebugContext(ctx, "race unit loaded",
		"season", unit.Race.Season,
		"round", unit.Race.Round,
		"inserted", summary.Inserted,
		"updated", summary.Updated,
		"unchanged", summary.Unchanged,
	)
	return summary, nil
}

// LoadSeasonAggregates persists one season's championship tables and derived
// metrics, each table replaced wholesale so reruns converge.
func (s *IngestionService) LoadSeasonAggregates(ctx context.Context, aggs SeasonAggregates) (LoadSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.LoadSeasonAggregates")
	defer span.End()

	seasonYear := aggs.Season.Year
	if seasonYear < season.First {
		return LoadSummary{}, fmt.Errorf("%w: season aggregates need a season year", ErrInvalidInput)
	}
	unlock := s.keys.lock(fmt.Sprintf("season/%d", seasonYear))
	defer unlock()

	summary := LoadSummary{}

	outcome, err := s.upsertSeason(ctx, aggs.Season)
	if err != nil {
		summary.Failed++
		return summary, err
	}
	summary.add(outcome)

	driverStandingSummary, err := s.replaceDriverStandings(ctx, seasonYear, aggs.DriverStandings)
	summary.merge(driverStandingSummary)
	if err != nil {
		return summary, err
	}

	constructorStandingSummary, err := s.replaceConstructorStandings(ctx, seasonYear, aggs.ConstructorStandings)
	summary.merge(constructorStandingSummary)
	if err != nil {
		return summary, err
	}

	driverMetricsSummary, err := s.replaceDriverMetrics(ctx, seasonYear, aggs.DriverMetrics)
	summary.merge(driverMetricsSummary)
	if err != nil {
		return summary, err
	}

	constructorMetricsSummary, err := s.replaceConstructorMetrics(ctx, seasonYear, aggs.ConstructorMetrics)
	summary.merge(constructorMetricsSummary)
	if err != nil {
		return summary, err
	}

	if err := s.UpsertRawPayloads(ctx, "", aggs.RawPayloads); err != nil {
		return summary, err
	}

	s.logger.DebugContext(ctx, "season aggregates loaded",
		"season", seasonYear,
		"inserted", summary.Inserted,
		"updated", summary.Updated,
		"unchanged", summary.Unchanged,
	)
	return summary, nil
}

// UpsertRawPayloads archives verbatim upstream bodies, deduplicated by
// content hash on (source, entity key).
func (s *IngestionService) UpsertRawPayloads(ctx context.Context, source string, items []rawdata.Payload) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.UpsertRawPayloads")
	defer span.End()

	if s.rawDataRepo == nil || len(items) == 0 {
		return nil
	}

	source = strings.ToLower(strings.TrimSpace(source))
	if source == "" {
		source = "ergast"
	}

	cleaned := make([]rawdata.Payload, 0, len(items))
	for _, item := range items {
		item.Source = source
		item.Endpoint = strings.TrimSpace(item.Endpoint)
		item.EntityKey = strings.TrimSpace(item.EntityKey)
		item.PayloadJSON = strings.TrimSpace(item.PayloadJSON)
		if item.Endpoint == "" || item.EntityKey == "" || item.PayloadJSON == "" {
			return fmt.Errorf("%w: raw payload endpoint, entity_key and payload are required", ErrInvalidInput)
		}
		if item.FetchedAt.IsZero() {
			item.FetchedAt = time.Now().UTC()
		}

		hash := sha256.Sum256([]byte(item.PayloadJSON))
		item.PayloadHash = hex.EncodeToString(hash[:])
		cleaned = append(cleaned, item)
	}

	if err := s.rawDataRepo.UpsertMany(ctx, cleaned); err != nil {
		return fmt.Errorf("upsert raw payloads: %w", err)
	}
	return nil
}

func (s *IngestionService) upsertSeason(ctx context.Context, item season.Season) (loadOutcome, error) {
	existing, err := s.seasonRepo.GetByYear(ctx, item.Year)
	if err != nil {
		return outcomeUnchanged, fmt.Errorf("get season year=%d: %w", item.Year, err)
	}
	if existing != nil && existing.URL == item.URL {
		return outcomeUnchanged, nil
	}

	if err := s.seasonRepo.Upsert(ctx, item); err != nil {
		return outcomeUnchanged, fmt.Errorf("upsert season year=%d: %w", item.Year, err)
	}
	if existing == nil {
		return outcomeInserted, nil
	}
	return outcomeUpdated, nil
}

func (s *IngestionService) upsertCircuit(ctx context.Context, item circuit.Circuit) (loadOutcome, error) {
	unlock := s.keys.lock("circuit/" + item.Ref)
	defer unlock()

	existing, err := s.cachedCircuit(ctx, item.Ref)
	if err != nil {
		return outcomeUnchanged, err
	}

	if existing == nil {
		newID, err := s.idGen.NewID()
		if err != nil {
			return outcomeUnchanged, fmt.Errorf("mint circuit id ref=%s: %w", item.Ref, err)
		}
		item.ID = newID
		if err := s.circuitRepo.Insert(ctx, &item); err != nil {
			return outcomeUnchanged, fmt.Errorf("insert circuit ref=%s: %w", item.Ref, err)
		}
		s.cacheSet(ctx, "circuit/"+item.Ref, &item)
		return outcomeInserted, nil
	}

	if circuitEquivalent(*existing, item) {
		return outcomeUnchanged, nil
	}
	item.ID = existing.ID
	if err := s.circuitRepo.Update(ctx, &item); err != nil {
		return outcomeUnchanged, fmt.Errorf("update circuit ref=%s: %w", item.Ref, err)
	}
	s.cacheSet(ctx, "circuit/"+item.Ref, &item)
	return outcomeUpdated, nil
}

func (s *IngestionService) upsertDriver(ctx context.Context, item driver.Driver) (loadOutcome, error) {
	unlock := s.keys.lock("driver/" + item.Ref)
	defer unlock()

	existing, err := s.cachedDriver(ctx, item.Ref)
	if err != nil {
		return outcomeUnchanged, err
	}

	if existing == nil {
		newID, err := s.idGen.NewID()
		if err != nil {
			return outcomeUnchanged, fmt.Errorf("mint driver id ref=%s: %w", item.Ref, err)
		}
		item.ID = newID
		if err := s.driverRepo.Insert(ctx, &item); err != nil {
			return outcomeUnchanged, fmt.Errorf("insert driver ref=%s: %w", item.Ref, err)
		}
		s.cacheSet(ctx, "driver/"+item.Ref, &item)
		return outcomeInserted, nil
	}

	if driverEquivalent(*existing, item) {
		return outcomeUnchanged, nil
	}
	item.ID = existing.ID
	if err := s.driverRepo.Update(ctx, &item); err != nil {
		return outcomeUnchanged, fmt.Errorf("update driver ref=%s: %w", item.Ref, err)
	}
	s.cacheSet(ctx, "driver/"+item.Ref, &item)
	return outcomeUpdated, nil
}

func (s *IngestionService) upsertConstructor(ctx context.Context, item constructor.Constructor) (loadOutcome, error) {
	unlock := s.keys.lock("constructor/" + item.Ref)
	defer unlock()

	existing, err := s.cachedConstructor(ctx, item.Ref)
	if err != nil {
		return outcomeUnchanged, err
	}

	if existing == nil {
		newID, err := s.idGen.NewID()
		if err != nil {
			return outcomeUnchanged, fmt.Errorf("mint constructor id ref=%s: %w", item.Ref, err)
		}
		item.ID = newID
		if err := s.constructorRepo.Insert(ctx, &item); err != nil {
			return outcomeUnchanged, fmt.Errorf("insert constructor ref=%s: %w", item.Ref, err)
		}
		s.cacheSet(ctx, "constructor/"+item.Ref, &item)
		return outcomeInserted, nil
	}

	if constructorEquivalent(*existing, item) {
		return outcomeUnchanged, nil
	}
	item.ID = existing.ID
	if err := s.constructorRepo.Update(ctx, &item); err != nil {
		return outcomeUnchanged, fmt.Errorf("update constructor ref=%s: %w", item.Ref, err)
	}
	s.cacheSet(ctx, "constructor/"+item.Ref, &item)
	return outcomeUpdated, nil
}

func (s *IngestionService) upsertRace(ctx context.Context, item race.Race) (loadOutcome, error) {
	existing, err := s.raceRepo.GetBySeasonRound(ctx, item.Season, item.Round)
	if err != nil {
		return outcomeUnchanged, fmt.Errorf("get race season=%d round=%d: %w", item.Season, item.Round, err)
	}

	if existing == nil {
		newID, err := s.idGen.NewID()
		if err != nil {
			return outcomeUnchanged, fmt.Errorf("mint race id season=%d round=%d: %w", item.Season, item.Round, err)
		}
		item.ID = newID
		if err := s.raceRepo.Insert(ctx, &item); err != nil {
			return outcomeUnchanged, fmt.Errorf("insert race season=%d round=%d: %w", item.Season, item.Round, err)
		}
		return outcomeInserted, nil
	}

	if raceEquivalent(*existing, item) {
		return outcomeUnchanged, nil
	}
	item.ID = existing.ID
	if err := s.raceRepo.Update(ctx, &item); err != nil {
		return outcomeUnchanged, fmt.Errorf("update race season=%d round=%d: %w", item.Season, item.Round, err)
	}
	return outcomeUpdated, nil
}

func (s *IngestionService) replaceResults(ctx context.Context, seasonYear, round int, items []result.Result) (LoadSummary, error) {
	existing, err := s.resultRepo.ListByRace(ctx, seasonYear, round)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("list results season=%d round=%d: %w", seasonYear, round, err)
	}

	existingByDriver := make(map[string]result.Result, len(existing))
	for _, row := range existing {
		existingByDriver[row.DriverRef] = row
	}

	summary := LoadSummary{}
	changed := len(existing) != len(items)
	for idx := range items {
		prior, known := existingByDriver[items[idx].DriverRef]
		if !known {
			newID, err := s.idGen.NewID()
			if err != nil {
				summary.Failed += len(items)
				return summary, fmt.Errorf("mint result id season=%d round=%d driver=%s: %w", seasonYear, round, items[idx].DriverRef, err)
			}
			items[idx].ID = newID
			summary.Inserted++
			changed = true
			continue
		}

		items[idx].ID = prior.ID
		if resultEquivalent(prior, items[idx]) {
			summary.Unchanged++
			continue
		}
		summary.Updated++
		changed = true
	}

	if !changed {
		return summary, nil
	}
	if err := s.resultRepo.ReplaceByRace(ctx, seasonYear, round, items); err != nil {
		failed := LoadSummary{Failed: len(items)}
		return failed, fmt.Errorf("replace results season=%d round=%d: %w", seasonYear, round, err)
	}
	return summary, nil
}

func (s *IngestionService) replaceQualifying(ctx context.Context, seasonYear, round int, items []qualifying.Qualifying) (LoadSummary, error) {
	existing, err := s.qualifyingRepo.ListByRace(ctx, seasonYear, round)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("list qualifying season=%d round=%d: %w", seasonYear, round, err)
	}
	if len(existing) == 0 && len(items) == 0 {
		return LoadSummary{}, nil
	}

	existingByDriver := make(map[string]qualifying.Qualifying, len(existing))
	for _, row := range existing {
		existingByDriver[row.DriverRef] = row
	}

	summary := LoadSummary{}
	changed := len(existing) != len(items)
	for idx := range items {
		prior, known := existingByDriver[items[idx].DriverRef]
		if !known {
			newID, err := s.idGen.NewID()
			if err != nil {
				summary.Failed += len(items)
				return summary, fmt.Errorf("mint qualifying id season=%d round=%d driver=%s: %w", seasonYear, round, items[idx].DriverRef, err)
			}
			items[idx].ID = newID
			summary.Inserted++
			changed = true
			continue
		}

		items[idx].ID = prior.ID
		if qualifyingEquivalent(prior, items[idx]) {
			summary.Unchanged++
			continue
		}
		summary.Updated++
		changed = true
	}

	if !changed {
		return summary, nil
	}
	if err := s.qualifyingRepo.ReplaceByRace(ctx, seasonYear, round, items); err != nil {
		failed := LoadSummary{Failed: len(items)}
		return failed, fmt.Errorf("replace qualifying season=%d round=%d: %w", seasonYear, round, err)
	}
	return summary, nil
}

func (s *IngestionService) replaceDriverStandings(ctx context.Context, seasonYear int, items []standing.DriverStanding) (LoadSummary, error) {
	existing, err := s.standingRepo.ListDriverStandings(ctx, seasonYear)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("list driver standings season=%d: %w", seasonYear, err)
	}
	if len(existing) == 0 && len(items) == 0 {
		return LoadSummary{}, nil
	}

	existingByRef := make(map[string]standing.DriverStanding, len(existing))
	for _, row := range existing {
		existingByRef[row.DriverRef] = row
	}

	summary := LoadSummary{}
	changed := len(existing) != len(items)
	for idx := range items {
		prior, known := existingByRef[items[idx].DriverRef]
		if !known {
			newID, err := s.idGen.NewID()
			if err != nil {
				summary.Failed += len(items)
				return summary, fmt.Errorf("mint driver standing id season=%d driver=%s: %w", seasonYear, items[idx].DriverRef, err)
			}
			items[idx].ID = newID
			summary.Inserted++
			changed = true
			continue
		}

		items[idx].ID = prior.ID
		if prior == items[idx] {
			summary.Unchanged++
			continue
		}
		summary.Updated++
		changed = true
	}

	if !changed {
		return summary, nil
	}
	if err := s.standingRepo.ReplaceDriverStandings(ctx, seasonYear, items); err != nil {
		failed := LoadSummary{Failed: len(items)}
		return failed, fmt.Errorf("replace driver standings season=%d: %w", seasonYear, err)
	}
	return summary, nil
}

func (s *IngestionService) replaceConstructorStandings(ctx context.Context, seasonYear int, items []standing.ConstructorStanding) (LoadSummary, error) {
	existing, err := s.standingRepo.ListConstructorStandings(ctx, seasonYear)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("list constructor standings season=%d: %w", seasonYear, err)
	}
	if len(existing) == 0 && len(items) == 0 {
		return LoadSummary{}, nil
	}

	existingByRef := make(map[string]standing.ConstructorStanding, len(existing))
	for _, row := range existing {
		existingByRef[row.ConstructorRef] = row
	}

	summary := LoadSummary{}
	changed := len(existing) != len(items)
	for idx := range items {
		prior, known := existingByRef[items[idx].ConstructorRef]
		if !known {
			newID, err := s.idGen.NewID()
			if err != nil {
				summary.Failed += len(items)
				return summary, fmt.Errorf("mint constructor standing id season=%d constructor=%s: %w", seasonYear, items[idx].ConstructorRef, err)
			}
			items[idx].ID = newID
			summary.Inserted++
			changed = true
			continue
		}

		items[idx].ID = prior.ID
		if prior == items[idx] {
			summary.Unchanged++
			continue
		}
		summary.Updated++
		changed = true
	}

	if !changed {
		return summary, nil
	}
	if err := s.standingRepo.ReplaceConstructorStandings(ctx, seasonYear, items); err != nil {
		failed := LoadSummary{Failed: len(items)}
		return failed, fmt.Errorf("replace constructor standings season=%d: %w", seasonYear, err)
	}
	return summary, nil
}

func (s *IngestionService) replaceDriverMetrics(ctx context.Context, seasonYear int, items []metrics.DriverMetrics) (LoadSummary, error) {
	existing, err := s.metricsRepo.ListDriverMetricsBySeason(ctx, seasonYear)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("list driver metrics season=%d: %w", seasonYear, err)
	}
	if len(existing) == 0 && len(items) == 0 {
		return LoadSummary{}, nil
	}

	existingByRef := make(map[string]metrics.DriverMetrics, len(existing))
	for _, row := range existing {
		existingByRef[row.DriverRef] = row
	}

	summary := LoadSummary{}
	changed := len(existing) != len(items)
	for idx := range items {
		prior, known := existingByRef[items[idx].DriverRef]
		if !known {
			newID, err := s.idGen.NewID()
			if err != nil {
				summary.Failed += len(items)
				return summary, fmt.Errorf("mint driver metrics id season=%d driver=%s: %w", seasonYear, items[idx].DriverRef, err)
			}
			items[idx].ID = newID
			summary.Inserted++
			changed = true
			continue
		}

		items[idx].ID = prior.ID
		if driverMetricsEquivalent(prior, items[idx]) {
			summary.Unchanged++
			continue
		}
		summary.Updated++
		changed = true
	}

	if !changed {
		return summary, nil
	}
	if err := s.metricsRepo.ReplaceDriverMetrics(ctx, seasonYear, items); err != nil {
		failed := LoadSummary{Failed: len(items)}
		return failed, fmt.Errorf("replace driver metrics season=%d: %w", seasonYear, err)
	}
	return summary, nil
}

func (s *IngestionService) replaceConstructorMetrics(ctx context.Context, seasonYear int, items []metrics.ConstructorMetrics) (LoadSummary, error) {
	existing, err := s.metricsRepo.ListConstructorMetricsBySeason(ctx, seasonYear)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("list constructor metrics season=%d: %w", seasonYear, err)
	}
	if len(existing) == 0 && len(items) == 0 {
		return LoadSummary{}, nil
	}

	existingByRef := make(map[string]metrics.ConstructorMetrics, len(existing))
	for _, row := range existing {
		existingByRef[row.ConstructorRef] = row
	}

	summary := LoadSummary{}
	changed := len(existing) != len(items)
	for idx := range items {
		prior, known := existingByRef[items[idx].ConstructorRef]
		if !known {
			newID, err := s.idGen.NewID()
			if err != nil {
				summary.Failed += len(items)
				return summary, fmt.Errorf("mint constructor metrics id season=%d constructor=%s: %w", seasonYear, items[idx].ConstructorRef, err)
			}
			items[idx].ID = newID
			summary.Inserted++
			changed = true
			continue
		}

		items[idx].ID = prior.ID
		if constructorMetricsEquivalent(prior, items[idx]) {
			summary.Unchanged++
			continue
		}
		summary.Updated++
		changed = true
	}

	if !changed {
		return summary, nil
	}
	if err := s.metricsRepo.ReplaceConstructorMetrics(ctx, seasonYear, items); err != nil {
		failed := LoadSummary{Failed: len(items)}
		return failed, fmt.Errorf("replace constructor metrics season=%d: %w", seasonYear, err)
	}
	return summary, nil
}

// cachedDriver reads a driver through the ref cache so one season's worth of
// race units does not re-query the same handful of refs every round.
func (s *IngestionService) cachedDriver(ctx context.Context, ref string) (*driver.Driver, error) {
	if s.refCache == nil {
		item, err := s.driverRepo.GetByRef(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("get driver ref=%s: %w", ref, err)
		}
		return item, nil
	}

	value, err := s.refCache.GetOrLoad(ctx, "driver/"+ref, func(ctx context.Context) (any, error) {
		return s.driverRepo.GetByRef(ctx, ref)
	})
	if err != nil {
		return nil, fmt.Errorf("get driver ref=%s: %w", ref, err)
	}
	item, _ := value.(*driver.Driver)
	return item, nil
}

func (s *IngestionService) cachedConstructor(ctx context.Context, ref string) (*constructor.Constructor, error) {
	if s.refCache == nil {
		item, err := s.constructorRepo.GetByRef(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("get constructor ref=%s: %w", ref, err)
		}
		return item, nil
	}

	value, err := s.refCache.GetOrLoad(ctx, "constructor/"+ref, func(ctx context.Context) (any, error) {
		return s.constructorRepo.GetByRef(ctx, ref)
	})
	if err != nil {
		return nil, fmt.Errorf("get constructor ref=%s: %w", ref, err)
	}
	item, _ := value.(*constructor.Constructor)
	return item, nil
}

func (s *IngestionService) cachedCircuit(ctx context.Context, ref string) (*circuit.Circuit, error) {
	if s.refCache == nil {
		item, err := s.circuitRepo.GetByRef(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("get circuit ref=%s: %w", ref, err)
		}
		return item, nil
	}

	value, err := s.refCache.GetOrLoad(ctx, "circuit/"+ref, func(ctx context.Context) (any, error) {
		return s.circuitRepo.GetByRef(ctx, ref)
	})
	if err != nil {
		return nil, fmt.Errorf("get circuit ref=%s: %w", ref, err)
	}
	item, _ := value.(*circuit.Circuit)
	return item, nil
}

func (s *IngestionService) cacheSet(ctx context.Context, key string, value any) {
	if s.refCache == nil {
		return
	}
	s.refCache.Set(ctx, key, value)
}

// keyedMutex hands out one mutex per key so writes to the same natural key
// serialize while unrelated keys proceed in parallel.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func circuitEquivalent(a, b circuit.Circuit) bool {
	a.ID, b.ID = "", ""
	return a.Ref == b.Ref &&
		a.Name == b.Name &&
		a.Locality == b.Locality &&
		a.Country == b.Country &&
		float64PtrEqual(a.Latitude, b.Latitude) &&
		float64PtrEqual(a.Longitude, b.Longitude) &&
		a.URL == b.URL
}

func driverEquivalent(a, b driver.Driver) bool {
	a.ID, b.ID = "", ""
	return a.Ref == b.Ref &&
		intPtrEqual(a.Number, b.Number) &&
		a.Code == b.Code &&
		a.GivenName == b.GivenName &&
		a.FamilyName == b.FamilyName &&
		timePtrEqual(a.DateOfBirth, b.DateOfBirth) &&
		a.Nationality == b.Nationality &&
		a.URL == b.URL
}

func constructorEquivalent(a, b constructor.Constructor) bool {
	a.ID, b.ID = "", ""
	return a == b
}

func raceEquivalent(a, b race.Race) bool {
	a.ID, b.ID = "", ""
	return a.Season == b.Season &&
		a.Round == b.Round &&
		a.Name == b.Name &&
		a.CircuitRef == b.CircuitRef &&
		a.Date.Equal(b.Date) &&
		a.StartTime == b.StartTime &&
		a.URL == b.URL
}

func resultEquivalent(a, b result.Result) bool {
	a.ID, b.ID = "", ""
	return a.Season == b.Season &&
		a.Round == b.Round &&
		a.DriverRef == b.DriverRef &&
		a.ConstructorRef == b.ConstructorRef &&
		a.Grid == b.Grid &&
		intPtrEqual(a.Position, b.Position) &&
		a.PositionText == b.PositionText &&
		a.PositionOrder == b.PositionOrder &&
		a.Points == b.Points &&
		a.Laps == b.Laps &&
		a.Status == b.Status &&
		int64PtrEqual(a.TimeMillis, b.TimeMillis) &&
		intPtrEqual(a.FastestLapRank, b.FastestLapRank) &&
		a.EraTag == b.EraTag
}

func qualifyingEquivalent(a, b qualifying.Qualifying) bool {
	a.ID, b.ID = "", ""
	return a == b
}

func driverMetricsEquivalent(a, b metrics.DriverMetrics) bool {
	a.ID, b.ID = "", ""
	return a.Season == b.Season &&
		a.DriverRef == b.DriverRef &&
		a.EraTag == b.EraTag &&
		a.RacesEntered == b.RacesEntered &&
		a.RacesFinished == b.RacesFinished &&
		a.Wins == b.Wins &&
		a.Podiums == b.Podiums &&
		a.Poles == b.Poles &&
		a.DNFCount == b.DNFCount &&
		a.TotalPoints == b.TotalPoints &&
		float64PtrEqual(a.AvgFinish, b.AvgFinish) &&
		float64PtrEqual(a.AvgGrid, b.AvgGrid) &&
		a.AvgPointsPerRace == b.AvgPointsPerRace &&
		a.PositionsGained == b.PositionsGained &&
		float64PtrEqual(a.ConsistencyScore, b.ConsistencyScore)
}

func constructorMetricsEquivalent(a, b metrics.ConstructorMetrics) bool {
	a.ID, b.ID = "", ""
	return a.Season == b.Season &&
		a.ConstructorRef == b.ConstructorRef &&
		a.EraTag == b.EraTag &&
		a.RacesEntered == b.RacesEntered &&
		a.Wins == b.Wins &&
		a.Podiums == b.Podiums &&
		a.Poles == b.Poles &&
		a.OneTwoFinishes == b.OneTwoFinishes &&
		a.DoubleDNFs == b.DoubleDNFs &&
		a.TotalPoints == b.TotalPoints &&
		float64PtrEqual(a.AvgFinish, b.AvgFinish) &&
		a.AvgPointsPerRace == b.AvgPointsPerRace &&
		float64PtrEqual(a.ReliabilityRate, b.ReliabilityRate)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func float64PtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
