package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pitwall/f1-stats/internal/domain/alias"
	"github.com/pitwall/f1-stats/internal/domain/circuit"
	"github.com/pitwall/f1-stats/internal/domain/constructor"
	"github.com/pitwall/f1-stats/internal/domain/driver"
	"github.com/pitwall/f1-stats/internal/domain/qualifying"
	"github.com/pitwall/f1-stats/internal/domain/race"
	"github.com/pitwall/f1-stats/internal/domain/result"
	"github.com/pitwall/f1-stats/internal/domain/season"
	"github.com/pitwall/f1-stats/internal/domain/standing"
	"github.com/pitwall/f1-stats/internal/platform/logging"
)

// NormalizerService turns the upstream's loosely typed payload rows into
// validated domain rows. Entity refs are reconciled against the alias table
// so renamed teams and respelled circuits keep one identity across seasons,
// and every result row is tagged with the scoring era of its season.
type NormalizerService struct {
	aliasRepo alias.Repository
	validate  *validator.Validate
	logger    *logging.Logger

	mu        sync.RWMutex
	aliases   map[string]string
	knownRefs map[string]struct{}
}

// ScheduleRows is the normalized output of one season schedule payload.
type ScheduleRows struct {
	Races    []race.Race
	Circuits []circuit.Circuit
}

// RaceResultRows is the normalized output of one race result payload,
// including the reference entities the rows mention.
type RaceResultRows struct {
	Results      []result.Result
	Drivers      []driver.Driver
	Constructors []constructor.Constructor
}

func NewNormalizerService(aliasRepo alias.Repository, logger *logging.Logger) *NormalizerService {
	if logger == nil {
		logger = logging.Default()
	}

	return &NormalizerService{
		aliasRepo: aliasRepo,
		validate:  validator.New(),
		logger:    logger,
		aliases:   make(map[string]string),
		knownRefs: make(map[string]struct{}),
	}
}

// LoadAliases replaces the in-memory alias map from the alias table. Call it
// once before a run; later calls pick up operator-added rows.
func (s *NormalizerService) LoadAliases(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NormalizerService.LoadAliases")
	defer span.End()

	if s.aliasRepo == nil {
		return nil
	}

	loaded := make(map[string]string)
	for _, entityType := range []string{alias.EntityDriver, alias.EntityConstructor, alias.EntityCircuit} {
		items, err := s.aliasRepo.ListByType(ctx, entityType)
		if err != nil {
			return fmt.Errorf("list aliases type=%s: %w", entityType, err)
		}
		for _, item := range items {
			loaded[aliasKey(item.EntityType, item.Value)] = item.CanonicalRef
		}
	}

	s.mu.Lock()
	s.aliases = loaded
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "alias map loaded", "count", len(loaded))
	return nil
}

// RegisterAlias stores an operator-supplied alias and makes it effective
// immediately without a reload.
func (s *NormalizerService) RegisterAlias(ctx context.Context, item alias.Alias) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NormalizerService.RegisterAlias")
	defer span.End()

	item.Value = alias.Normalize(item.Value)
	item.CanonicalRef = alias.Normalize(item.CanonicalRef)
	if err := s.validate.StructCtx(ctx, item); err != nil {
		return fmt.Errorf("%w: alias type=%s value=%s: %v", ErrInvalidInput, item.EntityType, item.Value, err)
	}
	if s.aliasRepo != nil {
		if err := s.aliasRepo.Upsert(ctx, item); err != nil {
			return fmt.Errorf("upsert alias type=%s value=%s: %w", item.EntityType, item.Value, err)
		}
	}

	s.mu.Lock()
	s.aliases[aliasKey(item.EntityType, item.Value)] = item.CanonicalRef
	s.mu.Unlock()
	return nil
}

// NormalizeSchedule maps one season's calendar payload into race and circuit
// rows. Round and circuit ref are the identifying fields; everything else is
// repaired when absent.
func (s *NormalizerService) NormalizeSchedule(ctx context.Context, seasonYear int, items []ExternalRace) (ScheduleRows, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NormalizerService.NormalizeSchedule")
	defer span.End()

	if seasonYear < season.First {
		return ScheduleRows{}, fmt.Errorf("%w: season %d predates the championship", ErrInvalidInput, seasonYear)
	}

	out := ScheduleRows{
		Races: make([]race.Race, 0, len(items)),
	}
	circuits := newRefSet[circuit.Circuit]()
	for idx, item := range items {
		round, err := parseRequiredInt("round", item.Round)
		if err != nil {
			return ScheduleRows{}, fmt.Errorf("schedule row %d season=%d: %w", idx, seasonYear, err)
		}
		circuitRef := s.canonicalRef(ctx, alias.EntityCircuit, item.Circuit.Ref)
		if circuitRef == "" {
			return ScheduleRows{}, fmt.Errorf("%w: schedule row %d season=%d round=%d: circuit ref is missing", ErrMalformedPayload, idx, seasonYear, round)
		}

		raceDate := time.Time{}
		if parsed, err := parseDate(item.Date); err != nil {
			s.logger.WarnContext(ctx, "unparseable race date dropped", "season", seasonYear, "round", round, "date", item.Date)
		} else if parsed != nil {
			raceDate = *parsed
		}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = fmt.Sprintf("Round %d", round)
			s.logger.WarnContext(ctx, "race name missing, substituted", "season", seasonYear, "round", round)
		}

		row := race.Race{
			Season:     seasonYear,
			Round:      round,
			Name:       name,
			CircuitRef: circuitRef,
			Date:       raceDate,
			StartTime:  strings.TrimSpace(item.Time),
			URL:        strings.TrimSpace(item.URL),
		}
		if err := s.validate.StructCtx(ctx, row); err != nil {
			return ScheduleRows{}, fmt.Errorf("%w: validate race season=%d round=%d: %v", ErrMalformedPayload, seasonYear, round, err)
		}
		out.Races = append(out.Races, row)

		circuits.put(circuitRef, s.normalizeCircuit(ctx, circuitRef, item.Circuit))
	}

	for _, row := range circuits.ordered() {
		if err := s.validate.StructCtx(ctx, row); err != nil {
			return ScheduleRows{}, fmt.Errorf("%w: validate circuit ref=%s: %v", ErrMalformedPayload, row.Ref, err)
		}
		out.Circuits = append(out.Circuits, row)
	}
	return out, nil
}

// NormalizeResults maps one race's classification payload into result rows
// plus the drivers and constructors they mention. Driver and constructor ref
// are identifying; a row without them fails the whole payload.
func (s *NormalizerService) NormalizeResults(ctx context.Context, seasonYear, round int, items []ExternalResult) (RaceResultRows, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NormalizerService.NormalizeResults")
	defer span.End()

	eraTag := season.EraTag(seasonYear)
	out := RaceResultRows{
		Results: make([]result.Result, 0, len(items)),
	}
	drivers := newRefSet[driver.Driver]()
	constructors := newRefSet[constructor.Constructor]()

	for idx, item := range items {
		driverRef := s.canonicalRef(ctx, alias.EntityDriver, item.Driver.Ref)
		constructorRef := s.canonicalRef(ctx, alias.EntityConstructor, item.Constructor.Ref)
		if driverRef == "" || constructorRef == "" {
			return RaceResultRows{}, fmt.Errorf("%w: result row %d season=%d round=%d: driver or constructor ref is missing", ErrMalformedPayload, idx, seasonYear, round)
		}

		positionOrder, err := parseRequiredInt("position", item.Position)
		if err != nil {
			return RaceResultRows{}, fmt.Errorf("result row %d season=%d round=%d driver=%s: %w", idx, seasonYear, round, driverRef, err)
		}
		points, err := s.parsePoints(ctx, item.Points, seasonYear, round, driverRef)
		if err != nil {
			return RaceResultRows{}, err
		}
		timeMillis, err := parseOptionalInt64(item.TimeMillis)
		if err != nil {
			return RaceResultRows{}, fmt.Errorf("result row %d season=%d round=%d driver=%s: %w", idx, seasonYear, round, driverRef, err)
		}
		fastestLapRank, err := parseOptionalInt(item.FastestLapRank)
		if err != nil {
			return RaceResultRows{}, fmt.Errorf("result row %d season=%d round=%d driver=%s: %w", idx, seasonYear, round, driverRef, err)
		}

		positionText := strings.TrimSpace(item.PositionText)
		if positionText == "" {
			positionText = strconv.Itoa(positionOrder)
			s.logger.WarnContext(ctx, "position text missing, substituted order", "season", seasonYear, "round", round, "driver", driverRef)
		}
		// A numeric position text means the car was classified. Letters
		// (R, D, W, E, F, N) mean retired, disqualified, withdrawn and so
		// on; those rows keep a nil position so averages stay honest.
		var position *int
		if value, convErr := strconv.Atoi(positionText); convErr == nil && value > 0 {
			position = &value
		}

		row := result.Result{
			Season:         seasonYear,
			Round:          round,
			DriverRef:      driverRef,
			ConstructorRef: constructorRef,
			Grid:           s.parseCount(ctx, "grid", item.Grid, seasonYear, round, driverRef),
			Position:       position,
			PositionText:   positionText,
			PositionOrder:  positionOrder,
			Points:         points,
			Laps:           s.parseCount(ctx, "laps", item.Laps, seasonYear, round, driverRef),
			Status:         strings.TrimSpace(item.Status),
			TimeMillis:     timeMillis,
			FastestLapRank: fastestLapRank,
			EraTag:         eraTag,
		}
		if err := s.validate.StructCtx(ctx, row); err != nil {
			return RaceResultRows{}, fmt.Errorf("%w: validate result season=%d round=%d driver=%s: %v", ErrMalformedPayload, seasonYear, round, driverRef, err)
		}
		out.Results = append(out.Results, row)

		drivers.put(driverRef, s.normalizeDriver(ctx, driverRef, item.Driver))
		constructors.put(constructorRef, s.normalizeConstructor(constructorRef, item.Constructor))
	}

	for _, row := range drivers.ordered() {
		if err := s.validate.StructCtx(ctx, row); err != nil {
			return RaceResultRows{}, fmt.Errorf("%w: validate driver ref=%s: %v", ErrMalformedPayload, row.Ref, err)
		}
		out.Drivers = append(out.Drivers, row)
	}
	for _, row := range constructors.ordered() {
		if err := s.validate.StructCtx(ctx, row); err != nil {
			return RaceResultRows{}, fmt.Errorf("%w: validate constructor ref=%s: %v", ErrMalformedPayload, row.Ref, err)
		}
		out.Constructors = append(out.Constructors, row)
	}
	return out, nil
}

// NormalizeQualifying maps one race's grid-setting payload. An empty payload
// is a valid outcome; decades of seasons never recorded qualifying.
func (s *NormalizerService) NormalizeQualifying(ctx context.Context, seasonYear, round int, items []ExternalQualifying) ([]qualifying.Qualifying, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NormalizerService.NormalizeQualifying")
	defer span.End()

	out := make([]qualifying.Qualifying, 0, len(items))
	for idx, item := range items {
		driverRef := s.canonicalRef(ctx, alias.EntityDriver, item.Driver.Ref)
		constructorRef := s.canonicalRef(ctx, alias.EntityConstructor, item.Constructor.Ref)
		if driverRef == "" || constructorRef == "" {
			return nil, fmt.Errorf("%w: qualifying row %d season=%d round=%d: driver or constructor ref is missing", ErrMalformedPayload, idx, seasonYear, round)
		}
		position, err := parseRequiredInt("position", item.Position)
		if err != nil {
			return nil, fmt.Errorf("qualifying row %d season=%d round=%d driver=%s: %w", idx, seasonYear, round, driverRef, err)
		}

		row := qualifying.Qualifying{
			Season:         seasonYear,
			Round:          round,
			DriverRef:      driverRef,
			ConstructorRef: constructorRef,
			Position:       position,
			Q1:             strings.TrimSpace(item.Q1),
			Q2:             strings.TrimSpace(item.Q2),
			Q3:             strings.TrimSpace(item.Q3),
		}
		if err := s.validate.StructCtx(ctx, row); err != nil {
			return nil, fmt.Errorf("%w: validate qualifying season=%d round=%d driver=%s: %v", ErrMalformedPayload, seasonYear, round, driverRef, err)
		}
		out = append(out, row)
	}
	return out, nil
}

// NormalizeDriverStandings maps one season's championship table for drivers.
func (s *NormalizerService) NormalizeDriverStandings(ctx context.Context, seasonYear int, items []ExternalDriverStanding) ([]standing.DriverStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NormalizerService.NormalizeDriverStandings")
	defer span.End()

	eraTag := season.EraTag(seasonYear)
	out := make([]standing.DriverStanding, 0, len(items))
	for idx, item := range items {
		driverRef := s.canonicalRef(ctx, alias.EntityDriver, item.Driver.Ref)
		if driverRef == "" {
			return nil, fmt.Errorf("%w: driver standing row %d season=%d: driver ref is missing", ErrMalformedPayload, idx, seasonYear)
		}
		position, err := parseRequiredInt("position", item.Position)
		if err != nil {
			return nil, fmt.Errorf("driver standing row %d season=%d driver=%s: %w", idx, seasonYear, driverRef, err)
		}
		points, err := s.parsePoints(ctx, item.Points, seasonYear, 0, driverRef)
		if err != nil {
			return nil, err
		}

		row := standing.DriverStanding{
			Season:    seasonYear,
			DriverRef: driverRef,
			Position:  position,
			Points:    points,
			Wins:      s.parseCount(ctx, "wins", item.Wins, seasonYear, 0, driverRef),
			EraTag:    eraTag,
		}
		if err := s.validate.StructCtx(ctx, row); err != nil {
			return nil, fmt.Errorf("%w: validate driver standing season=%d driver=%s: %v", ErrMalformedPayload, seasonYear, driverRef, err)
		}
		out = append(out, row)
	}
	return out, nil
}

// NormalizeConstructorStandings maps one season's championship table for
// constructors.
func (s *NormalizerService) NormalizeConstructorStandings(ctx context.Context, seasonYear int, items []ExternalConstructorStanding) ([]standing.ConstructorStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NormalizerService.NormalizeConstructorStandings")
	defer span.End()

	eraTag := season.EraTag(seasonYear)
	out := make([]standing.ConstructorStanding, 0, len(items))
	for idx, item := range items {
		constructorRef := s.canonicalRef(ctx, alias.EntityConstructor, item.Constructor.Ref)
		if constructorRef == "" {
			return nil, fmt.Errorf("%w: constructor standing row %d season=%d: constructor ref is missing", ErrMalformedPayload, idx, seasonYear)
		}
		position, err := parseRequiredInt("position", item.Position)
		if err != nil {
			return nil, fmt.Errorf("constructor standing row %d season=%d constructor=%s: %w", idx, seasonYear, constructorRef, err)
		}
		points, err := s.parsePoints(ctx, item.Points, seasonYear, 0, constructorRef)
		if err != nil {
			return nil, err
		}

		row := standing.ConstructorStanding{
			Season:         seasonYear,
			ConstructorRef: constructorRef,
			Position:       position,
			Points:         points,
			Wins:           s.parseCount(ctx, "wins", item.Wins, seasonYear, 0, constructorRef),
			EraTag:         eraTag,
		}
		if err := s.validate.StructCtx(ctx, row); err != nil {
			return nil, fmt.Errorf("%w: validate constructor standing season=%d constructor=%s: %v", ErrMalformedPayload, seasonYear, constructorRef, err)
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *NormalizerService) normalizeCircuit(ctx context.Context, ref string, item ExternalCircuit) circuit.Circuit {
	name := strings.TrimSpace(item.Name)
	if name == "" {
		name = ref
	}

	lat, err := parseOptionalFloat(item.Lat)
	if err != nil {
		s.logger.WarnContext(ctx, "unparseable circuit latitude dropped", "circuit", ref, "lat", item.Lat)
		lat = nil
	}
	long, err := parseOptionalFloat(item.Long)
	if err != nil {
		s.logger.WarnContext(ctx, "unparseable circuit longitude dropped", "circuit", ref, "long", item.Long)
		long = nil
	}

	return circuit.Circuit{
		Ref:       ref,
		Name:      name,
		Locality:  strings.TrimSpace(item.Locality),
		Country:   strings.TrimSpace(item.Country),
		Latitude:  lat,
		Longitude: long,
		URL:       strings.TrimSpace(item.URL),
	}
}

func (s *NormalizerService) normalizeDriver(ctx context.Context, ref string, item ExternalDriver) driver.Driver {
	givenName := strings.TrimSpace(item.GivenName)
	familyName := strings.TrimSpace(item.FamilyName)
	if familyName == "" {
		familyName = ref
	}
	if givenName == "" {
		givenName = familyName
	}

	number, err := parseOptionalInt(item.PermanentNumber)
	if err != nil {
		s.logger.WarnContext(ctx, "unparseable driver number dropped", "driver", ref, "number", item.PermanentNumber)
		number = nil
	}
	dateOfBirth, err := parseDate(item.DateOfBirth)
	if err != nil {
		s.logger.WarnContext(ctx, "unparseable driver date of birth dropped", "driver", ref, "date_of_birth", item.DateOfBirth)
		dateOfBirth = nil
	}

	return driver.Driver{
		Ref:         ref,
		Number:      number,
		Code:        strings.ToUpper(strings.TrimSpace(item.Code)),
		GivenName:   givenName,
		FamilyName:  familyName,
		DateOfBirth: dateOfBirth,
		Nationality: strings.TrimSpace(item.Nationality),
		URL:         strings.TrimSpace(item.URL),
	}
}

func (s *NormalizerService) normalizeConstructor(ref string, item ExternalConstructor) constructor.Constructor {
	name := strings.TrimSpace(item.Name)
	if name == "" {
		name = ref
	}

	return constructor.Constructor{
		Ref:         ref,
		Name:        name,
		Nationality: strings.TrimSpace(item.Nationality),
		URL:         strings.TrimSpace(item.URL),
	}
}

// canonicalRef resolves an upstream identifier through the alias map. A ref
// without an alias entry is a first sighting; it is registered as its own
// canonical form, never rejected.
func (s *NormalizerService) canonicalRef(ctx context.Context, entityType, ref string) string {
	ref = alias.Normalize(ref)
	if ref == "" {
		return ""
	}

	s.mu.RLock()
	canonical, aliased := s.aliases[aliasKey(entityType, ref)]
	_, known := s.knownRefs[aliasKey(entityType, ref)]
	s.mu.RUnlock()

	if aliased {
		return canonical
	}
	if !known {
		s.mu.Lock()
		s.knownRefs[aliasKey(entityType, ref)] = struct{}{}
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "registered new ref", "entity_type", entityType, "ref", ref)
	}
	return ref
}

func (s *NormalizerService) parsePoints(ctx context.Context, value string, seasonYear, round int, ref string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		s.logger.WarnContext(ctx, "points missing, treated as zero", "season", seasonYear, "round", round, "ref", ref)
		return 0, nil
	}

	points, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: points %q season=%d round=%d ref=%s is not numeric", ErrMalformedPayload, value, seasonYear, round, ref)
	}
	return points, nil
}

func (s *NormalizerService) parseCount(ctx context.Context, field, value string, seasonYear, round int, ref string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	count, err := strconv.Atoi(value)
	if err != nil || count < 0 {
		s.logger.WarnContext(ctx, "unparseable count treated as zero", "field", field, "value", value, "season", seasonYear, "round", round, "ref", ref)
		return 0
	}
	return count
}

func aliasKey(entityType, value string) string {
	return entityType + "|" + alias.Normalize(value)
}

// refSet collects entities keyed by ref, keeping first-seen attribute values
// and an alphabetical output order.
type refSet[T any] struct {
	items map[string]T
}

func newRefSet[T any]() *refSet[T] {
	return &refSet[T]{items: make(map[string]T)}
}

func (s *refSet[T]) put(ref string, item T) {
	if _, exists := s.items[ref]; exists {
		return
	}
	s.items[ref] = item
}

func (s *refSet[T]) ordered() []T {
	refs := make([]string, 0, len(s.items))
	for ref := range s.items {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	out := make([]T, 0, len(refs))
	for _, ref := range refs {
		out = append(out, s.items[ref])
	}
	return out
}

func parseRequiredInt(field, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: %s is missing", ErrMalformedPayload, field)
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not numeric", ErrMalformedPayload, field, value)
	}
	return parsed, nil
}

func parseOptionalInt(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not numeric", ErrMalformedPayload, value)
	}
	return &parsed, nil
}

func parseOptionalInt64(value string) (*int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not numeric", ErrMalformedPayload, value)
	}
	return &parsed, nil
}

func parseOptionalFloat(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not numeric", ErrMalformedPayload, value)
	}
	return &parsed, nil
}

func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a date", ErrMalformedPayload, value)
	}
	parsed = parsed.UTC()
	return &parsed, nil
}
