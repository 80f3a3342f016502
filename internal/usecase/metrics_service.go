package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/pitwall/f1-stats/internal/domain/alias"
	"github.com/pitwall/f1-stats/internal/domain/metrics"
	"github.com/pitwall/f1-stats/internal/domain/qualifying"
	"github.com/pitwall/f1-stats/internal/domain/result"
	"github.com/pitwall/f1-stats/internal/domain/season"
	"github.com/pitwall/f1-stats/internal/platform/logging"
)

// MetricsService derives season aggregates from normalized result and
// qualifying rows. Compute methods are pure over their inputs; Compare reads
// previously stored aggregates.
type MetricsService struct {
	metricsRepo metrics.Repository
	logger      *logging.Logger
}

func NewMetricsService(metricsRepo metrics.Repository, logger *logging.Logger) *MetricsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MetricsService{
		metricsRepo: metricsRepo,
		logger:      logger,
	}
}

// ComparisonSide is one entity's totals across the compared seasons.
type ComparisonSide struct {
	Ref         string  `json:"ref"`
	SeasonsWith int     `json:"seasons_with_data"`
	Points      float64 `json:"points"`
	Wins        int     `json:"wins"`
	Podiums     int     `json:"podiums"`
}

// Comparison is a head-to-head summary over a season range. EraTags lists the
// scoring eras the range spans; point sums across different eras are not on
// one scale.
type Comparison struct {
	Kind    string         `json:"kind"`
	Seasons []int          `json:"seasons"`
	EraTags []string       `json:"era_tags"`
	A       ComparisonSide `json:"a"`
	B       ComparisonSide `json:"b"`
	Leader  string         `json:"leader"`
}

// ComputeDriverMetrics aggregates one season's results into per-driver rows.
// Races without a classified position count as entries and DNFs but stay out
// of the finish average and the consistency spread.
func (s *MetricsService) ComputeDriverMetrics(ctx context.Context, seasonYear int, results []result.Result, quals []qualifying.Qualifying) []metrics.DriverMetrics {
	_, span := startUsecaseSpan(ctx, "usecase.MetricsService.ComputeDriverMetrics")
	defer span.End()

	poles := make(map[string]int)
	for _, q := range quals {
		if q.Position == 1 {
			poles[q.DriverRef]++
		}
	}

	type driverAcc struct {
		entered, finished, wins, podiums, dnf int
		points                                float64
		gridSum, finishSum, positionsGained   int
		finishPositions                       []float64
	}

	accs := make(map[string]*driverAcc)
	for _, r := range results {
		acc := accs[r.DriverRef]
		if acc == nil {
			acc = &driverAcc{}
			accs[r.DriverRef] = acc
		}

		acc.entered++
		acc.gridSum += r.Grid
		acc.points += r.Points
		if !r.Finished() {
			acc.dnf++
			continue
		}

		position := *r.Position
		acc.finished++
		acc.finishSum += position
		acc.finishPositions = append(acc.finishPositions, float64(position))
		acc.positionsGained += r.Grid - position
		if position == 1 {
			acc.wins++
		}
		if position <= 3 {
			acc.podiums++
		}
	}

	eraTag := season.EraTag(seasonYear)
	out := make([]metrics.DriverMetrics, 0, len(accs))
	for ref, acc := range accs {
		row := metrics.DriverMetrics{
			Season:           seasonYear,
			DriverRef:        ref,
			EraTag:           eraTag,
			RacesEntered:     acc.entered,
			RacesFinished:    acc.finished,
			Wins:             acc.wins,
			Podiums:          acc.podiums,
			Poles:            poles[ref],
			DNFCount:         acc.dnf,
			TotalPoints:      round3(acc.points),
			AvgPointsPerRace: round3(acc.points / float64(acc.entered)),
			PositionsGained:  acc.positionsGained,
		}
		if acc.entered > 0 {
			row.AvgGrid = float64Ptr(round3(float64(acc.gridSum) / float64(acc.entered)))
		}
		if acc.finished > 0 {
			row.AvgFinish = float64Ptr(round3(float64(acc.finishSum) / float64(acc.finished)))
		}
		if len(acc.finishPositions) >= 2 {
			row.ConsistencyScore = float64Ptr(round3(sampleStdDev(acc.finishPositions)))
		}
		out = append(out, row)
	}

	sortDriverMetrics(out)
	return out
}

// ComputeConstructorMetrics aggregates one season's results into
// per-constructor rows. One-two finishes and double DNFs are judged per race
// over all cars the constructor entered.
func (s *MetricsService) ComputeConstructorMetrics(ctx context.Context, seasonYear int, results []result.Result, quals []qualifying.Qualifying) []metrics.ConstructorMetrics {
	_, span := startUsecaseSpan(ctx, "usecase.MetricsService.ComputeConstructorMetrics")
	defer span.End()

	poles := make(map[string]int)
	for _, q := range quals {
		if q.Position == 1 {
			poles[q.ConstructorRef]++
		}
	}

	type constructorAcc struct {
		wins, podiums            int
		points                   float64
		finishSum, finishCount   int
		entries, finishedEntries int
		positionsByRound         map[int][]*int
	}

	accs := make(map[string]*constructorAcc)
	for _, r := range results {
		acc := accs[r.ConstructorRef]
		if acc == nil {
			acc = &constructorAcc{positionsByRound: make(map[int][]*int)}
			accs[r.ConstructorRef] = acc
		}

		acc.entries++
		acc.points += r.Points
		acc.positionsByRound[r.Round] = append(acc.positionsByRound[r.Round], r.Position)
		if !r.Finished() {
			continue
		}

		position := *r.Position
		acc.finishedEntries++
		acc.finishSum += position
		acc.finishCount++
		if position == 1 {
			acc.wins++
		}
		if position <= 3 {
			acc.podiums++
		}
	}

	eraTag := season.EraTag(seasonYear)
	out := make([]metrics.ConstructorMetrics, 0, len(accs))
	for ref, acc := range accs {
		oneTwo := 0
		doubleDNF := 0
		for _, positions := range acc.positionsByRound {
			classified := make([]int, 0, len(positions))
			for _, p := range positions {
				if p != nil {
					classified = append(classified, *p)
				}
			}
			sort.Ints(classified)
			if len(classified) >= 2 && classified[0] == 1 && classified[1] == 2 {
				oneTwo++
			}
			if len(positions) >= 2 && len(classified) == 0 {
				doubleDNF++
			}
		}

		racesEntered := len(acc.positionsByRound)
		row := metrics.ConstructorMetrics{
			Season:           seasonYear,
			ConstructorRef:   ref,
			EraTag:           eraTag,
			RacesEntered:     racesEntered,
			Wins:             acc.wins,
			Podiums:          acc.podiums,
			Poles:            poles[ref],
			OneTwoFinishes:   oneTwo,
			DoubleDNFs:       doubleDNF,
			TotalPoints:      round3(acc.points),
			AvgPointsPerRace: round3(acc.points / float64(racesEntered)),
		}
		if acc.finishCount > 0 {
			row.AvgFinish = float64Ptr(round3(float64(acc.finishSum) / float64(acc.finishCount)))
		}
		if acc.entries > 0 {
			row.ReliabilityRate = float64Ptr(round2(float64(acc.finishedEntries) / float64(acc.entries) * 100))
		}
		out = append(out, row)
	}

	sortConstructorMetrics(out)
	return out
}

// Compare builds a head-to-head summary for two drivers or two constructors
// from their stored season aggregates. Ranking is points, then wins, then
// podiums, then ref code, so the leader is deterministic.
func (s *MetricsService) Compare(ctx context.Context, kind, refA, refB string, seasons []int) (Comparison, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MetricsService.Compare")
	defer span.End()

	refA = alias.Normalize(refA)
	refB = alias.Normalize(refB)
	if refA == "" || refB == "" {
		return Comparison{}, fmt.Errorf("%w: both refs are required", ErrInvalidInput)
	}
	if refA == refB {
		return Comparison{}, fmt.Errorf("%w: cannot compare %s with itself", ErrInvalidInput, refA)
	}
	if kind != alias.EntityDriver && kind != alias.EntityConstructor {
		return Comparison{}, fmt.Errorf("%w: unsupported comparison kind %q", ErrInvalidInput, kind)
	}
	years, err := normalizeSeasonList(seasons)
	if err != nil {
		return Comparison{}, err
	}

	out := Comparison{
		Kind:    kind,
		Seasons: years,
		EraTags: eraTagsForSeasons(years),
		A:       ComparisonSide{Ref: refA},
		B:       ComparisonSide{Ref: refB},
	}

	for _, year := range years {
		if err := s.accumulateComparison(ctx, kind, year, &out.A); err != nil {
			return Comparison{}, err
		}
		if err := s.accumulateComparison(ctx, kind, year, &out.B); err != nil {
			return Comparison{}, err
		}
	}
	if out.A.SeasonsWith == 0 && out.B.SeasonsWith == 0 {
		return Comparison{}, fmt.Errorf("%w: no stored metrics for %s or %s in the requested seasons", ErrNotFound, refA, refB)
	}

	out.Leader = out.A.Ref
	if comparisonLess(out.A, out.B) {
		out.Leader = out.B.Ref
	}
	return out, nil
}

func (s *MetricsService) accumulateComparison(ctx context.Context, kind string, year int, side *ComparisonSide) error {
	switch kind {
	case alias.EntityDriver:
		row, err := s.metricsRepo.GetDriverMetrics(ctx, year, side.Ref)
		if err != nil {
			return fmt.Errorf("get driver metrics season=%d driver=%s: %w", year, side.Ref, err)
		}
		if row == nil {
			return nil
		}
		side.SeasonsWith++
		side.Points += row.TotalPoints
		side.Wins += row.Wins
		side.Podiums += row.Podiums
	case alias.EntityConstructor:
		row, err := s.metricsRepo.GetConstructorMetrics(ctx, year, side.Ref)
		if err != nil {
			return fmt.Errorf("get constructor metrics season=%d constructor=%s: %w", year, side.Ref, err)
		}
		if row == nil {
			return nil
		}
		side.SeasonsWith++
		side.Points += row.TotalPoints
		side.Wins += row.Wins
		side.Podiums += row.Podiums
	}
	return nil
}

// comparisonLess reports whether a ranks below b.
func comparisonLess(a, b ComparisonSide) bool {
	if a.Points != b.Points {
		return a.Points < b.Points
	}
	if a.Wins != b.Wins {
		return a.Wins < b.Wins
	}
	if a.Podiums != b.Podiums {
		return a.Podiums < b.Podiums
	}
	return a.Ref > b.Ref
}

func sortDriverMetrics(items []metrics.DriverMetrics) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].TotalPoints != items[j].TotalPoints {
			return items[i].TotalPoints > items[j].TotalPoints
		}
		if items[i].Wins != items[j].Wins {
			return items[i].Wins > items[j].Wins
		}
		if items[i].Podiums != items[j].Podiums {
			return items[i].Podiums > items[j].Podiums
		}
		return items[i].DriverRef < items[j].DriverRef
	})
}

func sortConstructorMetrics(items []metrics.ConstructorMetrics) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].TotalPoints != items[j].TotalPoints {
			return items[i].TotalPoints > items[j].TotalPoints
		}
		if items[i].Wins != items[j].Wins {
			return items[i].Wins > items[j].Wins
		}
		if items[i].Podiums != items[j].Podiums {
			return items[i].Podiums > items[j].Podiums
		}
		return items[i].ConstructorRef < items[j].ConstructorRef
	})
}

func normalizeSeasonList(seasons []int) ([]int, error) {
	if len(seasons) == 0 {
		return nil, fmt.Errorf("%w: at least one season is required", ErrInvalidInput)
	}

	seen := make(map[int]struct{}, len(seasons))
	out := make([]int, 0, len(seasons))
	for _, year := range seasons {
		if year < season.First {
			return nil, fmt.Errorf("%w: season %d predates the championship", ErrInvalidInput, year)
		}
		if _, exists := seen[year]; exists {
			continue
		}
		seen[year] = struct{}{}
		out = append(out, year)
	}
	sort.Ints(out)
	return out, nil
}

func eraTagsForSeasons(years []int) []string {
	seen := make(map[string]struct{}, 2)
	out := make([]string, 0, 2)
	for _, year := range years {
		tag := season.EraTag(year)
		if _, exists := seen[tag]; exists {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// sampleStdDev is the n-1 denominator standard deviation, matching how the
// consistency spread has historically been published for this dataset.
func sampleStdDev(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= n

	variance := 0.0
	for _, v := range values {
		delta := v - mean
		variance += delta * delta
	}
	return math.Sqrt(variance / (n - 1))
}

func round3(value float64) float64 {
	return math.Round(value*1000) / 1000
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func float64Ptr(value float64) *float64 {
	return &value
}
