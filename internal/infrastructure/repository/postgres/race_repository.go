package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitwall/f1-stats/internal/domain/race"
	qb "github.com/pitwall/f1-stats/internal/platform/querybuilder"
)

type RaceRepository struct {
	db *sqlx.DB
}

func NewRaceRepository(db *sqlx.DB) *RaceRepository {
	return &RaceRepository{db: db}
}

func (r *RaceRepository) GetBySeasonRound(ctx context.Context, seasonYear, round int) (*race.Race, error) {
	query, args, err := qb.Select("*").From("races").
		Where(
			qb.Eq("season", seasonYear),
			qb.Eq("round", round),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get race by season round query: %w", err)
	}

	var row raceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get race by season round: %w", err)
	}

	out := mapRaceRow(row)
	return &out, nil
}

func (r *RaceRepository) ListBySeason(ctx context.Context, seasonYear int) ([]race.Race, error) {
	query, args, err := qb.Select("*").From("races").
		Where(
			qb.Eq("season", seasonYear),
			qb.IsNull("deleted_at"),
		).
		OrderBy("round").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select races by season query: %w", err)
	}

	var rows []raceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select races by season: %w", err)
	}

	out := make([]race.Race, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapRaceRow(row))
	}

	return out, nil
}

func (r *RaceRepository) Insert(ctx context.Context, item *race.Race) error {
	insertModel := raceInsertModel{
		PublicID:   item.ID,
		Season:     item.Season,
		Round:      item.Round,
		Name:       item.Name,
		CircuitRef: item.CircuitRef,
		RaceDate:   item.Date,
		StartTime:  item.StartTime,
		URL:        item.URL,
	}
	query, args, err := qb.InsertModel("races", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert race query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return classifyWriteError(fmt.Sprintf("insert race season=%d round=%d", item.Season, item.Round), err)
	}

	return nil
}

func (r *RaceRepository) Update(ctx context.Context, item *race.Race) error {
	query, args, err := qb.Update("races").
		Set("name", item.Name).
		Set("circuit_ref", item.CircuitRef).
		Set("race_date", item.Date).
		Set("start_time", item.StartTime).
		Set("url", item.URL).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("season", item.Season),
			qb.Eq("round", item.Round),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update race query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return classifyWriteError(fmt.Sprintf("update race season=%d round=%d", item.Season, item.Round), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update race: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update race season=%d round=%d: no active row", item.Season, item.Round)
	}

	return nil
}

func mapRaceRow(row raceTableModel) race.Race {
	return race.Race{
		ID:         row.PublicID,
		Season:     row.Season,
		Round:      row.Round,
		Name:       row.Name,
		CircuitRef: row.CircuitRef,
		Date:       row.RaceDate,
		StartTime:  row.StartTime,
		URL:        row.URL,
	}
}
