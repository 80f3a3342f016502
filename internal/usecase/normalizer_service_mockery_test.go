package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/pitwall/f1-stats/internal/domain/alias"
	aliasmock "github.com/pitwall/f1-stats/internal/mocks/domain/alias"
	"github.com/pitwall/f1-stats/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestNormalizerService_LoadAliases_ResolvesRenamedRefsUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	aliasRepo := aliasmock.NewRepository(t)

	service := NewNormalizerService(aliasRepo, logging.NewNop())

	aliasRepo.
		On("ListByType", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), alias.EntityDriver).
		Return([]alias.Alias{{EntityType: alias.EntityDriver, Value: "j_clark", CanonicalRef: "clark"}}, nil).
		Once()
	aliasRepo.
		On("ListByType", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), alias.EntityConstructor).
		Return([]alias.Alias{{EntityType: alias.EntityConstructor, Value: "lotus-climax", CanonicalRef: "team_lotus"}}, nil).
		Once()
	aliasRepo.
		On("ListByType", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), alias.EntityCircuit).
		Return(nil, nil).
		Once()

	if err := service.LoadAliases(ctx); err != nil {
		t.Fatalf("load aliases: %v", err)
	}

	rows, err := service.NormalizeResults(ctx, 1963, 1, []ExternalResult{
		{
			Position: "1",
			Points:   "9",
			Grid:     "1",
			Laps:     "100",
			Status:   "Finished",
			Driver:   ExternalDriver{Ref: "J_Clark", GivenName: "Jim", FamilyName: "Clark"},
			Constructor: ExternalConstructor{
				Ref:  "Lotus-Climax",
				Name: "Lotus-Climax",
			},
		},
	})
	if err != nil {
		t.Fatalf("normalize results: %v", err)
	}
	if rows.Results[0].DriverRef != "clark" {
		t.Fatalf("unexpected driver ref: got=%s want=clark", rows.Results[0].DriverRef)
	}
	if rows.Results[0].ConstructorRef != "team_lotus" {
		t.Fatalf("unexpected constructor ref: got=%s want=team_lotus", rows.Results[0].ConstructorRef)
	}
	if len(rows.Drivers) != 1 || rows.Drivers[0].Ref != "clark" {
		t.Fatalf("expected one canonical driver row, got %+v", rows.Drivers)
	}
}

func TestNormalizerService_RegisterAlias_UpsertErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	aliasRepo := aliasmock.NewRepository(t)

	service := NewNormalizerService(aliasRepo, logging.NewNop())

	normalized := alias.Alias{EntityType: alias.EntityConstructor, Value: "alpha_tauri", CanonicalRef: "alphatauri"}
	aliasRepo.
		On("Upsert", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), normalized).
		Return(ErrStorageUnavailable).
		Once()

	err := service.RegisterAlias(ctx, alias.Alias{EntityType: alias.EntityConstructor, Value: " Alpha_Tauri ", CanonicalRef: "AlphaTauri"})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}
