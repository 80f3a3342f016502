package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "season", "round").
		From("races").
		Where(Eq("season", 2024), IsNull("deleted_at")).
		OrderBy("round").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, season, round FROM races WHERE season = $1 AND deleted_at IS NULL ORDER BY round LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != 2024 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_InCondition(t *testing.T) {
	query, args, err := Select("ref").
		From("drivers").
		Where(In("ref", []any{"hamilton", "alonso"}), IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT ref FROM drivers WHERE ref IN ($1, $2) AND deleted_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "hamilton" || args[1] != "alonso" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_InConditionEmptyMatchesNothing(t *testing.T) {
	query, args, err := Select("ref").
		From("drivers").
		Where(In("ref", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT ref FROM drivers WHERE 1=0"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_RequiresTable(t *testing.T) {
	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatal("expected error for select without a table")
	}
}

func TestInsertModel(t *testing.T) {
	type driverRow struct {
		ID      string `db:"id"`
		Ref     string `db:"ref"`
		Skipped string `db:"-"`
	}

	query, args, err := InsertModel("drivers", driverRow{ID: "d1", Ref: "alonso", Skipped: "x"}, "ON CONFLICT (ref) DO NOTHING")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO drivers (id, ref) VALUES ($1, $2) ON CONFLICT (ref) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "d1" || args[1] != "alonso" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel_PointerModelWithoutConflictClause(t *testing.T) {
	type seasonRow struct {
		PublicID string `db:"public_id"`
		Year     int    `db:"year"`
	}

	query, args, err := InsertModel("seasons", &seasonRow{PublicID: "season-1950", Year: 1950}, "")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO seasons (public_id, year) VALUES ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "season-1950" || args[1] != 1950 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel_RejectsTaglessModel(t *testing.T) {
	type bare struct {
		Name string
	}

	if _, _, err := InsertModel("drivers", bare{Name: "x"}, ""); err == nil {
		t.Fatal("expected error for model without db tags")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("races").
		Set("name", "Monaco Grand Prix").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "r1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE races SET name = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Monaco Grand Prix" || args[1] != "r1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_RequiresSets(t *testing.T) {
	if _, _, err := Update("races").Where(Eq("id", "r1")).ToSQL(); err == nil {
		t.Fatal("expected error for update without sets")
	}
}
