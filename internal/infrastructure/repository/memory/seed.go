package memory

import "github.com/pitwall/f1-stats/internal/domain/alias"

// SeedAliases is the default reconciliation table. Early championship
// payloads key constructors by engine-suffixed names and a handful of
// drivers and circuits drifted spelling across archive revisions.
func SeedAliases() []alias.Alias {
	return []alias.Alias{
		{EntityType: alias.EntityConstructor, Value: "lotus-climax", CanonicalRef: "team_lotus"},
		{EntityType: alias.EntityConstructor, Value: "lotus-brm", CanonicalRef: "team_lotus"},
		{EntityType: alias.EntityConstructor, Value: "lotus-ford", CanonicalRef: "team_lotus"},
		{EntityType: alias.EntityConstructor, Value: "cooper-climax", CanonicalRef: "cooper"},
		{EntityType: alias.EntityConstructor, Value: "cooper-maserati", CanonicalRef: "cooper"},
		{EntityType: alias.EntityConstructor, Value: "brabham-repco", CanonicalRef: "brabham"},
		{EntityType: alias.EntityConstructor, Value: "brabham-ford", CanonicalRef: "brabham"},
		{EntityType: alias.EntityConstructor, Value: "mclaren-mercedes", CanonicalRef: "mclaren"},
		{EntityType: alias.EntityConstructor, Value: "alfa", CanonicalRef: "alfa_romeo"},
		{EntityType: alias.EntityConstructor, Value: "alpha_tauri", CanonicalRef: "alphatauri"},
		{EntityType: alias.EntityDriver, Value: "kimi_raikkonen", CanonicalRef: "raikkonen"},
		{EntityType: alias.EntityDriver, Value: "lewis_hamilton", CanonicalRef: "hamilton"},
		{EntityType: alias.EntityDriver, Value: "m_schumacher", CanonicalRef: "michael_schumacher"},
		{EntityType: alias.EntityDriver, Value: "juan_pablo_montoya", CanonicalRef: "montoya"},
		{EntityType: alias.EntityCircuit, Value: "nurburgring_gp", CanonicalRef: "nurburgring"},
		{EntityType: alias.EntityCircuit, Value: "istanbul_park", CanonicalRef: "istanbul"},
		{EntityType: alias.EntityCircuit, Value: "silverstone_circuit", CanonicalRef: "silverstone"},
	}
}
