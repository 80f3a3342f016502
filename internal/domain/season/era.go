package season

// Scoring eras. The points awarded per finishing position changed at each of
// these boundaries, so season totals are only comparable within one era.
const (
	Era1950 = "1950" // 8-6-4-3-2 plus a point for fastest lap
	Era1960 = "1960" // 8-6-4-3-2-1, fastest lap point dropped
	Era1961 = "1961" // 9-6-4-3-2-1
	Era1991 = "1991" // 10-6-4-3-2-1
	Era2003 = "2003" // 10-8-6-5-4-3-2-1
	Era2010 = "2010" // 25-18-15-12-10-8-6-4-2-1
	Era2019 = "2019" // 2010 scale plus a point for fastest lap in the top ten
)

// EraTag returns the scoring era a season belongs to.
func EraTag(year int) string {
	switch {
	case year >= 2019:
		return Era2019
	case year >= 2010:
		return Era2010
	case year >= 2003:
		return Era2003
	case year >= 1991:
		return Era1991
	case year >= 1961:
		return Era1961
	case year == 1960:
		return Era1960
	default:
		return Era1950
	}
}
