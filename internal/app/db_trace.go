package app

import "strings"

const maxTracedQueryLen = 512

// formatDBQueryForTrace condenses a SQL statement onto a single trimmed line
// so span attributes stay readable, truncating past 512 bytes.
func formatDBQueryForTrace(query string) string {
	compact := strings.Join(strings.Fields(query), " ")
	if len(compact) > maxTracedQueryLen {
		return compact[:maxTracedQueryLen] + "..."
	}

	return compact
}
