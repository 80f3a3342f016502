package app

import (
	"net/url"
	"strings"
)

const preparedBinaryParam = "disable_prepared_binary_result"

// normalizeDBURL appends disable_prepared_binary_result=yes to the connection
// URL when the toggle is on. An explicit value in the URL always wins.
func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	params := parsed.Query()
	if params.Has(preparedBinaryParam) {
		return raw
	}

	params.Set(preparedBinaryParam, "yes")
	parsed.RawQuery = params.Encode()

	return parsed.String()
}

// dbNameFromURL pulls the database name out of either a postgres:// URL or a
// keyword DSN so health reports can name the target without leaking the DSN.
func dbNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if name := dbNameFromConnURL(raw); name != "" {
		return name
	}

	return dbNameFromKeywordDSN(raw)
}

func dbNameFromConnURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
}

func dbNameFromKeywordDSN(raw string) string {
	for _, field := range strings.Fields(raw) {
		value, ok := strings.CutPrefix(field, "dbname=")
		if !ok {
			continue
		}
		if name := strings.Trim(strings.TrimSpace(value), `"'`); name != "" {
			return name
		}
	}

	return ""
}
