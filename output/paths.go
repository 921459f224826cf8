package output

import (
	"path/filepath"
	"strings"
)

// DatePath is the results file for a date or date range argument.
func DatePath(dataDir, region, dates string, gzip bool) string {
	if region == "" {
		region = "all"
	}
	name := strings.ReplaceAll(dates, "/", "_") + ".csv"
	if gzip {
		name += ".gz"
	}
	return filepath.Join(dataDir, "dates", region, name)
}

// CoursePath is the results file for a course over a year range.
func CoursePath(dataDir, code, course, years string, gzip bool) string {
	name := strings.ReplaceAll(years, "-", "_") + ".csv"
	if gzip {
		name += ".gz"
	}
	return filepath.Join(dataDir, code, strings.ToLower(strings.ReplaceAll(course, " ", "_")), name)
}

// BetfairPath is the raw price dump written next to a results file.
func BetfairPath(dataDir, results string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(filepath.Base(results), ".gz"), ".csv")
	return filepath.Join(dataDir, "betfair", base+".csv")
}

// RacecardPath is the racecards file for a day.
func RacecardPath(dataDir, date string) string {
	return filepath.Join(dataDir, "racecards", date+".json")
}
