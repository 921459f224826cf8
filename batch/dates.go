package batch

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrBadDate = errors.New("batch: invalid date")

// FirstYear is the earliest season with results online.
const FirstYear = 1987

const (
	argLayout = "2006/01/02"
	isoLayout = "2006-01-02"
)

// ParseDates expands "YYYY/MM/DD" or "YYYY/MM/DD-YYYY/MM/DD" into ISO dates,
// oldest first.
func ParseDates(arg string, now time.Time) ([]string, error) {
	from, to, isRange := strings.Cut(arg, "-")
	start, err := parseDay(from, now)
	if err != nil {
		return nil, err
	}
	end := start
	if isRange {
		if end, err = parseDay(to, now); err != nil {
			return nil, err
		}
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s ends before it starts", ErrBadDate, arg)
	}

	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(isoLayout))
	}
	return out, nil
}

func parseDay(s string, now time.Time) (time.Time, error) {
	t, err := time.Parse(argLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	if t.Year() < FirstYear || t.Year() > now.Year() {
		return time.Time{}, fmt.Errorf("%w: %q out of range", ErrBadDate, s)
	}
	return t, nil
}

// ParseYears expands "YYYY" or "YYYY-YYYY".
func ParseYears(arg string, now time.Time) ([]string, error) {
	from, to, isRange := strings.Cut(arg, "-")
	if !isRange {
		to = from
	}
	lo, errLo := strconv.Atoi(strings.TrimSpace(from))
	hi, errHi := strconv.Atoi(strings.TrimSpace(to))
	if errLo != nil || errHi != nil || lo > hi || lo < FirstYear || hi > now.Year() {
		return nil, fmt.Errorf("%w: years %q", ErrBadDate, arg)
	}
	out := make([]string, 0, hi-lo+1)
	for y := lo; y <= hi; y++ {
		out = append(out, strconv.Itoa(y))
	}
	return out, nil
}

// ReadDateFile reads one date or range per line. Dashes inside a single
// date ("2024-05-01") are accepted.
func ReadDateFile(path string, now time.Time) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seen := map[string]bool{}
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.Count(line, "-") == 2 {
			line = strings.ReplaceAll(line, "-", "/")
		}
		days, err := ParseDates(line, now)
		if err != nil {
			return nil, err
		}
		for _, d := range days {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out, sc.Err()
}
