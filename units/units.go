// Package units converts racing notations (distances, beaten margins,
// fractional odds and race times) into plain decimal values.
package units

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformed is returned when a value cannot be read in its notation.
var ErrMalformed = errors.New("units: malformed value")

// NotRecorded is the placeholder used for times and margins that do not exist.
const NotRecorded = "-"

const (
	metresPerMile    = 1609.34
	metresPerFurlong = 201.168
	metresPerYard    = 0.914
)

var glyphs = strings.NewReplacer("¼", ".25", "½", ".5", "¾", ".75")

// margin tokens are applied in this order, so "snk" is consumed before "nk"
// and "sht-hd"/"shd" before "hd".
var marginTokens = [][2]string{
	{"¼", ".25"},
	{"½", ".5"},
	{"¾", ".75"},
	{"snk", "0.2"},
	{"nk", "0.3"},
	{"sht-hd", "0.1"},
	{"shd", "0.1"},
	{"hd", "0.2"},
	{"nse", "0.05"},
	{"dht", "0"},
	{"dist", "30"},
}

var reCompound = regexp.MustCompile(`^(?:(\d+)m)?(?:(\d+)f)?(?:(\d+)y(?:ds)?)?$`)

// DistanceToFurlongs reads "5f", "6½f" or "2m3f" style distances.
func DistanceToFurlongs(distance string) (float64, error) {
	d := strings.Join(strings.Fields(glyphs.Replace(distance)), "")
	if d == "" {
		return 0, fmt.Errorf("%w: empty distance", ErrMalformed)
	}

	if i := strings.Index(d, "m"); i >= 0 {
		miles, err := strconv.Atoi(d[:i])
		if err != nil {
			return 0, fmt.Errorf("%w: distance %q", ErrMalformed, distance)
		}
		rest := strings.Trim(d[i+1:], "f")
		if rest == "" {
			return float64(miles * 8), nil
		}
		f, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: distance %q", ErrMalformed, distance)
		}
		return float64(miles*8) + f, nil
	}

	f, err := strconv.ParseFloat(strings.Trim(d, "f"), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: distance %q", ErrMalformed, distance)
	}
	return f, nil
}

// DistanceToMetres reads "2m 3f 110yds" style distances. It returns 0 when
// the string carries no unit at all; callers derive metres from furlongs then.
func DistanceToMetres(distance string) (int, error) {
	d := strings.Join(strings.Fields(strings.ToLower(distance)), "")
	if !strings.ContainsAny(d, "mfy") {
		return 0, nil
	}

	m := reCompound.FindStringSubmatch(d)
	if m == nil {
		return 0, fmt.Errorf("%w: distance %q", ErrMalformed, distance)
	}

	var metres float64
	for i, scale := range []float64{metresPerMile, metresPerFurlong, metresPerYard} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("%w: distance %q", ErrMalformed, distance)
		}
		metres += float64(n) * scale
	}
	return int(math.RoundToEven(metres)), nil
}

// FurlongsToMetres is the fallback used when no yardage is published.
func FurlongsToMetres(furlongs float64) int {
	return int(math.RoundToEven(furlongs * metresPerFurlong))
}

// MetresToYards converts metres to whole yards.
func MetresToYards(metres int) int {
	return int(math.RoundToEven(float64(metres) * 1.0936))
}

// FormatFurlongs renders 19 as "19f" and 6.5 as "6.5f".
func FormatFurlongs(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64) + "f"
}

// MarginToDecimal rewrites beaten-margin shorthand into lengths. Tokens it
// does not know are returned unchanged.
func MarginToDecimal(margin string) string {
	m := strings.TrimSpace(margin)
	for _, t := range marginTokens {
		m = strings.ReplaceAll(m, t[0], t[1])
	}
	return m
}

// FractionToDecimal converts fractional odds to decimal odds with two places.
func FractionToDecimal(fraction string) (string, error) {
	switch fraction {
	case "", "No Odds", "&":
		return "", nil
	}
	switch strings.ToLower(fraction) {
	case "evens", "evs":
		return "2.00", nil
	}

	num, den, ok := strings.Cut(fraction, "/")
	if !ok {
		return "", fmt.Errorf("%w: odds %q", ErrMalformed, fraction)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return "", fmt.Errorf("%w: odds %q", ErrMalformed, fraction)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil || d == 0 {
		return "", fmt.Errorf("%w: odds %q", ErrMalformed, fraction)
	}
	return fmt.Sprintf("%.2f", n/d+1.00), nil
}

// FractionsToDecimal converts a list, failing on the first malformed entry.
func FractionsToDecimal(fractions []string) ([]string, error) {
	out := make([]string, len(fractions))
	for i, f := range fractions {
		d, err := FractionToDecimal(f)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// DisplayToSeconds converts "M:SS.ss" to seconds with two places.
func DisplayToSeconds(display string) (string, error) {
	if display == NotRecorded {
		return NotRecorded, nil
	}
	mins, secs, ok := strings.Cut(display, ":")
	if !ok {
		return "", fmt.Errorf("%w: time %q", ErrMalformed, display)
	}
	m, err := strconv.Atoi(mins)
	if err != nil {
		return "", fmt.Errorf("%w: time %q", ErrMalformed, display)
	}
	s, err := strconv.ParseFloat(secs, 64)
	if err != nil {
		return "", fmt.Errorf("%w: time %q", ErrMalformed, display)
	}
	return fmt.Sprintf("%.2f", float64(m*60)+s), nil
}

// SecondsToDisplay is the inverse of DisplayToSeconds.
func SecondsToDisplay(seconds string) (string, error) {
	if seconds == NotRecorded {
		return NotRecorded, nil
	}
	s, err := strconv.ParseFloat(seconds, 64)
	if err != nil {
		return "", fmt.Errorf("%w: seconds %q", ErrMalformed, seconds)
	}
	return FormatTime(s), nil
}

// FormatTime renders seconds as "M:SS.ss".
func FormatTime(seconds float64) string {
	// round first so 59.996 does not print as "0:60.00"
	total := math.Round(seconds*100) / 100
	minutes := math.Floor(total / 60)
	return fmt.Sprintf("%d:%05.2f", int(minutes), total-minutes*60)
}
