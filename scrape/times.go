package scrape

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/padraicbc/rpscrape/models"
	"github.com/padraicbc/rpscrape/units"
)

// MarginAdjustThreshold is the smallest margin the site folds into the
// overall beaten distance. Runners separated by less keep the same overall
// figure, so their own margin is added back.
const MarginAdjustThreshold = 0.25

// WinningTime reads the winner's time in seconds. ok is false when the page
// publishes no usable time ("standard time" or a zero time with no
// fast-by figure).
func WinningTime(doc *goquery.Document) (secs float64, ok bool, err error) {
	info := doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return hasExactClass(s, "rp-raceInfo")
	})
	items := info.Find("ul > li")
	if items.Length() == 0 {
		return 0, false, fmt.Errorf("%w: no race info", ErrMalformedField)
	}

	spans := items.First().Find("span").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return hasExactClass(s, "rp-raceInfo__value")
	})
	if n := spans.Length(); n != 2 && n != 3 {
		return 0, false, fmt.Errorf("%w: %d time values", ErrMalformedField, n)
	}

	raw := spans.Eq(spans.Length() - 2).Text()
	head, tail, hasTail := strings.Cut(raw, "(")
	parts := strings.Fields(head)

	if len(parts) > 0 && (parts[0] == "0.0.00s" || parts[0] == "0.00s") {
		if !hasTail {
			return 0, false, nil
		}
		fastBy := strings.ReplaceAll(strings.ToLower(tail), "fast by", "")
		parts = strings.Fields(strings.Trim(fastBy, " )"))
	}

	if len(parts) == 0 || (len(parts) == 2 && parts[0] == "standard" && parts[1] == "time") {
		return 0, false, nil
	}

	var total float64
	if len(parts) > 1 {
		m, errM := strconv.ParseFloat(strings.ReplaceAll(parts[0], "m", ""), 64)
		s, errS := strconv.ParseFloat(strings.TrimRight(parts[1], "s"), 64)
		if errM != nil || errS != nil {
			return 0, false, fmt.Errorf("%w: winning time %q", ErrMalformedField, raw)
		}
		total = m*60 + s
	} else {
		s, errS := strconv.ParseFloat(strings.TrimRight(parts[0], "s"), 64)
		if errS != nil {
			return 0, false, fmt.Errorf("%w: winning time %q", ErrMalformedField, raw)
		}
		total = s
	}
	return math.Round(total*100) / 100, true, nil
}

// adjustedMargin is the overall beaten distance used for timing.
func adjustedMargin(btn, ovr string) string {
	b, errB := strconv.ParseFloat(btn, 64)
	o, errO := strconv.ParseFloat(ovr, 64)
	if errB != nil || errO != nil {
		return ovr
	}
	if o > 1 && b < MarginAdjustThreshold {
		return strconv.FormatFloat(b+o, 'f', -1, 64)
	}
	return ovr
}

// setTimes fills time and secs for every runner from the winning time and
// the beaten margins. A margin that cannot be read is fatal only when the
// runner has a numeric finishing position.
func setTimes(runners []models.Runner, win float64, ok bool, lps float64) error {
	for i := range runners {
		r := &runners[i]
		if !ok {
			r.Time, r.Secs = units.NotRecorded, units.NotRecorded
			continue
		}

		adj := adjustedMargin(r.Btn, r.OvrBtn)
		if adj == "" {
			r.Time, r.Secs = "", ""
			continue
		}
		d, err := strconv.ParseFloat(adj, 64)
		if err != nil {
			if isNumeric(r.Pos) {
				return fmt.Errorf("%w: margin %q for %s", ErrMalformedField, adj, r.Horse)
			}
			r.Time, r.Secs = "", ""
			continue
		}

		r.Time = units.FormatTime(win + d/lps)
		if r.Secs, err = units.DisplayToSeconds(r.Time); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedField, err)
		}
	}
	return nil
}

// clearNonCompletions blanks timing for runners that did not finish. A
// disqualified runner did finish and keeps its time.
func clearNonCompletions(runners []models.Runner) {
	for i := range runners {
		r := &runners[i]
		if isNumeric(r.Pos) || r.Pos == "DSQ" {
			continue
		}
		r.Time = units.NotRecorded
		r.Secs = units.NotRecorded
		r.OvrBtn = units.NotRecorded
		r.Btn = units.NotRecorded
	}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
