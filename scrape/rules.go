package scrape

import (
	"strings"

	"github.com/padraicbc/rpscrape/clean"
	"github.com/padraicbc/rpscrape/models"
)

// rule is one entry of an ordered inference table. Tables are evaluated top
// to bottom and the first rule that matches wins.
type rule struct {
	match func(s string) (string, bool)
}

func evaluate(rules []rule, s, fallback string) string {
	for _, r := range rules {
		if v, ok := r.match(s); ok {
			return v
		}
	}
	return fallback
}

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// when builds a keyword rule returning a fixed result.
func when(result string, terms ...string) rule {
	return rule{func(s string) (string, bool) {
		return result, containsAny(s, terms...)
	}}
}

var classLetters = map[string]string{
	"a": "1", "b": "2", "c": "3", "d": "4",
	"e": "5", "f": "6", "g": "6", "h": "7",
}

// classRules run over the raw race name when the page has no class marker.
var classRules = []rule{
	{func(name string) (string, bool) {
		m := clean.ClassPattern.FindStringSubmatch(name)
		if m == nil {
			return "", false
		}
		c := strings.ToLower(m[3])
		if n, ok := classLetters[c]; ok {
			return "Class " + n, true
		}
		return "Class " + c, true
	}},
	{func(name string) (string, bool) {
		return "Class 2", strings.Contains(name, "(premier handicap)")
	}},
}

// RaceClass prefers the explicit marker, then reads the class from the name.
func RaceClass(marker, name string) string {
	if marker != "" {
		return marker
	}
	return evaluate(classRules, name, "")
}

var patternRules = []rule{
	{func(name string) (string, bool) {
		m := clean.GroupPattern.FindStringSubmatch(name)
		if m == nil {
			return "", false
		}
		return clean.Title(m[2] + " " + m[5]), true
	}},
	{func(name string) (string, bool) {
		return "Group 2", clean.IsForteMile(name)
	}},
	{func(name string) (string, bool) {
		return "Listed", containsAny(strings.ToLower(name), "listed race", "(listed")
	}},
}

// Pattern returns "Group N", "Grade N", "Listed" or "".
func Pattern(name string) string {
	return evaluate(patternRules, name, "")
}

var sexRules = []rule{
	when("C & F", "entire colts & fillies", "colts & fillies"),
	when("F & M", "fillies & mares", "filles & mares"),
	when("C & G", "colts & geldings", "colts/geldings", "(c & g)"),
	when("M & G", "(mares & geldings)"),
	when("F", "fillies"),
	when("M", "mares"),
}

// SexRestriction reads the restriction code from a race name.
func SexRestriction(name string) string {
	return evaluate(sexRules, strings.ToLower(name), "")
}

// jumpsKeywordRules apply to races of at least jumpsMinMetres with no fence
// marker. Chase keywords outrank hurdle keywords, which outrank NH Flat ones.
var jumpsKeywordRules = []rule{
	when(models.TypeChase, " chase", "(chase)", "steeplechase", "steeple-chase", "steeplchase", "steepl-chase"),
	when(models.TypeHurdle, " hurdle", "(hurdle)"),
	when(models.TypeNHFlat, "national hunt flat", "nh flat race", "mares flat race",
		"inh bumper", " sales bumper", "kepak flat race", "i.n.h. flat race"),
}

const jumpsMinMetres = 2400

// RaceType infers the race type. code is the race code being scraped
// ("flat" or "jumps"), fences the hurdles/fences marker on the page.
func RaceType(code, name, fences string, distM int) string {
	lname := strings.ToLower(name)
	if code == "flat" && !strings.Contains(lname, "national hunt flat") {
		return models.TypeFlat
	}

	lfences := strings.ToLower(fences)
	switch {
	case strings.Contains(lfences, "hurdle"):
		return models.TypeHurdle
	case strings.Contains(lfences, "fence"):
		return models.TypeChase
	}

	if distM >= jumpsMinMetres {
		return evaluate(jumpsKeywordRules, lname, models.TypeFlat)
	}
	return models.TypeFlat
}

type lpsRule struct {
	match func(going, course string) bool
	scale func(course string) float64
}

func fixed(v float64) func(string) float64 {
	return func(string) float64 { return v }
}

// southwell rides slower on fast ground than the other tracks.
func southwell(v, slower float64) func(string) float64 {
	return func(course string) float64 {
		if strings.Contains(course, "southwell") {
			return slower
		}
		return v
	}
}

func goingIn(set ...string) func(string, string) bool {
	return func(going, _ string) bool {
		for _, g := range set {
			if going == g {
				return true
			}
		}
		return false
	}
}

func goingEmpty(going, _ string) bool { return going == "" }

func goingContains(term string) func(string, string) bool {
	return func(going, _ string) bool { return strings.Contains(going, term) }
}

var flatLPS = []lpsRule{
	{goingEmpty, fixed(6.0)},
	{goingIn("firm", "standard", "fast", "hard", "slow", "sloppy"), southwell(6.0, 5.0)},
	{goingContains("good"), fixed(6.0)},
	{goingIn("soft", "heavy", "yielding", "holding"), fixed(5.0)},
}

var jumpsLPS = []lpsRule{
	{goingEmpty, fixed(5.0)},
	{goingIn("firm", "standard", "hard", "fast"), southwell(5.0, 4.0)},
	{goingContains("good"), fixed(5.0)},
	{goingIn("soft", "heavy", "yielding", "slow", "holding"), fixed(4.0)},
}

const defaultLPS = 5.0

// LengthsPerSecond is the scale used to turn beaten lengths into seconds.
func LengthsPerSecond(raceType, going, course string) float64 {
	rules := jumpsLPS
	if strings.EqualFold(raceType, models.TypeFlat) {
		rules = flatLPS
	}
	g, c := strings.ToLower(going), strings.ToLower(course)
	for _, r := range rules {
		if r.match(g, c) {
			return r.scale(c)
		}
	}
	return defaultLPS
}
