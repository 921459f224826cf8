// Package clean normalises free-text names scraped from race pages and
// price files into a comparable form.
package clean

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ClassPattern finds "(Class 4)" style markers in race titles.
	ClassPattern = regexp.MustCompile(`(\(|\s)(C|c)lass (\d|[A-Ha-h])(\)|\s)`)
	// GroupPattern finds "(Group 1)" and "(Grade 2)" style markers.
	GroupPattern = regexp.MustCompile(`(\(|\s)((G|g)rade|(G|g)roup) (\d|[A-Ca-c]|I*)(\)|\s)`)

	reEmptyParens = regexp.MustCompile(`\(\s*\)+`)
	reSpaces      = regexp.MustCompile(`\s+`)
	reRoman       = regexp.MustCompile(`(?i)\s+(i|ii|iii|iv)$`)

	stripChars = strings.NewReplacer(",", "", `"`, "", "'", "", "\x80", "", `\x80`, "")
)

const forteMile = "Forte Mile Guaranteed Minimum Value Â£60000 (Group"

// String trims a scraped value, drops quotes, commas and empty brackets, and
// collapses runs of whitespace.
func String(s string) string {
	if s == "" {
		return ""
	}
	s = stripChars.Replace(strings.TrimSpace(s))
	s = reEmptyParens.ReplaceAllString(s, "")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// RaceName strips the class or pattern marker from a race title.
func RaceName(name string) string {
	name = strings.TrimSpace(name)
	lname := strings.ToLower(name)

	if strings.Contains(name, forteMile) {
		return "Sandown Mile"
	}

	markers := []struct {
		key string
		re  *regexp.Regexp
	}{
		{"class", ClassPattern},
		{"group", GroupPattern},
		{"grade", GroupPattern},
	}
	for _, m := range markers {
		if !strings.Contains(lname, m.key) {
			continue
		}
		if loc := m.re.FindStringIndex(name); loc != nil {
			return String(strings.TrimSpace(name[:loc[0]] + name[loc[1]:]))
		}
	}

	if strings.Contains(lname, "listed") {
		name = strings.ReplaceAll(name, "Listed Race", "")
		name = strings.ReplaceAll(name, "(Listed)", "")
		return String(strings.TrimSpace(name))
	}

	return String(name)
}

// IsForteMile reports the one race whose title hides its Group 2 status.
func IsForteMile(name string) bool {
	return strings.Contains(name, "Forte Mile") && strings.Contains(name, "(Group")
}

// Name drops a trailing "(IRE)" style suffix and roman numeral, removes
// periods and apostrophes, and optionally title-cases the result.
func Name(name string, title bool) string {
	if name == "" {
		return ""
	}
	name, _, _ = strings.Cut(name, "(")
	name = strings.TrimSpace(name)
	name = reRoman.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, ".", " ")
	name = strings.ReplaceAll(name, "'", "")
	name = strings.TrimSpace(reSpaces.ReplaceAllString(name, " "))
	if title {
		name = Title(name)
	}
	return name
}

// NameForRegion is the key used to match exchange price rows. Australian
// feeds prefix runners with a stable initial ("j. horse"), which is dropped.
func NameForRegion(name, region string) string {
	name, _, _ = strings.Cut(name, "(")
	name = String(strings.ToLower(name))
	if region == "AUS" {
		if i := strings.Index(name, "."); i != -1 {
			name = strings.TrimSpace(name[i+1:])
		}
	}
	return name
}

// MatchKey lower-cases a scraped runner name and drops its country suffix.
func MatchKey(horse string) string {
	h, _, _ := strings.Cut(horse, "(")
	return strings.ToLower(strings.TrimSpace(h))
}

// Comment flattens a multi-line race comment into a single CSV-safe line.
func Comment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "  ", "")
	s = strings.ReplaceAll(s, ",", " -")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", "")
}

// Title upper-cases the first letter of each word and lower-cases the rest.
// A Caser holds state, so one is built per call.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}
