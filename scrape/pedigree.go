package scrape

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const defaultRegion = "GB"

// Ancestor is one named horse in a runner's breeding line.
type Ancestor struct {
	ID   string
	Name string
}

// Pedigree is the breeding cell of one runner. Absent entries are zero.
type Pedigree struct {
	Sex     string
	Sire    Ancestor
	Dam     Ancestor
	Damsire Ancestor
}

var (
	reParenRegion  = regexp.MustCompile(`\((.*)\)`)
	pedigreeStrip  = strings.NewReplacer(".", " ", ",", "", "'", "")
	unregisteredDS = "Damsire Unregistered"
)

// ParsePedigrees reads one Pedigree per cell. A "-" in the cell text means
// the sire is listed first, otherwise the links are dam then damsire.
func ParsePedigrees(cells *goquery.Selection) ([]Pedigree, error) {
	out := make([]Pedigree, 0, cells.Length())
	var err error
	cells.EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		var p Pedigree
		if p.Sex, err = sexOf(cell); err != nil {
			return false
		}

		links := cell.Find("a")
		at := func(i int) *goquery.Selection {
			if i < links.Length() {
				return links.Eq(i)
			}
			return nil
		}

		damAt := 0
		if strings.Contains(cell.Text(), "-") {
			if a := at(0); a != nil {
				p.Sire = Ancestor{ID: pathPart(a, 3), Name: sireName(a)}
			}
			damAt = 1
		}
		if a := at(damAt); a != nil {
			p.Dam = Ancestor{ID: pathPart(a, 3), Name: damName(a)}
		}
		if a := at(damAt + 1); a != nil {
			p.Damsire = Ancestor{ID: pathPart(a, 3), Name: damsireName(a)}
		}
		out = append(out, p)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// sexOf reads the "b g" style colour and sex text ahead of the links.
func sexOf(cell *goquery.Selection) (string, error) {
	parts := strings.Fields(ownTextBeforeChild(cell))
	switch len(parts) {
	case 0:
		return "", nil
	case 1:
		return strings.ToUpper(parts[0]), nil
	case 2:
		return strings.ToUpper(parts[1]), nil
	}
	return "", fmt.Errorf("%w: sex %q", ErrMalformedField, strings.Join(parts, " "))
}

func pedigreeName(s string) string {
	s = pedigreeStrip.Replace(s)
	return strings.TrimSpace(strings.ReplaceAll(s, "  ", " "))
}

func sireName(a *goquery.Selection) string {
	text := strings.TrimSpace(a.Text())
	region := defaultRegion
	if m := reParenRegion.FindStringSubmatch(text); m != nil {
		region = m[1]
	}
	name, _, _ := strings.Cut(text, "(")
	return fmt.Sprintf("%s (%s)", pedigreeName(name), region)
}

func damName(a *goquery.Selection) string {
	name := pedigreeName(strings.Trim(strings.TrimSpace(ownTextBeforeChild(a)), "()"))
	region := "(" + defaultRegion + ")"
	if nat := strings.TrimSpace(a.Find("span").First().Text()); nat != "" {
		region = nat
	}
	return name + " " + region
}

func damsireName(a *goquery.Selection) string {
	name := pedigreeName(strings.Trim(ownTextBeforeChild(a), "()"))
	if name == unregisteredDS {
		return ""
	}
	return strings.Trim(name, "()")
}
