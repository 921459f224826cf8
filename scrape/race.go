// Package scrape extracts races, racecards and their side tables from
// Racing Post pages.
package scrape

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/padraicbc/rpscrape/clean"
	"github.com/padraicbc/rpscrape/models"
	"github.com/padraicbc/rpscrape/reference"
	"github.com/padraicbc/rpscrape/units"
)

// regions whose published yardage is trusted for metres.
var metricRegions = map[string]bool{"GB": true, "IRE": true, "USA": true, "CAN": true}

var offLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

// ParseRace extracts one result page. url is the page address, whose path
// carries the course id, date and race id. code is "flat" or "jumps" and
// steers race type inference.
func ParseRace(url string, doc *goquery.Document, code string, ref *reference.Data) (*models.Race, error) {
	info := doc.Find("main[data-analytics-race-date-time]").First()
	if info.Length() == 0 {
		return nil, ErrDocumentNotReady
	}

	parts := strings.Split(url, "/")
	if len(parts) < 8 {
		return nil, fmt.Errorf("%w: race url %q", ErrMalformedField, url)
	}

	race := &models.Race{URL: url, RaceID: parts[7]}

	race.Course = info.AttrOr("data-analytics-coursename", "")
	race.CourseID = parts[4]
	if id, name, ok := reference.CourseAlias(race.Course); ok {
		race.CourseID, race.Course = id, name
	}

	off, err := parseOff(info.AttrOr("data-analytics-race-date-time", ""))
	if err != nil {
		return nil, err
	}
	race.Off = off

	if _, err := time.Parse(time.DateOnly, parts[6]); err != nil {
		return nil, fmt.Errorf("%w: date %q", ErrMalformedField, parts[6])
	}
	race.Date = parts[6]
	race.Region = ref.RegionOf(race.CourseID)

	race.Going = first(doc, "span.rp-raceTimeCourseName_condition")
	race.Surface = reference.Surface(race.Going)

	race.RawName = first(doc, "h2.rp-raceTimeCourseName__title")
	race.Class = RaceClass(strings.Trim(first(doc, "span.rp-raceTimeCourseName_class"), "()"), race.RawName)
	race.Pattern = Pattern(race.RawName)
	race.Name = clean.RaceName(race.RawName)
	race.AgeBand, race.RatingBand = bands(first(doc, "span.rp-raceTimeCourseName_ratingBandAndAgesAllowed"))
	race.SexRest = SexRestriction(race.Name)

	distM, err := setDistances(race, doc)
	if err != nil {
		return nil, err
	}

	race.Type = RaceType(code, race.Name, first(doc, "span.rp-raceTimeCourseName_hurdles"), distM)
	race.Ran = strings.TrimSpace(strings.ReplaceAll(
		first(doc, "span.rp-raceInfo__value.rp-raceInfo__value_black"), "ran", ""))

	runners, err := parseRunners(race, doc)
	if err != nil {
		return nil, err
	}

	win, ok, err := WinningTime(doc)
	if err != nil {
		return nil, err
	}
	if err := setTimes(runners, win, ok, LengthsPerSecond(race.Type, race.Going, race.Course)); err != nil {
		return nil, err
	}
	clearNonCompletions(runners)

	race.Runners = runners
	return race, nil
}

func parseOff(s string) (string, error) {
	for _, layout := range offLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("%w: off time %q", ErrMalformedField, s)
}

// bands splits "(3yo+, 0-95)" into its age and rating parts.
func bands(raw string) (age, rating string) {
	pick := func(s string) {
		switch {
		case strings.Contains(s, "yo"):
			age = strings.TrimSpace(s)
		case strings.Contains(s, "-"):
			rating = strings.TrimSpace(s)
		}
	}

	parts := strings.Split(strings.Trim(raw, "()"), ",")
	if len(parts) > 1 {
		for _, p := range parts {
			pick(p)
		}
	} else {
		pick(raw)
	}
	return strings.Trim(age, "()"), rating
}

// setDistances fills the four distance fields and returns the metres value
// used for type inference.
func setDistances(race *models.Race, doc *goquery.Document) (int, error) {
	race.Dist = first(doc, `span[data-test-selector="block-distanceInd"]`)
	full := strings.Trim(first(doc, `span[data-test-selector="block-fullDistanceInd"]`), "()")

	furlongs, err := units.DistanceToFurlongs(race.Dist)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedField, err)
	}
	metres, err := units.DistanceToMetres(full)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedField, err)
	}
	if metres == 0 {
		metres = units.FurlongsToMetres(furlongs)
	}

	race.DistY = strconv.Itoa(units.MetresToYards(metres))
	race.DistF = units.FormatFurlongs(furlongs)

	if !metricRegions[race.Region] {
		metres = int(furlongs * 200)
	}
	race.DistM = strconv.Itoa(metres)
	return metres, nil
}

// parseRunners reads every runner column and zips them into runners.
func parseRunners(race *models.Race, doc *goquery.Document) ([]models.Runner, error) {
	positions := ownTexts(doc.Find(`span[data-test-selector="text-horsePosition"]`))
	if len(positions) > 0 && positions[0] == "VOI" {
		return nil, ErrVoidRace
	}

	ran := len(positions)
	if race.Ran != "" {
		n, err := strconv.Atoi(race.Ran)
		if err != nil {
			return nil, fmt.Errorf("%w: ran %q", ErrMalformedField, race.Ran)
		}
		ran = n
	} else {
		race.Ran = strconv.Itoa(ran)
	}

	pedigrees, err := ParsePedigrees(doc.Find(`tr[data-test-selector="block-pedigreeInfoFullResults"] td`))
	if err != nil {
		return nil, err
	}
	var sexes, sireIDs, sires, damIDs, dams, damsireIDs, damsires []string
	for _, p := range pedigrees {
		sexes = append(sexes, p.Sex)
		sireIDs = append(sireIDs, p.Sire.ID)
		sires = append(sires, p.Sire.Name)
		damIDs = append(damIDs, p.Dam.ID)
		dams = append(dams, p.Dam.Name)
		damsireIDs = append(damsireIDs, p.Damsire.ID)
		damsires = append(damsires, p.Damsire.Name)
	}

	ovr, btn := margins(doc)
	sps := startingPrices(doc)
	horses, horseIDs := horseNames(doc)
	jockeys, jockeyIDs := personLinks(doc, "link-jockeyName")
	trainers, trainerIDs := personLinks(doc, "link-trainerName")
	owners, ownerIDs := ownerLinks(doc)
	wgts, lbs, err := weights(doc)
	if err != nil {
		return nil, err
	}

	cols := []column{
		required("pos", positions, func(r *models.Runner) *string { return &r.Pos }),
		required("horse", horses, func(r *models.Runner) *string { return &r.Horse }),
		required("horse_id", horseIDs, func(r *models.Runner) *string { return &r.HorseID }),
		required("jockey", jockeys, func(r *models.Runner) *string { return &r.Jockey }),
		required("jockey_id", jockeyIDs, func(r *models.Runner) *string { return &r.JockeyID }),
		required("trainer", trainers, func(r *models.Runner) *string { return &r.Trainer }),
		required("trainer_id", trainerIDs, func(r *models.Runner) *string { return &r.TrainerID }),

		optional("num", saddleCloths(doc), func(r *models.Runner) *string { return &r.Num }),
		optional("draw", draws(doc), func(r *models.Runner) *string { return &r.Draw }),
		optional("ovr_btn", ovr, func(r *models.Runner) *string { return &r.OvrBtn }),
		optional("btn", btn, func(r *models.Runner) *string { return &r.Btn }),
		optional("age", texts(doc.Find(`td[data-test-selector="horse-age"]`)), func(r *models.Runner) *string { return &r.Age }),
		optional("sex", sexes, func(r *models.Runner) *string { return &r.Sex }),
		optional("wgt", wgts, func(r *models.Runner) *string { return &r.Wgt }),
		optional("lbs", lbs, func(r *models.Runner) *string { return &r.Lbs }),
		optional("hg", headgear(doc), func(r *models.Runner) *string { return &r.HG }),
		optional("sp", sps, func(r *models.Runner) *string { return &r.SP }),
		optional("dec", decimalOdds(sps), func(r *models.Runner) *string { return &r.Dec }),
		optional("prize", prizes(doc, positions), func(r *models.Runner) *string { return &r.Prize }),
		optional("or", texts(doc.Find(`td[data-ending="OR"]`)), func(r *models.Runner) *string { return &r.OR }),
		optional("rpr", texts(doc.Find(`td[data-ending="RPR"]`)), func(r *models.Runner) *string { return &r.RPR }),
		optional("ts", texts(doc.Find(`td[data-ending="TS"]`)), func(r *models.Runner) *string { return &r.TS }),
		optional("sire_id", sireIDs, func(r *models.Runner) *string { return &r.SireID }),
		optional("sire", sires, func(r *models.Runner) *string { return &r.Sire }),
		optional("dam_id", damIDs, func(r *models.Runner) *string { return &r.DamID }),
		optional("dam", dams, func(r *models.Runner) *string { return &r.Dam }),
		optional("damsire_id", damsireIDs, func(r *models.Runner) *string { return &r.DamsireID }),
		optional("damsire", damsires, func(r *models.Runner) *string { return &r.Damsire }),
		optional("owner_id", ownerIDs, func(r *models.Runner) *string { return &r.OwnerID }),
		optional("owner", owners, func(r *models.Runner) *string { return &r.Owner }),
		optional("silk_url", attrs(doc.Find("img.rp-horseTable__silk"), "src"), func(r *models.Runner) *string { return &r.SilkURL }),
		optional("comment", comments(doc), func(r *models.Runner) *string { return &r.Comment }),
	}
	return assemble(race.RaceID, ran, cols)
}

func attrs(s *goquery.Selection, name string) []string {
	out := make([]string, 0, s.Length())
	s.Each(func(_ int, e *goquery.Selection) {
		out = append(out, e.AttrOr(name, ""))
	})
	return out
}

func comments(doc *goquery.Document) []string {
	var out []string
	doc.Find("tr.rp-horseTable__commentRow td").Each(func(_ int, td *goquery.Selection) {
		out = append(out, clean.Comment(td.Text()))
	})
	return out
}

// prizes pairs prize money with finishers. Disqualified runners get no
// prize and the remaining amounts keep their finishing order.
func prizes(doc *goquery.Document, positions []string) []string {
	var amounts []string
	doc.Find(`div[data-test-selector="text-prizeMoney"]`).Each(func(i int, s *goquery.Selection) {
		if i == 0 {
			// the first entry is the race total
			return
		}
		p := strings.TrimSpace(s.Text())
		p = strings.ReplaceAll(p, ",", "")
		amounts = append(amounts, strings.ReplaceAll(p, "£", ""))
	})

	out := make([]string, len(positions))
	next := 0
	for i, pos := range positions {
		if pos == "DSQ" {
			continue
		}
		if next < len(amounts) {
			out[i] = amounts[next]
			next++
		}
	}
	return out
}

func draws(doc *goquery.Document) []string {
	var out []string
	doc.Find("sup.rp-horseTable__pos__draw").Each(func(_ int, s *goquery.Selection) {
		d := strings.ReplaceAll(s.Text(), "\u00a0", " ")
		out = append(out, strings.Trim(strings.TrimSpace(d), "()"))
	})
	return out
}

// margins returns the overall and individual beaten distances in lengths.
// A dead heat repeats the overall figure of the runner ahead.
func margins(doc *goquery.Document) (ovr, btn []string) {
	doc.Find("span.rp-horseTable__pos__length").Each(func(_ int, s *goquery.Selection) {
		spans := s.ChildrenFiltered("span")
		textOr0 := func(i int) string {
			if t := strings.TrimSpace(spans.Eq(i).Text()); t != "" {
				return t
			}
			return "0"
		}

		if spans.Length() == 2 {
			btn = append(btn, textOr0(0))
			ovr = append(ovr, strings.Trim(textOr0(1), "[]"))
			return
		}

		t := textOr0(0)
		btn = append(btn, t)
		if t == "dht" && len(ovr) > 0 {
			ovr = append(ovr, ovr[len(ovr)-1])
			return
		}
		ovr = append(ovr, t)
	})

	for i := range btn {
		btn[i] = units.MarginToDecimal(btn[i])
	}
	for i := range ovr {
		ovr[i] = units.MarginToDecimal(ovr[i])
	}
	return ovr, btn
}

func startingPrices(doc *goquery.Document) []string {
	var out []string
	doc.Find("span.rp-horseTable__horse__price").Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(strings.ReplaceAll(s.Text(), "No Odds", "")))
	})
	return out
}

var favouriteMarks = strings.NewReplacer("F", "", "J", "", "C", "")

// decimalOdds converts each price, leaving "" where the price is unreadable.
func decimalOdds(sps []string) []string {
	out := make([]string, len(sps))
	for i, sp := range sps {
		d, err := units.FractionToDecimal(favouriteMarks.Replace(sp))
		if err == nil {
			out[i] = d
		}
	}
	return out
}

func saddleCloths(doc *goquery.Document) []string {
	var out []string
	doc.Find("span.rp-horseTable__saddleClothNo").Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.Trim(strings.TrimSpace(s.Text()), "."))
	})
	return out
}

// horseNames returns "Name (NAT)" and the horse ids.
func horseNames(doc *goquery.Document) (names, ids []string) {
	nats := texts(doc.Find("span.rp-horseTable__horse__country"))
	doc.Find(`a[data-test-selector="link-horseName"]`).Each(func(i int, a *goquery.Selection) {
		nat := "(GB)"
		if i < len(nats) && nats[i] != "" {
			nat = nats[i]
		}
		names = append(names, clean.String(a.Text())+" "+nat)
		ids = append(ids, pathPart(a, 3))
	})
	return names, ids
}

// personLinks reads jockey or trainer links. Each is rendered twice per runner
// and the name is the link's leading text; an allowance or other nested
// markup follows it.
func personLinks(doc *goquery.Document, selector string) (names, ids []string) {
	everyOther(doc.Find(`a[data-test-selector="`+selector+`"]`)).Each(func(_ int, a *goquery.Selection) {
		names = append(names, clean.String(strings.TrimSpace(ownTextBeforeChild(a))))
		ids = append(ids, pathPart(a, 3))
	})
	return names, ids
}

// ownerLinks reads owners from the silk link, whose path holds the owner id and slug.
func ownerLinks(doc *goquery.Document) (names, ids []string) {
	doc.Find(`a[data-test-selector="link-silk"]`).Each(func(_ int, a *goquery.Selection) {
		ids = append(ids, pathPart(a, 3))
		names = append(names, clean.Title(strings.ReplaceAll(pathPart(a, 4), "-", " ")))
	})
	return names, ids
}

func headgear(doc *goquery.Document) []string {
	var out []string
	doc.Find("td.rp-horseTable__wgt").Each(func(_ int, td *goquery.Selection) {
		hg := td.Find("span.rp-horseTable__headGear").First()
		out = append(out, strings.Join(strings.Fields(hg.Text()), ""))
	})
	return out
}

// weights returns "st-lb" strings and the total in pounds.
func weights(doc *goquery.Document) (wgt, lbs []string, err error) {
	stones := texts(doc.Find(`span[data-ending="st"]`))
	pounds := texts(doc.Find(`span[data-ending="lb"]`))
	n := min(len(stones), len(pounds))

	for i := 0; i < n; i++ {
		st, errS := strconv.Atoi(stones[i])
		lb, errL := strconv.Atoi(pounds[i])
		if errS != nil || errL != nil {
			return nil, nil, fmt.Errorf("%w: weight %s-%s", ErrMalformedField, stones[i], pounds[i])
		}
		wgt = append(wgt, stones[i]+"-"+pounds[i])
		lbs = append(lbs, strconv.Itoa(st*14+lb))
	}
	return wgt, lbs, nil
}
