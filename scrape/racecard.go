package scrape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/padraicbc/rpscrape/clean"
	"github.com/padraicbc/rpscrape/models"
	"github.com/padraicbc/rpscrape/reference"
)

// SilkBase serves runner silks as SVG.
const SilkBase = "https://www.rp-assets.com/svg/"

var raceTypes = map[string]string{
	"F": models.TypeFlat,
	"X": models.TypeFlat,
	"C": models.TypeChase,
	"H": models.TypeHurdle,
	"B": models.TypeNHFlat,
	"W": models.TypeNHFlat,
}

// GroupFilter decides which racecard field groups are filled.
type GroupFilter interface {
	Include(group string) bool
}

// Card is everything fetched for one racecard.
type Card struct {
	RaceID  string
	URL     string
	Date    string
	Page    *goquery.Document
	Runners []byte
	// Stats is nil when stats were not fetched.
	Stats *Stats
	// Profiles by horse id, empty when profiles were not fetched.
	Profiles map[int]*Profile
}

// Racecards nests cards by region, course and off time.
type Racecards map[string]map[string]map[string]*models.Racecard

func (r Racecards) Add(c *models.Racecard) {
	if r[c.Region] == nil {
		r[c.Region] = map[string]map[string]*models.Racecard{}
	}
	if r[c.Region][c.Course] == nil {
		r[c.Region][c.Course] = map[string]*models.Racecard{}
	}
	r[c.Region][c.Course][c.OffTime] = c
}

type cardRunnerJSON struct {
	RaceDatetime      string      `json:"raceDatetime"`
	CourseUID         int         `json:"courseUid"`
	RaceTypeCode      string      `json:"raceTypeCode"`
	DistanceFurlong   float64     `json:"distanceFurlongRounded"`
	DistanceYard      int         `json:"distanceYard"`
	HorseName         string      `json:"horseName"`
	HorseUID          int         `json:"horseUid"`
	StartNumber       *int        `json:"startNumber"`
	Draw              *int        `json:"draw"`
	HorseAge          *int        `json:"horseAge"`
	HorseColourCode   *string     `json:"horseColourCode"`
	CountryOriginCode *string     `json:"countryOriginCode"`
	HorseDateOfBirth  string      `json:"horseDateOfBirth"`
	HorseSexCode      *string     `json:"horseSexCode"`
	FiguresCalculated []figure    `json:"figuresCalculated"`
	RPPostmark        *int        `json:"rpPostmark"`
	RPTopspeed        *int        `json:"rpTopspeed"`
	OfficialRating    *int        `json:"officialRatingToday"`
	DaysSinceLastRun  *int        `json:"daysSinceLastRun"`
	JockeyName        string      `json:"jockeyName"`
	JockeyUID         *int        `json:"jockeyUid"`
	WeightAllowance   *int        `json:"weightAllowanceLbs"`
	TrainerName       string      `json:"trainerStylename"`
	TrainerID         *int        `json:"trainerId"`
	TrainerRTF        *flexString `json:"trainerRtf"`
	WeightCarried     *int        `json:"weightCarriedLbs"`
	HeadGear          *string     `json:"rpHorseHeadGearCode"`
	FirstTime         *bool       `json:"firstTime"`
	GeldingFirstTime  *bool       `json:"geldingFirstTime"`
	WindSurgeryFirst  *bool       `json:"windSurgeryFirstTime"`
	WindSurgerySecond *bool       `json:"windSurgerySecondTime"`
	SireName          string      `json:"sireName"`
	SireID            *int        `json:"sireId"`
	SireCountry       *string     `json:"sireCountry"`
	DamName           string      `json:"damName"`
	DamID             *int        `json:"damId"`
	DamCountry        *string     `json:"damCountry"`
	DamsireName       string      `json:"damsireName"`
	DamsireID         *int        `json:"damsireId"`
	DamsireCountry    *string     `json:"damsireCountry"`
	BreederName       string      `json:"breederName"`
	BreederUID        *int        `json:"breederUid"`
	OwnerName         string      `json:"ownerName"`
	OwnerUID          *int        `json:"ownerUid"`
	Diomed            *string     `json:"diomed"`
	Spotlight         *string     `json:"spotlight"`
	NonRunner         *bool       `json:"nonRunner"`
	IrishReserve      *bool       `json:"irishReserve"`
	SilkImagePath     *string     `json:"silkImagePath"`
}

type figure struct {
	FormFigure string `json:"formFigure"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(bytes.TrimSpace(b))
	return nil
}

// parseRunnersFeed decodes the card runners feed in saddle-cloth order.
func parseRunnersFeed(body []byte) ([]cardRunnerJSON, error) {
	var feed struct {
		Runners map[string]cardRunnerJSON `json:"runners"`
	}
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("%w: runners feed: %w", ErrMalformedField, err)
	}
	if len(feed.Runners) == 0 {
		return nil, fmt.Errorf("%w: runners feed is empty", ErrMalformedField)
	}

	out := make([]cardRunnerJSON, 0, len(feed.Runners))
	for _, r := range feed.Runners {
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ni, nj := deref(out[i].StartNumber), deref(out[j].StartNumber)
		if ni != nj {
			return ni < nj
		}
		return out[i].HorseUID < out[j].HorseUID
	})
	return out, nil
}

// ParseRacecard builds a racecard from its page, runners feed and optional
// stats and profiles.
func ParseRacecard(card Card, ref *reference.Data, groups GroupFilter) (*models.Racecard, error) {
	runners, err := parseRunnersFeed(card.Runners)
	if err != nil {
		return nil, err
	}
	meta := runners[0]
	doc := card.Page

	rc := &models.Racecard{Href: card.URL, Date: card.Date}
	if rc.RaceID, err = strconv.Atoi(card.RaceID); err != nil {
		return nil, fmt.Errorf("%w: race id %q", ErrMalformedField, card.RaceID)
	}

	if rc.OffTime, err = parseOff(meta.RaceDatetime); err != nil {
		return nil, err
	}

	rc.CourseID = meta.CourseUID
	rc.Course = header(doc, "h1", "RC-courseHeader__name")
	rc.CourseDetail = strings.Trim(header(doc, "span", "RC-header__straightRoundJubilee"), "()")
	if id, name, ok := reference.CourseAlias(rc.Course); ok {
		rc.CourseID, _ = strconv.Atoi(id)
		rc.Course = name
	}
	rc.Region = ref.RegionOf(strconv.Itoa(rc.CourseID))

	rc.RaceName = header(doc, "span", "RC-header__raceInstanceTitle")
	rc.RaceType = raceTypes[meta.RaceTypeCode]

	rc.DistanceF = meta.DistanceFurlong
	rc.DistanceY = meta.DistanceYard
	rc.DistanceRound = header(doc, "strong", "RC-header__raceDistanceRound")
	rc.Distance = strings.Trim(header(doc, "span", "RC-header__raceDistance"), "()")
	if rc.Distance == "" {
		rc.Distance = rc.DistanceRound
	}

	rc.Pattern = Pattern(strings.ToLower(rc.RaceName))
	class := strings.Trim(strings.ReplaceAll(header(doc, "span", "RC-header__raceClass"), "Class", ""), "()")
	if n, err := strconv.Atoi(strings.TrimSpace(class)); err == nil && n != 0 {
		rc.RaceClass = &n
	} else if rc.Pattern != "" {
		one := 1
		rc.RaceClass = &one
	}

	rc.AgeBand, rc.RatingBand = ageAndRating(header(doc, "span", "RC-header__rpAges"))
	rc.Prize = afterLabel(header(doc, "div", "RC-headerBox__winner"), "winner:")
	rc.FieldSize = fieldSize(header(doc, "div", "RC-headerBox__runners"))
	rc.Handicap = rc.RatingBand != nil || strings.Contains(strings.ToLower(rc.RaceName), "handicap")
	if g := afterLabel(header(doc, "div", "RC-headerBox__going"), "going:"); g != nil {
		rc.Going = clean.Title(*g)
	}
	rc.Surface = reference.Surface(rc.Going)

	rc.Runners = make([]models.CardRunner, 0, len(runners))
	for _, r := range runners {
		rc.Runners = append(rc.Runners, cardRunner(r, card, groups))
	}
	if rc.RunnersJSON, err = json.Marshal(rc.Runners); err != nil {
		return nil, err
	}
	return rc, nil
}

func header(doc *goquery.Document, tag, selector string) string {
	return first(doc, tag+`[data-test-selector="`+selector+`"]`)
}

func ageAndRating(raw string) (age, rating *string) {
	parts := strings.Fields(strings.Trim(raw, "()"))
	if len(parts) > 0 {
		age = &parts[0]
	}
	if len(parts) > 1 {
		rating = &parts[1]
	}
	return age, rating
}

// afterLabel returns the trimmed text after label, nil when absent.
func afterLabel(raw, label string) *string {
	_, v, ok := strings.Cut(strings.ToLower(raw), label)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	return &v
}

func fieldSize(raw string) *int {
	v := afterLabel(raw, "runners:")
	if v == nil {
		return nil
	}
	n, _, _ := strings.Cut(*v, "(")
	size, err := strconv.Atoi(strings.TrimSpace(n))
	if err != nil {
		return nil
	}
	return &size
}

func cardRunner(j cardRunnerJSON, card Card, groups GroupFilter) models.CardRunner {
	var r models.CardRunner
	profile := card.Profiles[j.HorseUID]

	if groups.Include("core") {
		r.Name = ptr(clean.String(j.HorseName))
		r.HorseID = ptr(j.HorseUID)
		r.Number = j.StartNumber
		r.Draw = nonZero(j.Draw)
	}

	if groups.Include("basic_info") {
		r.Age = j.HorseAge
		r.Colour = j.HorseColourCode
		r.Region = j.CountryOriginCode
		dob, _, _ := strings.Cut(j.HorseDateOfBirth, "T")
		r.DOB = ptr(dob)
		r.SexCode = j.HorseSexCode
		if profile != nil {
			r.Sex = ptr(profile.HorseSex)
		}
	}

	if groups.Include("performance") {
		var form strings.Builder
		for i := len(j.FiguresCalculated) - 1; i >= 0; i-- {
			form.WriteString(j.FiguresCalculated[i].FormFigure)
		}
		r.Form = ptr(form.String())
		r.RPR = nonZero(j.RPPostmark)
		r.TS = nonZero(j.RPTopspeed)
		r.OFR = nonZero(j.OfficialRating)
		r.LastRun = j.DaysSinceLastRun
	}

	if groups.Include("jockey") {
		r.Jockey = ptr(clean.String(j.JockeyName))
		r.JockeyID = j.JockeyUID
		r.JockeyAllowance = j.WeightAllowance
		r.Claim = j.WeightAllowance
	}

	if groups.Include("trainer") {
		r.Trainer = ptr(clean.String(j.TrainerName))
		r.TrainerID = j.TrainerID
		if j.TrainerRTF != nil {
			r.TrainerRTF = ptr(string(*j.TrainerRTF))
		}
		if profile != nil {
			r.TrainerLocation = profile.TrainerLocation
			if len(profile.TrainerLast14Days) > 0 {
				raw := json.RawMessage(profile.TrainerLast14Days)
				r.Trainer14Days = &raw
			}
		}
	}

	if groups.Include("weight") {
		r.Lbs = j.WeightCarried
	}

	if groups.Include("equipment") {
		r.Headgear = j.HeadGear
		r.HeadgearFirst = j.FirstTime
		r.GeldingFirst = j.GeldingFirstTime
		r.WindSurgeryFirst = j.WindSurgeryFirst
		r.WindSurgerySecond = j.WindSurgerySecond
	}

	if groups.Include("breeding") {
		r.Sire, r.SireID, r.SireRegion = ptr(clean.String(j.SireName)), j.SireID, j.SireCountry
		r.Dam, r.DamID, r.DamRegion = ptr(clean.String(j.DamName)), j.DamID, j.DamCountry
		r.Damsire, r.DamsireID, r.DamsireRegion = ptr(clean.String(j.DamsireName)), j.DamsireID, j.DamsireCountry
		r.Breeder, r.BreederID = ptr(clean.String(j.BreederName)), j.BreederUID
	}

	if groups.Include("ownership") {
		r.Owner = ptr(clean.String(j.OwnerName))
		r.OwnerID = j.OwnerUID
	}

	if groups.Include("comments") {
		r.Comment = j.Diomed
		r.Spotlight = j.Spotlight
	}

	if groups.Include("status") {
		r.NonRunner = j.NonRunner
		r.Reserve = j.IrishReserve
	}

	if groups.Include("silk") && j.SilkImagePath != nil {
		r.SilkPath = j.SilkImagePath
		r.SilkURL = ptr(SilkBase + *j.SilkImagePath + ".svg")
	}

	if groups.Include("profile") && profile != nil {
		r.Profile = ptr(profile.Path)
	}

	if groups.Include("stats") && card.Stats != nil {
		r.Stats = card.Stats.Attach(strconv.Itoa(j.HorseUID), idString(j.JockeyUID), idString(j.TrainerID))
	}

	if groups.Include("history") && profile != nil {
		for _, t := range profile.PreviousTrainers {
			r.PrevTrainers = append(r.PrevTrainers, models.OwnerChange{
				Trainer: clean.String(t.Name), TrainerID: t.ID, ChangeDate: datePart(t.ChangeDate),
			})
		}
		for _, o := range profile.PreviousOwners {
			r.PrevOwners = append(r.PrevOwners, models.OwnerChange{
				Owner: clean.String(o.Name), OwnerID: o.ID, ChangeDate: datePart(o.ChangeDate),
			})
		}
	}

	if groups.Include("medical") && profile != nil {
		for _, m := range profile.Medical {
			r.Medical = append(r.Medical, models.Medical{Date: datePart(m.Date), Type: m.Type})
		}
	}

	if groups.Include("quotes") && profile != nil {
		for _, q := range profile.Quotes {
			r.Quotes = append(r.Quotes, models.Quote{
				Date:      datePart(q.RaceDate),
				Horse:     clean.String(q.Horse),
				HorseID:   q.HorseUID,
				Race:      q.RaceTitle,
				RaceID:    q.RaceID,
				Course:    q.Course,
				CourseID:  q.CourseUID,
				DistanceF: q.DistanceF,
				DistanceY: q.DistanceY,
				Quote:     q.Notes,
			})
		}
		for _, q := range profile.StableQuotes {
			r.StableTour = append(r.StableTour, models.StableQuote{
				Horse: clean.String(q.Horse), HorseID: q.HorseUID, Quote: q.Notes,
			})
		}
	}

	return r
}

func datePart(s string) string {
	d, _, _ := strings.Cut(s, "T")
	return d
}

func ptr[T any](v T) *T { return &v }

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// nonZero maps the feed's 0 placeholder to nil.
func nonZero(p *int) *int {
	if p == nil || *p == 0 {
		return nil
	}
	return p
}

func idString(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
