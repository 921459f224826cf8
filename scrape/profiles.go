package scrape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const preloadedState = "window.PRELOADED_STATE ="

// Profile is the part of a horse's form page used on racecards.
type Profile struct {
	HorseUID          int             `json:"horseUid"`
	HorseSex          string          `json:"horseSex"`
	TrainerLocation   *string         `json:"trainerLocation"`
	TrainerLast14Days json.RawMessage `json:"trainerLast14Days"`
	PreviousTrainers  []struct {
		Name       string `json:"trainerStyleName"`
		ID         int    `json:"trainerUid"`
		ChangeDate string `json:"trainerChangeDate"`
	} `json:"previousTrainers"`
	PreviousOwners []struct {
		Name       string `json:"ownerStyleName"`
		ID         int    `json:"ownerUid"`
		ChangeDate string `json:"ownerChangeDate"`
	} `json:"previousOwners"`
	Medical []struct {
		Date string `json:"medicalDate"`
		Type string `json:"medicalType"`
	} `json:"medical"`

	// Path is "id/slug" taken from the profile URL.
	Path         string         `json:"-"`
	Quotes       []profileQuote `json:"-"`
	StableQuotes []stableQuote  `json:"-"`
}

type profileQuote struct {
	RaceDate  string  `json:"raceDate"`
	Horse     string  `json:"horseStyleName"`
	HorseUID  int     `json:"horseUid"`
	RaceTitle string  `json:"raceTitle"`
	RaceID    int     `json:"raceId"`
	Course    string  `json:"courseStyleName"`
	CourseUID int     `json:"courseUid"`
	DistanceF float64 `json:"distanceFurlong"`
	DistanceY int     `json:"distanceYard"`
	Notes     string  `json:"notes"`
}

type stableQuote struct {
	Horse    string `json:"horseName"`
	HorseUID int    `json:"horseUid"`
	Notes    string `json:"notes"`
}

// ProfileURL turns a runner link from a racecard into its form page URL.
func ProfileURL(base, href string) string {
	href, _, _ = strings.Cut(href, "#")
	return base + href + "/form"
}

// ParseProfile reads the state object embedded in a form page.
func ParseProfile(url string, body []byte) (*Profile, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	script := doc.Find("body > script").First()
	if script.Length() == 0 {
		return nil, fmt.Errorf("%w: no state script in %s", ErrMalformedField, url)
	}
	_, state, ok := strings.Cut(script.Text(), preloadedState)
	if !ok {
		return nil, fmt.Errorf("%w: no state object in %s", ErrMalformedField, url)
	}
	state, _, _ = strings.Cut(state, "\n")
	state = strings.TrimRight(strings.TrimSpace(state), ";")

	var page struct {
		Profile      *Profile       `json:"profile"`
		Quotes       []profileQuote `json:"quotes"`
		StableQuotes []stableQuote  `json:"stableTourQuotes"`
	}
	if err := json.Unmarshal([]byte(state), &page); err != nil {
		return nil, fmt.Errorf("%w: state in %s: %w", ErrMalformedField, url, err)
	}
	if page.Profile == nil {
		return nil, fmt.Errorf("%w: no profile in %s", ErrMalformedField, url)
	}

	p := page.Profile
	p.Quotes = page.Quotes
	p.StableQuotes = page.StableQuotes
	if parts := strings.Split(url, "/"); len(parts) > 6 {
		p.Path = parts[5] + "/" + parts[6]
	}
	return p, nil
}

// ProfileLinks lists the runner profile pages linked from a racecard.
func ProfileLinks(doc *goquery.Document, base string) []string {
	var out []string
	doc.Find(`a[data-test-selector="RC-cardPage-runnerName"]`).Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok {
			out = append(out, ProfileURL(base, href))
		}
	})
	return out
}
