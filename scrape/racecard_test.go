package scrape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/rpscrape/models"
	"github.com/padraicbc/rpscrape/reference"
)

const cardPage = `<html><body>
<h1 data-test-selector="RC-courseHeader__name">Ascot</h1>
<span data-test-selector="RC-header__straightRoundJubilee">(Round)</span>
<span data-test-selector="RC-header__raceInstanceTitle">Royal Hunt Cup (Heritage Handicap)</span>
<strong data-test-selector="RC-header__raceDistanceRound">1m</strong>
<span data-test-selector="RC-header__raceDistance">(1m10y)</span>
<span data-test-selector="RC-header__raceClass">(Class 2)</span>
<span data-test-selector="RC-header__rpAges">(3yo+ 0-105)</span>
<div data-test-selector="RC-headerBox__winner">Winner: £100,000</div>
<div data-test-selector="RC-headerBox__runners">Runners: 2 (30 declared)</div>
<div data-test-selector="RC-headerBox__going">Going: Good to Firm</div>
</body></html>`

const cardFeed = `{"runners":{
"102":{"raceDatetime":"2024-06-19T17:00:00","courseUid":2,"raceTypeCode":"F","distanceFurlongRounded":8,"distanceYard":1770,
 "horseName":"Horse Two","horseUid":102,"startNumber":2,"draw":0,"jockeyName":"J Two","jockeyUid":202,"trainerStylename":"T Two","trainerId":302,"trainerRtf":"40"},
"101":{"raceDatetime":"2024-06-19T17:00:00","courseUid":2,"raceTypeCode":"F","distanceFurlongRounded":8,"distanceYard":1770,
 "horseName":"Horse One","horseUid":101,"startNumber":1,"draw":7,"horseAge":4,"horseDateOfBirth":"2020-03-01T00:00:00",
 "figuresCalculated":[{"formFigure":"1"},{"formFigure":"3"}],"rpPostmark":110,"rpTopspeed":0,
 "jockeyName":"J One","jockeyUid":201,"trainerStylename":"T One","trainerId":301,"trainerRtf":25,
 "sireName":"Sire","damName":"Dam","damsireName":"Damsire","ownerName":"Owner","silkImagePath":"00/1/2/101"}
}}`

type groupSet map[string]bool

func (g groupSet) Include(group string) bool { return g[group] }

type allGroups struct{}

func (allGroups) Include(string) bool { return true }

func testCard(t *testing.T, page, feed string) Card {
	return Card{
		RaceID:  "870010",
		URL:     base + "/racecards/2/ascot/2024-06-19/870010",
		Date:    "2024-06-19",
		Page:    mustDoc(t, page),
		Runners: []byte(feed),
		Stats:   ParseStats(mustDoc(t, statsPage)),
		Profiles: map[int]*Profile{
			101: {HorseSex: "gelding", Path: "101/horse-one", TrainerLocation: ptr("Lambourn")},
		},
	}
}

func TestParseRacecard(t *testing.T) {
	rc, err := ParseRacecard(testCard(t, cardPage, cardFeed), mustRef(t), allGroups{})
	require.NoError(t, err)

	assert.Equal(t, 870010, rc.RaceID)
	assert.Equal(t, "2024-06-19", rc.Date)
	assert.Equal(t, "17:00", rc.OffTime)
	assert.Equal(t, 2, rc.CourseID)
	assert.Equal(t, "Ascot", rc.Course)
	assert.Equal(t, "Round", rc.CourseDetail)
	assert.Equal(t, "GB", rc.Region)
	assert.Equal(t, models.TypeFlat, rc.RaceType)
	require.NotNil(t, rc.RaceClass)
	assert.Equal(t, 2, *rc.RaceClass)
	assert.Equal(t, "", rc.Pattern)
	assert.True(t, rc.Handicap)
	assert.Equal(t, "3yo+", *rc.AgeBand)
	assert.Equal(t, "0-105", *rc.RatingBand)
	assert.Equal(t, "1m10y", rc.Distance)
	assert.Equal(t, "1m", rc.DistanceRound)
	assert.Equal(t, 8.0, rc.DistanceF)
	assert.Equal(t, 1770, rc.DistanceY)
	assert.Equal(t, 2, *rc.FieldSize)
	assert.Equal(t, "£100,000", *rc.Prize)
	assert.Equal(t, "Good To Firm", rc.Going)
	assert.Equal(t, reference.SurfaceTurf, rc.Surface)

	require.Len(t, rc.Runners, 2)
	one, two := rc.Runners[0], rc.Runners[1]

	assert.Equal(t, "Horse One", *one.Name)
	assert.Equal(t, 7, *one.Draw)
	assert.Equal(t, "2020-03-01", *one.DOB)
	assert.Equal(t, "gelding", *one.Sex)
	assert.Equal(t, "31", *one.Form)
	assert.Equal(t, 110, *one.RPR)
	assert.Nil(t, one.TS)
	assert.Equal(t, "25", *one.TrainerRTF)
	assert.Equal(t, "Lambourn", *one.TrainerLocation)
	assert.Equal(t, "101/horse-one", *one.Profile)
	assert.Equal(t, SilkBase+"00/1/2/101.svg", *one.SilkURL)
	require.NotNil(t, one.Stats)
	assert.NotNil(t, one.Stats.Horse)
	assert.NotNil(t, one.Stats.Jockey)
	assert.NotNil(t, one.Stats.Trainer)

	// no profile was fetched for the second runner
	assert.Equal(t, "Horse Two", *two.Name)
	assert.Nil(t, two.Draw)
	assert.Nil(t, two.Sex)
	assert.Nil(t, two.Profile)
	assert.Equal(t, "40", *two.TrainerRTF)
	assert.Nil(t, two.Stats.Horse)

	assert.Contains(t, string(rc.RunnersJSON), `"name":"Horse One"`)
}

func TestParseRacecardGroups(t *testing.T) {
	rc, err := ParseRacecard(testCard(t, cardPage, cardFeed), mustRef(t), groupSet{"core": true, "jockey": true})
	require.NoError(t, err)

	r := rc.Runners[0]
	assert.NotNil(t, r.Name)
	assert.NotNil(t, r.Jockey)
	assert.Nil(t, r.Age)
	assert.Nil(t, r.Form)
	assert.Nil(t, r.Trainer)
	assert.Nil(t, r.Stats)
	assert.Nil(t, r.SilkURL)
}

func TestParseRacecardPatternClass(t *testing.T) {
	page := strings.NewReplacer(
		"Royal Hunt Cup (Heritage Handicap)", "Queen Anne Stakes (Group 1)",
		`<span data-test-selector="RC-header__raceClass">(Class 2)</span>`, "",
		"(3yo+ 0-105)", "(4yo+)",
	).Replace(cardPage)
	feed := strings.ReplaceAll(cardFeed, `"raceTypeCode":"F"`, `"raceTypeCode":"Z"`)

	rc, err := ParseRacecard(testCard(t, page, feed), mustRef(t), allGroups{})
	require.NoError(t, err)
	assert.Equal(t, "Group 1", rc.Pattern)
	require.NotNil(t, rc.RaceClass)
	assert.Equal(t, 1, *rc.RaceClass)
	assert.Nil(t, rc.RatingBand)
	assert.False(t, rc.Handicap)
	assert.Equal(t, "", rc.RaceType)
}

func TestParseRacecardBadInput(t *testing.T) {
	ref := mustRef(t)

	_, err := ParseRacecard(testCard(t, cardPage, `{"runners":{}}`), ref, allGroups{})
	assert.ErrorIs(t, err, ErrMalformedField)

	_, err = ParseRacecard(testCard(t, cardPage, `not json`), ref, allGroups{})
	assert.ErrorIs(t, err, ErrMalformedField)

	card := testCard(t, cardPage, cardFeed)
	card.RaceID = "abc"
	_, err = ParseRacecard(card, ref, allGroups{})
	assert.ErrorIs(t, err, ErrMalformedField)
}

func TestRacecardsAdd(t *testing.T) {
	cards := Racecards{}
	cards.Add(&models.Racecard{Region: "GB", Course: "Ascot", OffTime: "14:30"})
	cards.Add(&models.Racecard{Region: "GB", Course: "Ascot", OffTime: "15:05"})
	cards.Add(&models.Racecard{Region: "IRE", Course: "Naas", OffTime: "17:00"})

	assert.Len(t, cards["GB"]["Ascot"], 2)
	assert.Equal(t, "17:00", cards["IRE"]["Naas"]["17:00"].OffTime)
}
