package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileURL = base + "/profile/horse/101/horse-one/form"

const profilePage = `<html><body>
<script>
var x = 1;
window.PRELOADED_STATE = {"profile":{"horseUid":101,"horseSex":"gelding","trainerLocation":"Lambourn, Berks","trainerLast14Days":{"runs":4,"wins":1},"previousTrainers":[{"trainerStyleName":"Old Yard","trainerUid":7,"trainerChangeDate":"2022-03-01T00:00:00"}],"previousOwners":[],"medical":[{"medicalDate":"2023-01-05T00:00:00","medicalType":"Wind Surgery"}]},"quotes":[{"raceDate":"2024-04-01T00:00:00","horseStyleName":"Horse One","horseUid":101,"raceTitle":"Maiden","raceId":5,"courseStyleName":"Ascot","courseUid":2,"distanceFurlong":8,"distanceYard":1760,"notes":"Should improve"}],"stableTourQuotes":[{"horseName":"Horse One","horseUid":101,"notes":"Likes soft"}]};
window.OTHER = {};
</script>
</body></html>`

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile(profileURL, []byte(profilePage))
	require.NoError(t, err)

	assert.Equal(t, 101, p.HorseUID)
	assert.Equal(t, "gelding", p.HorseSex)
	require.NotNil(t, p.TrainerLocation)
	assert.Equal(t, "Lambourn, Berks", *p.TrainerLocation)
	assert.JSONEq(t, `{"runs":4,"wins":1}`, string(p.TrainerLast14Days))
	require.Len(t, p.PreviousTrainers, 1)
	assert.Equal(t, 7, p.PreviousTrainers[0].ID)
	assert.Empty(t, p.PreviousOwners)
	require.Len(t, p.Medical, 1)
	assert.Equal(t, "Wind Surgery", p.Medical[0].Type)
	assert.Equal(t, "101/horse-one", p.Path)
	require.Len(t, p.Quotes, 1)
	assert.Equal(t, "Should improve", p.Quotes[0].Notes)
	require.Len(t, p.StableQuotes, 1)
}

func TestParseProfileMissingState(t *testing.T) {
	_, err := ParseProfile(profileURL, []byte(`<html><body><p>nothing</p></body></html>`))
	assert.ErrorIs(t, err, ErrMalformedField)

	_, err = ParseProfile(profileURL, []byte(`<html><body><script>var a;</script></body></html>`))
	assert.ErrorIs(t, err, ErrMalformedField)

	_, err = ParseProfile(profileURL, []byte(`<html><body><script>window.PRELOADED_STATE = {"quotes":[]};</script></body></html>`))
	assert.ErrorIs(t, err, ErrMalformedField)
}

func TestProfileLinks(t *testing.T) {
	doc := mustDoc(t, `<html><body>
<a data-test-selector="RC-cardPage-runnerName" href="/profile/horse/101/horse-one#card">Horse One</a>
<a data-test-selector="RC-cardPage-runnerName" href="/profile/horse/102/horse-two">Horse Two</a>
</body></html>`)
	assert.Equal(t, []string{
		base + "/profile/horse/101/horse-one/form",
		base + "/profile/horse/102/horse-two/form",
	}, ProfileLinks(doc, base))
}
