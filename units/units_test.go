package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceToFurlongs(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"5f", 5},
		{"6½f", 6.5},
		{"7¼f", 7.25},
		{"2m3f", 19},
		{"2m", 16},
		{"1m 2½f", 10.5},
		{" 3m ", 24},
	}
	for _, c := range cases {
		got, err := DistanceToFurlongs(c.in)
		require.NoError(t, err, c.in)
		assert.InDelta(t, c.want, got, 1e-9, c.in)
	}
}

func TestDistanceToFurlongsMalformed(t *testing.T) {
	for _, in := range []string{"", "about a mile", "xm3f", "2m?f"} {
		_, err := DistanceToFurlongs(in)
		assert.ErrorIs(t, err, ErrMalformed, in)
	}
}

func TestDistanceToMetres(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"2m 3f 110yds", 3923},
		{"1m 110yds", 1710},
		{"5f", 1006},
		{"2m", 3219},
		{"", 0},
		{"   ", 0},
	}
	for _, c := range cases {
		got, err := DistanceToMetres(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	_, err := DistanceToMetres("2m xf")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestFurlongHelpers(t *testing.T) {
	assert.Equal(t, 1006, FurlongsToMetres(5))
	assert.Equal(t, 1100, MetresToYards(1006))
	assert.Equal(t, "19f", FormatFurlongs(19))
	assert.Equal(t, "6.5f", FormatFurlongs(6.5))
}

func TestMarginToDecimal(t *testing.T) {
	cases := map[string]string{
		"nk":     "0.3",
		"snk":    "0.2",
		"shd":    "0.1",
		"sht-hd": "0.1",
		"hd":     "0.2",
		"nse":    "0.05",
		"dht":    "0",
		"dist":   "30",
		"1½":     "1.5",
		"¾":      ".75",
		"12":     "12",
		"?":      "?",
	}
	for in, want := range cases {
		assert.Equal(t, want, MarginToDecimal(in), in)
	}
}

func TestFractionsToDecimal(t *testing.T) {
	got, err := FractionsToDecimal([]string{"7/2", "evens", "", "No Odds"})
	require.NoError(t, err)
	assert.Equal(t, []string{"4.50", "2.00", "", ""}, got)

	got, err = FractionsToDecimal([]string{"EVS", "&", "100/30"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2.00", "", "4.33"}, got)

	_, err = FractionToDecimal("7-2")
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = FractionToDecimal("7/0")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestTimeRoundTrip(t *testing.T) {
	for _, display := range []string{"1:05.20", "0:59.99", "2:00.00", "4:12.37", "10:01.05", NotRecorded} {
		secs, err := DisplayToSeconds(display)
		require.NoError(t, err, display)
		back, err := SecondsToDisplay(secs)
		require.NoError(t, err, display)
		assert.Equal(t, display, back)
	}

	secs, err := DisplayToSeconds("1:05.20")
	require.NoError(t, err)
	assert.Equal(t, "65.20", secs)

	back, err := SecondsToDisplay(NotRecorded)
	require.NoError(t, err)
	assert.Equal(t, NotRecorded, back)

	_, err = DisplayToSeconds("65.2")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestFormatTimeRollsOverMinute(t *testing.T) {
	assert.Equal(t, "1:00.00", FormatTime(59.999))
}
