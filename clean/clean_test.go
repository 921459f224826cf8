package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "", String(""))
	assert.Equal(t, "Frankel", String("  Frankel  "))
	assert.Equal(t, "OBrien A P", String("O'Brien, A P"))
	assert.Equal(t, "Foo Bar", String(`Foo  "Bar" ()`))
}

func TestRaceName(t *testing.T) {
	cases := [][2]string{
		{"Coral Handicap (Class 4)", "Coral Handicap"},
		{"Champion Stakes (Group 1) (British Champions)", "Champion Stakes (British Champions)"},
		{"Betfair Hurdle (Grade 3)", "Betfair Hurdle"},
		{"Foo Stakes (Listed Race)", "Foo Stakes"},
		{"Bar Stakes (Listed)", "Bar Stakes"},
		{"Plain Maiden Stakes", "Plain Maiden Stakes"},
		{"Forte Mile Guaranteed Minimum Value Â£60000 (Group 2)", "Sandown Mile"},
	}
	for _, c := range cases {
		assert.Equal(t, c[1], RaceName(c[0]), c[0])
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "Sea The Stars", Name("Sea The Stars (IRE)", true))
	assert.Equal(t, "Galileo", Name("galileo II", true))
	assert.Equal(t, "St Nicholas Abbey", Name("St. Nicholas Abbey", true))
	assert.Equal(t, "Dont Push It", Name("Don't Push It", true))
	assert.Equal(t, "don t know", Name("don.t   know iii", false))
}

func TestNameForRegion(t *testing.T) {
	assert.Equal(t, "sea the stars", NameForRegion("Sea The Stars (IRE)", "IRE"))
	assert.Equal(t, "winx", NameForRegion("C. Winx", "AUS"))
	assert.Equal(t, "c. winx", NameForRegion("C. Winx", "GB"))
}

func TestMatchKey(t *testing.T) {
	assert.Equal(t, "enable", MatchKey("Enable (GB)"))
	assert.Equal(t, "enable", MatchKey("Enable"))
}

func TestComment(t *testing.T) {
	assert.Equal(t, "led - kept on well", Comment("  led, kept on\nwell "))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "John Smith Racing", Title("john smith RACING"))
}
