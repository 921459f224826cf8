package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePedigrees(t *testing.T) {
	doc := mustDoc(t, `<table><tr data-test-selector="ped">
<td>b c <a href="/profile/horse/11/frankel">Frankel (GB)</a> - <a href="/profile/horse/12/dam">Kind<span>(IRE)</span></a> (<a href="/profile/horse/13/ds">Danehill</a>)</td>
<td>ch g <a href="/profile/horse/22/dam">Dam Only</a> (<a href="/profile/horse/23/ds">Damsire Unregistered</a>)</td>
<td>f <a href="/profile/horse/31/sire">No Region</a> - </td>
</tr></table>`)

	peds, err := ParsePedigrees(doc.Find(`tr[data-test-selector="ped"] td`))
	require.NoError(t, err)
	require.Len(t, peds, 3)

	assert.Equal(t, Pedigree{
		Sex:     "C",
		Sire:    Ancestor{ID: "11", Name: "Frankel (GB)"},
		Dam:     Ancestor{ID: "12", Name: "Kind (IRE)"},
		Damsire: Ancestor{ID: "13", Name: "Danehill"},
	}, peds[0])

	// no "-" in the cell: links are dam then damsire
	assert.Equal(t, Ancestor{}, peds[1].Sire)
	assert.Equal(t, Ancestor{ID: "22", Name: "Dam Only (GB)"}, peds[1].Dam)
	assert.Equal(t, Ancestor{ID: "23", Name: ""}, peds[1].Damsire)
	assert.Equal(t, "G", peds[1].Sex)

	assert.Equal(t, Ancestor{ID: "31", Name: "No Region (GB)"}, peds[2].Sire)
	assert.Equal(t, Ancestor{}, peds[2].Dam)
	assert.Equal(t, "F", peds[2].Sex)
}

func TestParsePedigreesBadSex(t *testing.T) {
	doc := mustDoc(t, `<table><tr><td>b br dk g <a href="/profile/horse/1/x">X</a></td></tr></table>`)
	_, err := ParsePedigrees(doc.Find("td"))
	assert.ErrorIs(t, err, ErrMalformedField)
}
