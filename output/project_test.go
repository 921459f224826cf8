package output

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/padraicbc/rpscrape/models"
)

func sampleRace() *models.Race {
	return &models.Race{
		Date: "2024-05-01", Course: "Ascot", Type: "Flat", Class: "Class 4",
		Runners: []models.Runner{
			{Pos: "1", Horse: "Horse 1 (IRE)", OR: "85", Prices: models.Prices{BSP: "4.40"}},
			{Pos: "2", Horse: "Horse 2 (GB)", OR: ""},
		},
	}
}

func TestProjector(t *testing.T) {
	p := NewProjector([]string{"date", "course", "type", "class", "pos", "horse", "or", "bsp"})

	assert.Equal(t, []string{"date", "course", "type", "class", "pos", "horse", "or", "bsp"}, p.Header())
	want := [][]string{
		{"2024-05-01", "Ascot", "Flat", "Class 4", "1", "Horse 1 (IRE)", "85", "4.40"},
		{"2024-05-01", "Ascot", "Flat", "Class 4", "2", "Horse 2 (GB)", "", ""},
	}
	if diff := cmp.Diff(want, p.Rows(sampleRace())); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectorDropsUnknown(t *testing.T) {
	p := NewProjector([]string{"nonsense", "pos", "runners", "horse"})
	assert.Equal(t, []string{"pos", "horse"}, p.Header())

	for _, row := range p.Rows(sampleRace()) {
		assert.Len(t, row, len(p.Header()))
	}
	assert.True(t, Known("or"))
	assert.True(t, Known("official_rating"))
	assert.False(t, Known("runners"))
}

func TestProjectorNoRunners(t *testing.T) {
	p := NewProjector([]string{"date"})
	assert.Empty(t, p.Rows(&models.Race{Date: "2024-05-01"}))
}
