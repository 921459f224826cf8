package scrape

import (
	"fmt"

	"github.com/padraicbc/rpscrape/models"
)

// column is one per-runner list scraped from its own part of the page.
type column struct {
	name     string
	required bool
	values   []string
	field    func(r *models.Runner) *string
}

// assemble zips the columns into runners. Required columns must have
// exactly ran values; optional ones may be short and are padded with "".
// No column may be longer than ran.
func assemble(raceID string, ran int, cols []column) ([]models.Runner, error) {
	for _, c := range cols {
		n := len(c.values)
		if n > ran || (c.required && n != ran) {
			return nil, fmt.Errorf("%w: %s has %d values, %d ran", ErrRunnerMismatch, c.name, n, ran)
		}
	}

	runners := make([]models.Runner, ran)
	for i := range runners {
		runners[i].RaceID = raceID
	}
	for _, c := range cols {
		for i, v := range c.values {
			*c.field(&runners[i]) = v
		}
	}
	return runners, nil
}

func required(name string, values []string, field func(r *models.Runner) *string) column {
	return column{name: name, required: true, values: values, field: field}
}

func optional(name string, values []string, field func(r *models.Runner) *string) column {
	return column{name: name, values: values, field: field}
}
