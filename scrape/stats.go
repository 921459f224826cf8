package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/padraicbc/rpscrape/models"
)

const (
	horseRow   = "RC-horseName__row"
	jockeyRow  = "RC-jockeyName__row"
	trainerRow = "RC-trainerName__row"
)

// Stats are keyed by the horse, jockey or trainer id found in each row link.
type Stats struct {
	Horses   map[string]models.HorseStats
	Jockeys  map[string]models.JockeyTrainerStats
	Trainers map[string]models.JockeyTrainerStats
}

// ParseStats reads the racecard stats accordion. Tables are told apart by
// the selector on the first cell of their first row; rows without a link
// are ignored.
func ParseStats(doc *goquery.Document) *Stats {
	st := &Stats{
		Horses:   map[string]models.HorseStats{},
		Jockeys:  map[string]models.JockeyTrainerStats{},
		Trainers: map[string]models.JockeyTrainerStats{},
	}

	doc.Find(`table[data-test-selector="RC-table"]`).Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
			return hasExactClass(tr, "ui-table__row")
		})
		if rows.Length() == 0 {
			return
		}
		kind, _ := rows.First().Find("td").First().Attr("data-test-selector")

		rows.Each(func(_ int, row *goquery.Selection) {
			id := pathPart(row.Find("a").First(), 3)
			if id == "" {
				return
			}
			switch kind {
			case horseRow:
				st.Horses[id] = horseStats(row)
			case jockeyRow:
				st.Jockeys[id] = jockeyTrainerStats(row)
			case trainerRow:
				st.Trainers[id] = jockeyTrainerStats(row)
			}
		})
	})
	return st
}

// Attach returns the stats for a card runner, nil members where no row
// exists.
func (s *Stats) Attach(horseID, jockeyID, trainerID string) *models.RunnerStats {
	rs := &models.RunnerStats{}
	if h, ok := s.Horses[horseID]; ok {
		rs.Horse = &h
	}
	if j, ok := s.Jockeys[jockeyID]; ok {
		rs.Jockey = &j
	}
	if t, ok := s.Trainers[trainerID]; ok {
		rs.Trainer = &t
	}
	return rs
}

func cell(row *goquery.Selection, selector string) string {
	return first(row, `td[data-test-selector="`+selector+`"]`)
}

// winsRuns splits "3 - 12". Anything else yields empty values.
func winsRuns(s string) models.WinsRuns {
	w, r, ok := strings.Cut(s, "-")
	if !ok || strings.Contains(r, "-") {
		return models.WinsRuns{}
	}
	return models.WinsRuns{Wins: strings.TrimSpace(w), Runs: strings.TrimSpace(r)}
}

func horseStats(row *goquery.Selection) models.HorseStats {
	return models.HorseStats{
		Going:    winsRuns(cell(row, "RC-goingWinsRuns__row")),
		Distance: winsRuns(cell(row, "RC-distanceWinsRuns__row")),
		Course:   winsRuns(cell(row, "RC-courseWinsRuns__row")),
	}
}

func jockeyTrainerStats(row *goquery.Selection) models.JockeyTrainerStats {
	last := winsRuns(cell(row, "RC-lastWinsRuns__row"))
	ovr := winsRuns(cell(row, "RC-overallWinsRuns__row"))
	return models.JockeyTrainerStats{
		Last14Runs:    last.Runs,
		Last14Wins:    last.Wins,
		Last14WinsPct: cell(row, "RC-lastPercent__row"),
		Last14Profit:  cell(row, "RC-lastProfit__row"),
		OvrRuns:       ovr.Runs,
		OvrWins:       ovr.Wins,
		OvrWinsPct:    cell(row, "RC-overallPercent__row"),
		OvrProfit:     cell(row, "RC-overallProfit__row"),
	}
}
