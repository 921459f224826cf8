package betfair

import (
	"encoding/csv"
	"io"

	"github.com/antzucaro/matchr"

	"github.com/padraicbc/rpscrape/clean"
	"github.com/padraicbc/rpscrape/models"
)

// MatchThreshold is the lowest Jaro-Winkler score accepted as the same horse.
const MatchThreshold = 0.77

// Map groups price rows by race.
type Map map[models.BSPKey][]models.BSP

func NewMap(rows []models.BSP) Map {
	m := Map{}
	for _, r := range rows {
		m[r.Key()] = append(m[r.Key()], r)
	}
	return m
}

// Join copies prices onto each runner from the first row under the race's
// key whose name scores at least MatchThreshold. Runners without a match
// keep empty prices.
func (m Map) Join(race *models.Race) {
	rows := m[models.BSPKey{Region: race.Region, Date: race.Date, Off: race.Off}]
	if len(rows) == 0 {
		return
	}
	for i := range race.Runners {
		r := &race.Runners[i]
		name := clean.MatchKey(r.Horse)
		for _, row := range rows {
			if matchr.JaroWinkler(name, row.Horse, false) >= MatchThreshold {
				r.Prices = row.Prices
				break
			}
		}
	}
}

var dumpHeader = []string{
	"date", "region", "off", "horse", "bsp", "wap", "morning_wap",
	"pre_min", "pre_max", "ip_min", "ip_max", "morning_vol", "pre_vol", "ip_vol",
}

// WriteRows dumps price rows as CSV.
func WriteRows(w io.Writer, rows []models.BSP) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dumpHeader); err != nil {
		return err
	}
	for _, r := range rows {
		p := r.Prices
		rec := []string{
			r.Date, r.Region, r.Off, r.Horse, p.BSP, p.WAP, p.MorningWAP,
			p.PreMin, p.PreMax, p.IPMin, p.IPMax, p.MorningVol, p.PreVol, p.IPVol,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
