// Package output turns scraped races into CSV rows and files.
package output

import "github.com/padraicbc/rpscrape/models"

type accessor func(race *models.Race, r *models.Runner) string

func raceField(f func(*models.Race) string) accessor {
	return func(race *models.Race, _ *models.Runner) string { return f(race) }
}

func runnerField(f func(*models.Runner) string) accessor {
	return func(_ *models.Race, r *models.Runner) string { return f(r) }
}

// aliases map settings names that clash with reserved words onto the
// record field they read.
var aliases = map[string]string{
	"type":  "race_type",
	"class": "race_class",
	"or":    "official_rating",
}

var accessors = map[string]accessor{
	"date":        raceField(func(x *models.Race) string { return x.Date }),
	"region":      raceField(func(x *models.Race) string { return x.Region }),
	"course_id":   raceField(func(x *models.Race) string { return x.CourseID }),
	"course":      raceField(func(x *models.Race) string { return x.Course }),
	"off":         raceField(func(x *models.Race) string { return x.Off }),
	"race_id":     raceField(func(x *models.Race) string { return x.RaceID }),
	"race_name":   raceField(func(x *models.Race) string { return x.Name }),
	"race_type":   raceField(func(x *models.Race) string { return x.Type }),
	"race_class":  raceField(func(x *models.Race) string { return x.Class }),
	"pattern":     raceField(func(x *models.Race) string { return x.Pattern }),
	"rating_band": raceField(func(x *models.Race) string { return x.RatingBand }),
	"age_band":    raceField(func(x *models.Race) string { return x.AgeBand }),
	"sex_rest":    raceField(func(x *models.Race) string { return x.SexRest }),
	"dist":        raceField(func(x *models.Race) string { return x.Dist }),
	"dist_f":      raceField(func(x *models.Race) string { return x.DistF }),
	"dist_m":      raceField(func(x *models.Race) string { return x.DistM }),
	"dist_y":      raceField(func(x *models.Race) string { return x.DistY }),
	"going":       raceField(func(x *models.Race) string { return x.Going }),
	"surface":     raceField(func(x *models.Race) string { return x.Surface }),
	"ran":         raceField(func(x *models.Race) string { return x.Ran }),

	"num":             runnerField(func(r *models.Runner) string { return r.Num }),
	"pos":             runnerField(func(r *models.Runner) string { return r.Pos }),
	"draw":            runnerField(func(r *models.Runner) string { return r.Draw }),
	"ovr_btn":         runnerField(func(r *models.Runner) string { return r.OvrBtn }),
	"btn":             runnerField(func(r *models.Runner) string { return r.Btn }),
	"horse_id":        runnerField(func(r *models.Runner) string { return r.HorseID }),
	"horse":           runnerField(func(r *models.Runner) string { return r.Horse }),
	"age":             runnerField(func(r *models.Runner) string { return r.Age }),
	"sex":             runnerField(func(r *models.Runner) string { return r.Sex }),
	"wgt":             runnerField(func(r *models.Runner) string { return r.Wgt }),
	"lbs":             runnerField(func(r *models.Runner) string { return r.Lbs }),
	"hg":              runnerField(func(r *models.Runner) string { return r.HG }),
	"time":            runnerField(func(r *models.Runner) string { return r.Time }),
	"secs":            runnerField(func(r *models.Runner) string { return r.Secs }),
	"sp":              runnerField(func(r *models.Runner) string { return r.SP }),
	"dec":             runnerField(func(r *models.Runner) string { return r.Dec }),
	"jockey_id":       runnerField(func(r *models.Runner) string { return r.JockeyID }),
	"jockey":          runnerField(func(r *models.Runner) string { return r.Jockey }),
	"trainer_id":      runnerField(func(r *models.Runner) string { return r.TrainerID }),
	"trainer":         runnerField(func(r *models.Runner) string { return r.Trainer }),
	"prize":           runnerField(func(r *models.Runner) string { return r.Prize }),
	"official_rating": runnerField(func(r *models.Runner) string { return r.OR }),
	"rpr":             runnerField(func(r *models.Runner) string { return r.RPR }),
	"ts":              runnerField(func(r *models.Runner) string { return r.TS }),
	"sire_id":         runnerField(func(r *models.Runner) string { return r.SireID }),
	"sire":            runnerField(func(r *models.Runner) string { return r.Sire }),
	"dam_id":          runnerField(func(r *models.Runner) string { return r.DamID }),
	"dam":             runnerField(func(r *models.Runner) string { return r.Dam }),
	"damsire_id":      runnerField(func(r *models.Runner) string { return r.DamsireID }),
	"damsire":         runnerField(func(r *models.Runner) string { return r.Damsire }),
	"owner_id":        runnerField(func(r *models.Runner) string { return r.OwnerID }),
	"owner":           runnerField(func(r *models.Runner) string { return r.Owner }),
	"silk_url":        runnerField(func(r *models.Runner) string { return r.SilkURL }),
	"comment":         runnerField(func(r *models.Runner) string { return r.Comment }),

	"bsp":         runnerField(func(r *models.Runner) string { return r.BSP }),
	"wap":         runnerField(func(r *models.Runner) string { return r.WAP }),
	"morning_wap": runnerField(func(r *models.Runner) string { return r.MorningWAP }),
	"pre_min":     runnerField(func(r *models.Runner) string { return r.PreMin }),
	"pre_max":     runnerField(func(r *models.Runner) string { return r.PreMax }),
	"ip_min":      runnerField(func(r *models.Runner) string { return r.IPMin }),
	"ip_max":      runnerField(func(r *models.Runner) string { return r.IPMax }),
	"morning_vol": runnerField(func(r *models.Runner) string { return r.MorningVol }),
	"pre_vol":     runnerField(func(r *models.Runner) string { return r.PreVol }),
	"ip_vol":      runnerField(func(r *models.Runner) string { return r.IPVol }),
}

func lookup(name string) (accessor, bool) {
	if a, ok := aliases[name]; ok {
		name = a
	}
	f, ok := accessors[name]
	return f, ok
}

// Known reports whether a settings field name can be projected.
func Known(name string) bool {
	_, ok := lookup(name)
	return ok
}

// Projector flattens a race into one row per runner in a fixed field order.
type Projector struct {
	names []string
	get   []accessor
}

// NewProjector keeps the fields it knows, in the order given. Unknown names
// are dropped from the header and the rows alike.
func NewProjector(fields []string) *Projector {
	p := &Projector{}
	for _, name := range fields {
		if f, ok := lookup(name); ok {
			p.names = append(p.names, name)
			p.get = append(p.get, f)
		}
	}
	return p
}

func (p *Projector) Header() []string {
	return append([]string(nil), p.names...)
}

func (p *Projector) Rows(race *models.Race) [][]string {
	rows := make([][]string, 0, len(race.Runners))
	for i := range race.Runners {
		row := make([]string, len(p.get))
		for j, f := range p.get {
			row[j] = f(race, &race.Runners[i])
		}
		rows = append(rows, row)
	}
	return rows
}
