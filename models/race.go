package models

import "github.com/uptrace/bun"

// Race types.
const (
	TypeFlat   = "Flat"
	TypeHurdle = "Hurdle"
	TypeChase  = "Chase"
	TypeNHFlat = "NH Flat"
)

// Race is the race-level record extracted from a result page. Every value is
// kept as the string written to CSV; "" means not published.
type Race struct {
	bun.BaseModel `bun:"table:races,alias:rc"`

	RaceID     string `bun:"race_id,pk" json:"race_id"`
	Date       string `bun:"date,notnull,type:date" json:"date"`
	Region     string `bun:"region,notnull" json:"region"`
	CourseID   string `bun:"course_id,notnull" json:"course_id"`
	Course     string `bun:"course,notnull" json:"course"`
	Off        string `bun:"off,notnull" json:"off"`
	RawName    string `bun:"raw_name" json:"-"`
	Name       string `bun:"race_name,notnull" json:"race_name"`
	Type       string `bun:"type,notnull" json:"type"`
	Class      string `bun:"class" json:"class"`
	Pattern    string `bun:"pattern" json:"pattern"`
	AgeBand    string `bun:"age_band" json:"age_band"`
	RatingBand string `bun:"rating_band" json:"rating_band"`
	SexRest    string `bun:"sex_rest" json:"sex_rest"`
	Dist       string `bun:"dist" json:"dist"`
	DistF      string `bun:"dist_f" json:"dist_f"`
	DistM      string `bun:"dist_m" json:"dist_m"`
	DistY      string `bun:"dist_y" json:"dist_y"`
	Going      string `bun:"going" json:"going"`
	Surface    string `bun:"surface" json:"surface"`
	Ran        string `bun:"ran" json:"ran"`
	URL        string `bun:"url,notnull" json:"url"`

	Runners []Runner `bun:"rel:has-many,join:race_id=race_id" json:"runners"`
}
