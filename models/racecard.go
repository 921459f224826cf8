package models

import (
	"encoding/json"

	"github.com/uptrace/bun"
)

// Racecard is a declared race with its runners. Runners are stored as jsonb,
// the shape of CardRunner depends on which field groups were enabled.
type Racecard struct {
	bun.BaseModel `bun:"table:racecards,alias:rcd"`

	RaceID        int             `bun:"race_id,pk" json:"race_id"`
	Date          string          `bun:"date,notnull,type:date" json:"date"`
	Region        string          `bun:"region,notnull" json:"region"`
	CourseID      int             `bun:"course_id,notnull" json:"course_id"`
	Course        string          `bun:"course,notnull" json:"course"`
	CourseDetail  string          `bun:"course_detail" json:"course_detail"`
	OffTime       string          `bun:"off_time,notnull" json:"off_time"`
	RaceName      string          `bun:"race_name,notnull" json:"race_name"`
	RaceType      string          `bun:"race_type" json:"race_type"`
	RaceClass     *int            `bun:"race_class" json:"race_class"`
	Pattern       string          `bun:"pattern" json:"pattern"`
	AgeBand       *string         `bun:"age_band" json:"age_band"`
	RatingBand    *string         `bun:"rating_band" json:"rating_band"`
	Handicap      bool            `bun:"handicap,notnull" json:"handicap"`
	Distance      string          `bun:"distance" json:"distance"`
	DistanceRound string          `bun:"distance_round" json:"distance_round"`
	DistanceF     float64         `bun:"distance_f" json:"distance_f"`
	DistanceY     int             `bun:"distance_y" json:"distance_y"`
	FieldSize     *int            `bun:"field_size" json:"field_size"`
	Prize         *string         `bun:"prize" json:"prize"`
	Going         string          `bun:"going" json:"going"`
	Surface       string          `bun:"surface" json:"surface"`
	Href          string          `bun:"url,notnull" json:"href"`
	Runners       []CardRunner    `bun:"-" json:"runners"`
	RunnersJSON   json.RawMessage `bun:"runners,notnull,type:jsonb" json:"-"`
}

// CardRunner is one declared runner. Nil fields belong to a disabled group or
// were not published.
type CardRunner struct {
	// core
	Name    *string `json:"name"`
	HorseID *int    `json:"horse_id"`
	Number  *int    `json:"number"`
	Draw    *int    `json:"draw"`

	// basic_info
	Age     *int    `json:"age"`
	Colour  *string `json:"colour"`
	Region  *string `json:"region"`
	DOB     *string `json:"dob"`
	SexCode *string `json:"sex_code"`
	Sex     *string `json:"sex"`

	// performance
	Form    *string `json:"form"`
	RPR     *int    `json:"rpr"`
	TS      *int    `json:"ts"`
	OFR     *int    `json:"ofr"`
	LastRun *int    `json:"last_run"`

	Jockey          *string `json:"jockey"`
	JockeyID        *int    `json:"jockey_id"`
	JockeyAllowance *int    `json:"jockey_allowance"`
	Claim           *int    `json:"claim"`

	Trainer         *string          `json:"trainer"`
	TrainerID       *int             `json:"trainer_id"`
	TrainerRTF      *string          `json:"trainer_rtf"`
	TrainerLocation *string          `json:"trainer_location"`
	Trainer14Days   *json.RawMessage `json:"trainer_14_days"`

	Lbs *int `json:"lbs"`

	// equipment
	Headgear          *string `json:"headgear"`
	HeadgearFirst     *bool   `json:"headgear_first"`
	GeldingFirst      *bool   `json:"gelding_first_time"`
	WindSurgeryFirst  *bool   `json:"wind_surgery_first"`
	WindSurgerySecond *bool   `json:"wind_surgery_second"`

	// breeding
	Sire          *string `json:"sire"`
	SireID        *int    `json:"sire_id"`
	SireRegion    *string `json:"sire_region"`
	Dam           *string `json:"dam"`
	DamID         *int    `json:"dam_id"`
	DamRegion     *string `json:"dam_region"`
	Damsire       *string `json:"damsire"`
	DamsireID     *int    `json:"damsire_id"`
	DamsireRegion *string `json:"damsire_region"`
	Breeder       *string `json:"breeder"`
	BreederID     *int    `json:"breeder_id"`

	Owner   *string `json:"owner"`
	OwnerID *int    `json:"owner_id"`

	Comment   *string `json:"comment"`
	Spotlight *string `json:"spotlight"`

	NonRunner *bool `json:"non_runner"`
	Reserve   *bool `json:"reserve"`

	SilkPath *string `json:"silk_path"`
	SilkURL  *string `json:"silk_url"`

	Profile *string `json:"profile"`

	Stats *RunnerStats `json:"stats"`

	PrevTrainers []OwnerChange `json:"prev_trainers"`
	PrevOwners   []OwnerChange `json:"prev_owners"`
	Medical      []Medical     `json:"medical"`
	Quotes       []Quote       `json:"quotes"`
	StableTour   []StableQuote `json:"stable_tour"`
}

// OwnerChange records a previous trainer or owner. Only one of the name/id
// pairs is set.
type OwnerChange struct {
	Trainer    string `json:"trainer,omitempty"`
	TrainerID  int    `json:"trainer_id,omitempty"`
	Owner      string `json:"owner,omitempty"`
	OwnerID    int    `json:"owner_id,omitempty"`
	ChangeDate string `json:"change_date"`
}

type Medical struct {
	Date string `json:"date"`
	Type string `json:"type"`
}

type Quote struct {
	Date      string  `json:"date"`
	Horse     string  `json:"horse"`
	HorseID   int     `json:"horse_id"`
	Race      string  `json:"race"`
	RaceID    int     `json:"race_id"`
	Course    string  `json:"course"`
	CourseID  int     `json:"course_id"`
	DistanceF float64 `json:"distance_f"`
	DistanceY int     `json:"distance_y"`
	Quote     string  `json:"quote"`
}

type StableQuote struct {
	Horse   string `json:"horse"`
	HorseID int    `json:"horse_id"`
	Quote   string `json:"quote"`
}
