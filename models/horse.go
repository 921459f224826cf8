package models

import "github.com/uptrace/bun"

// Horse is the latest known identity and breeding of a runner.
type Horse struct {
	bun.BaseModel `bun:"table:horses,alias:h"`

	HorseID   string `bun:"horse_id,pk" json:"horseID"`
	Horse     string `bun:"horse,notnull" json:"horse"`
	Sex       string `bun:"sex" json:"sex,omitempty"`
	SireID    string `bun:"sire_id" json:"sireID,omitempty"`
	DamID     string `bun:"dam_id" json:"damID,omitempty"`
	DamsireID string `bun:"damsire_id" json:"damsireID,omitempty"`
	LastRace  string `bun:"last_race_id" json:"lastRaceID,omitempty"`
}

// Person is a jockey or trainer seen on a result page.
type Person struct {
	bun.BaseModel `bun:"table:people,alias:p"`

	Role string `bun:"role,pk" json:"role"`
	ID   string `bun:"person_id,pk" json:"id"`
	Name string `bun:"name,notnull" json:"name"`
}

const (
	RoleJockey  = "jockey"
	RoleTrainer = "trainer"
)
