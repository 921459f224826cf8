package models

import "github.com/uptrace/bun"

// Runner holds one runner's result within a race.
type Runner struct {
	bun.BaseModel `bun:"table:results,alias:r"`

	RaceID    string `bun:"race_id,pk" json:"-"`
	HorseID   string `bun:"horse_id,pk" json:"horse_id"`
	Num       string `bun:"num" json:"num"`
	Pos       string `bun:"pos,notnull" json:"pos"`
	Draw      string `bun:"draw" json:"draw"`
	OvrBtn    string `bun:"ovr_btn" json:"ovr_btn"`
	Btn       string `bun:"btn" json:"btn"`
	Horse     string `bun:"horse,notnull" json:"horse"`
	Age       string `bun:"age" json:"age"`
	Sex       string `bun:"sex" json:"sex"`
	Wgt       string `bun:"wgt" json:"wgt"`
	Lbs       string `bun:"lbs" json:"lbs"`
	HG        string `bun:"hg" json:"hg"`
	Time      string `bun:"time" json:"time"`
	Secs      string `bun:"secs" json:"secs"`
	SP        string `bun:"sp" json:"sp"`
	Dec       string `bun:"dec" json:"dec"`
	JockeyID  string `bun:"jockey_id" json:"jockey_id"`
	Jockey    string `bun:"jockey" json:"jockey"`
	TrainerID string `bun:"trainer_id" json:"trainer_id"`
	Trainer   string `bun:"trainer" json:"trainer"`
	Prize     string `bun:"prize" json:"prize"`
	OR        string `bun:"official_rat" json:"or"`
	RPR       string `bun:"rpr" json:"rpr"`
	TS        string `bun:"ts" json:"ts"`
	SireID    string `bun:"sire_id" json:"sire_id"`
	Sire      string `bun:"sire" json:"sire"`
	DamID     string `bun:"dam_id" json:"dam_id"`
	Dam       string `bun:"dam" json:"dam"`
	DamsireID string `bun:"damsire_id" json:"damsire_id"`
	Damsire   string `bun:"damsire" json:"damsire"`
	OwnerID   string `bun:"owner_id" json:"owner_id"`
	Owner     string `bun:"owner" json:"owner"`
	SilkURL   string `bun:"silk_url" json:"silk_url"`
	Comment   string `bun:"comment" json:"comment"`

	Prices
}

// Prices are the exchange figures joined onto a runner. All empty when no
// price row matched.
type Prices struct {
	BSP        string `bun:"bsp" json:"bsp"`
	WAP        string `bun:"wap" json:"wap"`
	MorningWAP string `bun:"morning_wap" json:"morning_wap"`
	PreMin     string `bun:"pre_min" json:"pre_min"`
	PreMax     string `bun:"pre_max" json:"pre_max"`
	IPMin      string `bun:"ip_min" json:"ip_min"`
	IPMax      string `bun:"ip_max" json:"ip_max"`
	MorningVol string `bun:"morning_vol" json:"morning_vol"`
	PreVol     string `bun:"pre_vol" json:"pre_vol"`
	IPVol      string `bun:"ip_vol" json:"ip_vol"`
}
