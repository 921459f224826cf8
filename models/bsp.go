package models

// BSPKey identifies the race a price row belongs to. The exchange uses its
// own horse ids, so rows are matched to runners by name within a key.
type BSPKey struct {
	Region string
	Date   string
	Off    string
}

// BSP is one runner row from an exchange starting-price file.
type BSP struct {
	Date   string `json:"date"`
	Region string `json:"region"`
	Off    string `json:"off"`
	Horse  string `json:"horse"`
	Prices
}

func (b BSP) Key() BSPKey {
	return BSPKey{Region: b.Region, Date: b.Date, Off: b.Off}
}
