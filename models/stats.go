package models

// WinsRuns is a "wins-runs" pair as published.
type WinsRuns struct {
	Runs string `json:"runs"`
	Wins string `json:"wins"`
}

// HorseStats are a horse's record under today's conditions.
type HorseStats struct {
	Course   WinsRuns `json:"course"`
	Distance WinsRuns `json:"distance"`
	Going    WinsRuns `json:"going"`
}

// JockeyTrainerStats cover the last 14 days and the overall record.
type JockeyTrainerStats struct {
	Last14Profit  string `json:"last_14_profit"`
	Last14Runs    string `json:"last_14_runs"`
	Last14Wins    string `json:"last_14_wins"`
	Last14WinsPct string `json:"last_14_wins_pct"`
	OvrProfit     string `json:"ovr_profit"`
	OvrRuns       string `json:"ovr_runs"`
	OvrWins       string `json:"ovr_wins"`
	OvrWinsPct    string `json:"ovr_wins_pct"`
}

// RunnerStats is attached to a card runner. A nil member means no row was
// found for that id.
type RunnerStats struct {
	Horse   *HorseStats         `json:"horse"`
	Jockey  *JockeyTrainerStats `json:"jockey"`
	Trainer *JockeyTrainerStats `json:"trainer"`
}
