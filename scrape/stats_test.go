package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/rpscrape/models"
)

const statsPage = `<html><body>
<table data-test-selector="RC-table"><tbody>
<tr class="ui-table__row">
<td data-test-selector="RC-horseName__row"><a href="/profile/horse/101/horse-one">Horse One</a></td>
<td data-test-selector="RC-goingWinsRuns__row">1 - 4</td>
<td data-test-selector="RC-distanceWinsRuns__row">2 - 5</td>
<td data-test-selector="RC-courseWinsRuns__row">-</td>
</tr>
<tr class="ui-table__row"><td data-test-selector="RC-horseName__row">no link</td></tr>
</tbody></table>
<table data-test-selector="RC-table"><tbody>
<tr class="ui-table__row">
<td data-test-selector="RC-jockeyName__row"><a href="/profile/jockey/201/j-one">J One</a></td>
<td data-test-selector="RC-lastWinsRuns__row">3 - 10</td>
<td data-test-selector="RC-lastPercent__row">30</td>
<td data-test-selector="RC-lastProfit__row">+4.50</td>
<td data-test-selector="RC-overallWinsRuns__row">40 - 300</td>
<td data-test-selector="RC-overallPercent__row">13</td>
<td data-test-selector="RC-overallProfit__row">-20.00</td>
</tr>
</tbody></table>
<table data-test-selector="RC-table"><tbody>
<tr class="ui-table__row ui-table__row_highlight">
<td data-test-selector="RC-trainerName__row"><a href="/profile/trainer/399/ignored">ignored</a></td>
</tr>
<tr class="ui-table__row">
<td data-test-selector="RC-trainerName__row"><a href="/profile/trainer/301/t-one">T One</a></td>
<td data-test-selector="RC-lastWinsRuns__row">0 - 2</td>
</tr>
</tbody></table>
</body></html>`

func TestParseStats(t *testing.T) {
	st := ParseStats(mustDoc(t, statsPage))

	require.Len(t, st.Horses, 1)
	assert.Equal(t, models.HorseStats{
		Going:    models.WinsRuns{Wins: "1", Runs: "4"},
		Distance: models.WinsRuns{Wins: "2", Runs: "5"},
	}, st.Horses["101"])

	assert.Equal(t, models.JockeyTrainerStats{
		Last14Runs:    "10",
		Last14Wins:    "3",
		Last14WinsPct: "30",
		Last14Profit:  "+4.50",
		OvrRuns:       "300",
		OvrWins:       "40",
		OvrWinsPct:    "13",
		OvrProfit:     "-20.00",
	}, st.Jockeys["201"])

	// rows are matched on the exact row class
	require.Len(t, st.Trainers, 1)
	assert.Equal(t, "2", st.Trainers["301"].Last14Runs)
}

func TestStatsAttach(t *testing.T) {
	st := ParseStats(mustDoc(t, statsPage))

	rs := st.Attach("101", "999", "301")
	require.NotNil(t, rs.Horse)
	assert.Nil(t, rs.Jockey)
	require.NotNil(t, rs.Trainer)
	assert.Equal(t, "0", rs.Trainer.Last14Wins)
}

func TestWinsRuns(t *testing.T) {
	assert.Equal(t, models.WinsRuns{Wins: "3", Runs: "12"}, winsRuns("3 - 12"))
	assert.Equal(t, models.WinsRuns{}, winsRuns(""))
	assert.Equal(t, models.WinsRuns{}, winsRuns("1 - 2 - 3"))
}
