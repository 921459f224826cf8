package batch

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/padraicbc/rpscrape/models"
	"github.com/padraicbc/rpscrape/output"
	"github.com/padraicbc/rpscrape/reference"
)

const base = "https://rp.test"

func resultPage(name, pos string) string {
	return `<html><body>
<main data-analytics-coursename="Ascot" data-analytics-race-date-time="2024-05-01T14:30:00+01:00">
<h2 class="rp-raceTimeCourseName__title">` + name + `</h2>
<span class="rp-raceTimeCourseName_condition">Good</span>
<span data-test-selector="block-distanceInd">6f</span>
<div class="rp-raceInfo"><ul>
<li><span class="rp-raceInfo__value">1m 12.00s</span><span class="rp-raceInfo__value">(fast by 0.20s)</span></li>
<li><span class="rp-raceInfo__value rp-raceInfo__value_black">1 ran</span></li>
</ul></div>
<table>
<tr><td>
<span data-test-selector="text-horsePosition">` + pos + `</span><span data-test-selector="text-horsePosition">` + pos + `</span>
<sup class="rp-horseTable__pos__draw">(1)</sup>
<span class="rp-horseTable__pos__length"><span></span></span>
</td><td>
<span class="rp-horseTable__saddleClothNo">1.</span>
<a data-test-selector="link-horseName" href="/profile/horse/101/horse-one">Horse One</a>
<span class="rp-horseTable__horse__price">2/1</span>
<a data-test-selector="link-jockeyName" href="/profile/jockey/201/j-one">J One</a>
<a data-test-selector="link-jockeyName" href="/profile/jockey/201/j-one">J One</a>
<a data-test-selector="link-trainerName" href="/profile/trainer/301/t-one">T One</a>
<a data-test-selector="link-trainerName" href="/profile/trainer/301/t-one">T One</a>
</td></tr>
<tr data-test-selector="block-pedigreeInfoFullResults"><td>b g <a href="/profile/horse/501/sire">Sire (IRE)</a> - <a href="/profile/horse/601/dam">Dam</a> (<a href="/profile/horse/701/ds">Damsire</a>)</td></tr>
</table></main></body></html>`
}

type pageFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	delay map[string]time.Duration
	calls map[string]int
}

func (f *pageFetcher) Get(ctx context.Context, url string) (int, []byte, error) {
	f.mu.Lock()
	f.calls[url]++
	page, ok := f.pages[url]
	d := f.delay[url]
	f.mu.Unlock()

	time.Sleep(d)
	if !ok {
		return http.StatusNotFound, nil, nil
	}
	return http.StatusOK, []byte(page), nil
}

type raceRecorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *raceRecorder) SaveRace(_ context.Context, race *models.Race) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, race.RaceID)
	return nil
}

func raceURL(id int) string {
	return fmt.Sprintf("%s/results/2/ascot/2024-05-01/%d", base, id)
}

func TestResultsRunKeepsOrder(t *testing.T) {
	ref, err := reference.Load("")
	require.NoError(t, err)

	f := &pageFetcher{pages: map[string]string{}, delay: map[string]time.Duration{}, calls: map[string]int{}}
	var urls []string
	for i := 1; i <= 6; i++ {
		u := raceURL(i)
		urls = append(urls, u)
		f.pages[u] = resultPage(fmt.Sprintf("Race %d Stakes", i), "1")
		f.delay[u] = time.Duration(7-i) * 5 * time.Millisecond
	}
	delete(f.pages, raceURL(3))
	f.pages[raceURL(5)] = resultPage("Void Stakes", "VOI")

	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.csv")
	proj := output.NewProjector([]string{"race_id", "race_name", "pos", "horse"})
	w, err := output.Create(outPath, proj.Header(), false, false)
	require.NoError(t, err)

	sink := &raceRecorder{}
	b := &Results{
		Fetcher:    f,
		Ref:        ref,
		Workers:    3,
		Projector:  proj,
		Writer:     w,
		Checkpoint: output.CheckpointFor(outPath),
		Sink:       sink,
		Log:        zap.NewNop(),
	}
	sum, err := b.Run(context.Background(), urls)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, 4, sum.Written)
	assert.Equal(t, 2, sum.Skipped)
	assert.NotEmpty(t, sum.RunID)
	assert.Equal(t, []string{"1", "2", "4", "6"}, sink.ids)

	b2, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"race_id,race_name,pos,horse",
		"1,Race 1 Stakes,1,Horse One (GB)",
		"2,Race 2 Stakes,1,Horse One (GB)",
		"4,Race 4 Stakes,1,Horse One (GB)",
		"6,Race 6 Stakes,1,Horse One (GB)",
	}, "\n")+"\n", string(b2))

	last, err := output.CheckpointFor(outPath).Load()
	require.NoError(t, err)
	assert.Equal(t, raceURL(6), last)
}

func TestResultsRefetchesNotReady(t *testing.T) {
	ref, err := reference.Load("")
	require.NoError(t, err)

	u := raceURL(9)
	f := &pageFetcher{
		pages: map[string]string{u: `<html><body><p>results to follow</p></body></html>`},
		delay: map[string]time.Duration{},
		calls: map[string]int{},
	}
	proj := output.NewProjector([]string{"race_id"})
	w, err := output.Create(filepath.Join(t.TempDir(), "o.csv"), proj.Header(), false, false)
	require.NoError(t, err)
	defer w.Close()

	b := &Results{Fetcher: f, Ref: ref, Workers: 1, Projector: proj, Writer: w, Log: zap.NewNop()}
	sum, err := b.Run(context.Background(), []string{u})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 2, f.calls[u])
}

func TestKeep(t *testing.T) {
	flat := &models.Race{Type: models.TypeFlat}
	chase := &models.Race{Type: models.TypeChase}
	assert.True(t, Keep("flat", flat))
	assert.False(t, Keep("flat", chase))
	assert.True(t, Keep("jumps", chase))
	assert.False(t, Keep("jumps", flat))
	assert.True(t, Keep("", chase))
}
