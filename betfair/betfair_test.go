package betfair

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/padraicbc/rpscrape/fetch"
	"github.com/padraicbc/rpscrape/models"
)

const priceFile = `EVENT_ID,MENU_HINT,EVENT_NAME,EVENT_DT,SELECTION_ID,SELECTION_NAME,WIN_LOSE,BSP,PPWAP,MORNINGWAP,PPMAX,PPMIN,IPMAX,IPMIN,MORNINGTRADEDVOL,PPTRADEDVOL,IPTRADEDVOL
1,Ascot 1st May,1m2f Hcap,01-05-2024 14:30,11,Alpha Star,1,4.4,4.62345,5,5.2,4.1,4.6,1.01,1200.5,30000,5000
1,Ascot 1st May,1m2f Hcap,01-05-2024 14:30,12,Brave Heart (IRE),0,2.1,,,2.2,2,1000,1.9,100,2000,300
1,Ascot 1st May,1m2f Hcap,bad date,13,Other,0,9,,,,,,,,,
`

func TestSources(t *testing.T) {
	src, err := Sources("https://bf", []string{"2024-05-02", "2024-05-01"})
	require.NoError(t, err)
	require.Len(t, src, len(Regions)*4)

	assert.Equal(t, Source{URL: "https://bf/dwbfpricesukwin30042024.csv", Region: "UK"}, src[0])
	assert.Equal(t, Source{URL: "https://bf/dwbfpricesukwin03052024.csv", Region: "UK"}, src[3])
	assert.Equal(t, "https://bf/dwbfpricesuaewin03052024.csv", src[len(src)-1].URL)

	_, err = Sources("https://bf", []string{"01/05/2024"})
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	rows, err := Parse(strings.NewReader(priceFile), "UK")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, models.BSP{
		Date:   "2024-05-01",
		Region: "GB",
		Off:    "14:30",
		Horse:  "alpha star",
		Prices: models.Prices{
			BSP: "4.40", WAP: "4.62", MorningWAP: "5.00",
			PreMin: "4.1", PreMax: "5.2", IPMin: "1.01", IPMax: "4.6",
			MorningVol: "1200.5", PreVol: "30000", IPVol: "5000",
		},
	}, rows[0])
	assert.Equal(t, "brave heart", rows[1].Horse)
	assert.Equal(t, "", rows[1].WAP)

	rows, err = Parse(strings.NewReader(""), "IRE")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func testRace() *models.Race {
	return &models.Race{
		Region: "GB", Date: "2024-05-01", Off: "14:30",
		Runners: []models.Runner{
			{Horse: "Alpha Star (IRE)"},
			{Horse: "Brave Heart (IRE)"},
			{Horse: "Zzyzx Qqq (FR)"},
		},
	}
}

func TestJoin(t *testing.T) {
	rows, err := Parse(strings.NewReader(priceFile), "UK")
	require.NoError(t, err)

	race := testRace()
	NewMap(rows).Join(race)

	assert.Equal(t, "4.40", race.Runners[0].BSP)
	assert.Equal(t, "30000", race.Runners[0].PreVol)
	assert.Equal(t, "2.10", race.Runners[1].BSP)
	assert.Equal(t, models.Prices{}, race.Runners[2].Prices)

	other := testRace()
	other.Off = "15:00"
	NewMap(rows).Join(other)
	assert.Equal(t, "", other.Runners[0].BSP)
}

type statusServer struct {
	mu     sync.Mutex
	status map[string][]int
	hits   map[string]int
}

func (s *statusServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq, ok := s.status[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	n := s.hits[r.URL.Path]
	s.hits[r.URL.Path] = n + 1
	code := seq[min(n, len(seq)-1)]
	w.WriteHeader(code)
	if code == http.StatusOK {
		_, _ = w.Write([]byte(priceFile))
	}
}

func TestClientLoad(t *testing.T) {
	ss := &statusServer{
		status: map[string][]int{"/dwbfpricesukwin01052024.csv": {429, 520, 200}},
		hits:   map[string]int{},
	}
	srv := httptest.NewServer(ss)
	defer srv.Close()

	c := NewClient(fetch.NewHTTP(fetch.Options{}), srv.URL, time.Millisecond, zap.NewNop())
	m, rows, err := c.Load(context.Background(), []string{"2024-05-01"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 3, ss.hits["/dwbfpricesukwin01052024.csv"])
	assert.Len(t, m[models.BSPKey{Region: "GB", Date: "2024-05-01", Off: "14:30"}], 2)
}

func TestClientLoadFailures(t *testing.T) {
	cases := map[string][]int{
		"retries exhausted": {429, 429, 429, 429},
		"server error":      {500},
		"forbidden":         {403},
	}
	for name, seq := range cases {
		t.Run(name, func(t *testing.T) {
			ss := &statusServer{
				status: map[string][]int{"/dwbfpricesirewin01052024.csv": seq},
				hits:   map[string]int{},
			}
			srv := httptest.NewServer(ss)
			defer srv.Close()

			c := NewClient(fetch.NewHTTP(fetch.Options{}), srv.URL, time.Millisecond, zap.NewNop())
			_, _, err := c.Load(context.Background(), []string{"2024-05-01"})
			assert.ErrorIs(t, err, ErrUpstream)
		})
	}
}

func TestWriteRows(t *testing.T) {
	rows, err := Parse(strings.NewReader(priceFile), "UK")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, rows))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,region,off,horse,bsp,wap,morning_wap,pre_min,pre_max,ip_min,ip_max,morning_vol,pre_vol,ip_vol", lines[0])
	assert.Equal(t, "2024-05-01,GB,14:30,alpha star,4.40,4.62,5.00,4.1,5.2,1.01,4.6,1200.5,30000,5000", lines[1])
}
