package output

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dates", "gb", "2024_05_01.csv")

	w, err := Create(path, []string{"pos", "horse"}, false, true)
	require.NoError(t, err)
	require.NoError(t, w.WriteRace([][]string{{"1", "Horse, One"}, {"2", "Two"}}))
	require.NoError(t, w.Close())

	w, err = Create(path, []string{"pos", "horse"}, false, true)
	require.NoError(t, err)
	require.NoError(t, w.WriteRace([][]string{{"1", "Three"}}))
	require.NoError(t, w.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pos,horse\n1,\"Horse, One\"\n2,Two\n1,Three\n", string(b))

	// without resume the file starts over
	w, err = Create(path, []string{"pos"}, false, false)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pos\n", string(b))
}

func TestWriterGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv.gz")
	for i := 0; i < 2; i++ {
		w, err := Create(path, []string{"pos"}, true, true)
		require.NoError(t, err)
		require.NoError(t, w.WriteRace([][]string{{"1"}}))
		require.NoError(t, w.Close())
	}

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	b, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "pos\n1\n1\n", string(b))
}

func TestCheckpoint(t *testing.T) {
	out := filepath.Join(t.TempDir(), "x.csv")
	cp := CheckpointFor(out)

	last, err := cp.Load()
	require.NoError(t, err)
	assert.Equal(t, "", last)

	require.NoError(t, cp.Save("https://r/2"))
	last, err = cp.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://r/2", last)

	urls := []string{"https://r/1", "https://r/2", "https://r/3"}
	assert.Equal(t, []string{"https://r/3"}, After(urls, last))
	assert.Equal(t, urls, After(urls, ""))
	assert.Equal(t, urls, After(urls, "https://r/9"))

	require.NoError(t, cp.Clear())
	require.NoError(t, cp.Clear())
	_, err = os.Stat(out + ".progress")
	assert.True(t, os.IsNotExist(err))
}

func TestPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "dates", "gb", "2024_05_01-2024_05_03.csv.gz"), DatePath("data", "gb", "2024/05/01-2024/05/03", true))
	assert.Equal(t, filepath.Join("data", "dates", "all", "2024_05_01.csv"), DatePath("data", "", "2024/05/01", false))
	assert.Equal(t, filepath.Join("data", "flat", "newmarket_(july)", "2019_2020.csv"), CoursePath("data", "flat", "Newmarket (July)", "2019-2020", false))
	assert.Equal(t, filepath.Join("data", "betfair", "2024_05_01.csv"), BetfairPath("data", "data/dates/gb/2024_05_01.csv.gz"))
	assert.Equal(t, filepath.Join("data", "racecards", "2024-05-01.json"), RacecardPath("data", "2024-05-01"))
}
