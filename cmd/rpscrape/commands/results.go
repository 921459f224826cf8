package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/padraicbc/rpscrape/batch"
	"github.com/padraicbc/rpscrape/betfair"
	"github.com/padraicbc/rpscrape/config"
	bundb "github.com/padraicbc/rpscrape/db"
	"github.com/padraicbc/rpscrape/output"
)

var errUsage = errors.New("usage")

type resultsFlags struct {
	date     string
	dateFile string
	course   string
	years    string
	region   string
	code     string
	betfair  bool
	gzip     bool
	db       bool
	upload   bool
}

var rf resultsFlags

var resultsCmd = &cobra.Command{
	Use:   "results (-d YYYY/MM/DD[-YYYY/MM/DD] | --date-file FILE | -c COURSE_ID -y YEAR[-YEAR] -t flat|jumps)",
	Short: "Scrapes result pages into a CSV file under the data directory.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResults(cmd.Context(), cur, rf)
	},
}

func init() {
	f := resultsCmd.Flags()
	f.StringVarP(&rf.date, "date", "d", "", "date or date range, YYYY/MM/DD[-YYYY/MM/DD]")
	f.StringVar(&rf.dateFile, "date-file", "", "file with one date or date range per line")
	f.StringVarP(&rf.course, "course", "c", "", "course id, see the courses command")
	f.StringVarP(&rf.years, "year", "y", "", "year or year range for a course, YYYY[-YYYY]")
	f.StringVarP(&rf.region, "region", "r", "", "region code, see the regions command")
	f.StringVarP(&rf.code, "type", "t", "", "race code: flat or jumps")
	f.BoolVar(&rf.betfair, "betfair", false, "join exchange prices even when the settings file leaves them out")
	f.BoolVar(&rf.gzip, "gzip", false, "gzip the output file")
	f.BoolVar(&rf.db, "db", false, "also store every race in postgres")
	f.BoolVar(&rf.upload, "upload", false, "upload the finished file to S3")
	resultsCmd.MarkFlagsMutuallyExclusive("date", "date-file", "course")
	resultsCmd.MarkFlagsRequiredTogether("course", "year")
	rootCmd.AddCommand(resultsCmd)
}

// job is the validated form of the results flags: what to list and where to
// write it.
type job struct {
	dates    []string
	courseID string
	course   string
	years    []string
	out      string
}

func (a app) resultsJob(f resultsFlags, now time.Time) (job, error) {
	var j job
	if f.code != "" && f.code != "flat" && f.code != "jumps" {
		return j, fmt.Errorf("%w: --type must be flat or jumps", errUsage)
	}
	if f.region != "" && !a.ref.ValidRegion(f.region) {
		return j, fmt.Errorf("%w: unknown region %q", errUsage, f.region)
	}

	switch {
	case f.date != "":
		dates, err := batch.ParseDates(f.date, now)
		if err != nil {
			return j, err
		}
		j.dates = dates
		j.out = output.DatePath(a.cfg.DataDir, strings.ToLower(f.region), f.date, f.gzip)
	case f.dateFile != "":
		dates, err := batch.ReadDateFile(f.dateFile, now)
		if err != nil {
			return j, err
		}
		if len(dates) == 0 {
			return j, fmt.Errorf("%w: %s lists no dates", errUsage, f.dateFile)
		}
		j.dates = dates
		name := strings.TrimSuffix(filepath.Base(f.dateFile), filepath.Ext(f.dateFile))
		j.out = output.DatePath(a.cfg.DataDir, strings.ToLower(f.region), name, f.gzip)
	case f.course != "":
		if !a.ref.ValidCourse(f.course) {
			return j, fmt.Errorf("%w: unknown course %q", errUsage, f.course)
		}
		if f.code == "" {
			return j, fmt.Errorf("%w: --type is required with --course", errUsage)
		}
		years, err := batch.ParseYears(f.years, now)
		if err != nil {
			return j, err
		}
		j.courseID = f.course
		j.course = a.ref.CourseName(f.course)
		j.years = years
		j.out = output.CoursePath(a.cfg.DataDir, f.code, j.course, f.years, f.gzip)
	default:
		return j, fmt.Errorf("%w: one of --date, --date-file or --course is required", errUsage)
	}
	return j, nil
}

func runResults(ctx context.Context, a app, f resultsFlags) error {
	j, err := a.resultsJob(f, time.Now())
	if err != nil {
		return err
	}
	settings, err := config.LoadSettings(a.cfg.SettingsDir)
	if err != nil {
		return err
	}
	if f.betfair {
		settings.EnableBetfair()
	}

	fetcher, closeCache, err := a.fetcher(ctx, a.cfg.HTTPRetries)
	if err != nil {
		return err
	}
	defer closeCache()

	var urls []string
	if j.courseID != "" {
		urls, err = batch.CourseLinks(ctx, fetcher, a.cfg.RPBaseURL, j.courseID, j.course, j.years, f.code)
	} else {
		urls, err = batch.DayLinks(ctx, fetcher, a.cfg.RPBaseURL, j.dates, f.region, a.ref)
	}
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		a.log.Info("no races found", zap.String("output", j.out))
		return nil
	}

	cp := output.CheckpointFor(j.out)
	last, err := cp.Load()
	if err != nil {
		return err
	}
	resume := last != ""
	if resume {
		urls = output.After(urls, last)
		a.log.Info("resuming", zap.String("after", last), zap.Int("remaining", len(urls)))
	}

	b := &batch.Results{
		Fetcher:    fetcher,
		Ref:        a.ref,
		Code:       f.code,
		Workers:    a.cfg.Workers,
		Projector:  output.NewProjector(settings.Fields),
		Checkpoint: cp,
		ReadyWait:  a.cfg.RetryWait,
		Log:        a.log,
	}

	uploads := []string{j.out}
	if settings.BetfairData {
		dump, err := a.prices(ctx, b, urls, j.out)
		if err != nil {
			return err
		}
		uploads = append(uploads, dump)
	}

	if f.db {
		db, err := a.database(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		b.Sink = bundb.NewStore(db)
	}

	w, err := output.Create(j.out, b.Projector.Header(), f.gzip, resume)
	if err != nil {
		return err
	}
	b.Writer = w
	_, runErr := b.Run(ctx, urls)
	if err := w.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}
	if err := cp.Clear(); err != nil {
		return err
	}

	if f.upload {
		return a.upload(ctx, uploads...)
	}
	return nil
}

// prices loads the exchange files covering urls into b and writes the raw
// rows next to the results file, returning the dump path.
func (a app) prices(ctx context.Context, b *batch.Results, urls []string, results string) (string, error) {
	// the client retries throttled files itself
	fetcher, closeCache, err := a.fetcher(ctx, 1)
	if err != nil {
		return "", err
	}
	defer closeCache()

	client := betfair.NewClient(fetcher, a.cfg.BetfairBaseURL, a.cfg.RetryWait, a.log)
	m, rows, err := client.Load(ctx, batch.URLDates(urls))
	if err != nil {
		return "", err
	}
	b.Prices = m

	dump := output.BetfairPath(a.cfg.DataDir, results)
	if err := os.MkdirAll(filepath.Dir(dump), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(dump)
	if err != nil {
		return "", err
	}
	if err := betfair.WriteRows(out, rows); err != nil {
		_ = out.Close()
		return "", err
	}
	a.log.Info("prices loaded", zap.Int("rows", len(rows)), zap.String("dump", dump))
	return dump, out.Close()
}
