package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/padraicbc/rpscrape/batch"
	"github.com/padraicbc/rpscrape/config"
	bundb "github.com/padraicbc/rpscrape/db"
	"github.com/padraicbc/rpscrape/output"
)

// maxCardDays is how far ahead racecards are published.
const maxCardDays = 2

type racecardFlags struct {
	day    int
	days   int
	region string
	db     bool
	upload bool
}

var cf racecardFlags

var racecardsCmd = &cobra.Command{
	Use:   "racecards (--day N | --days N)",
	Short: "Scrapes racecards into one JSON file per day.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRacecards(cmd.Context(), cur, cf)
	},
}

func init() {
	f := racecardsCmd.Flags()
	f.IntVar(&cf.day, "day", 0, "single day, 1 is today and 2 tomorrow")
	f.IntVar(&cf.days, "days", 0, "every day from today, up to 2")
	f.StringVarP(&cf.region, "region", "r", "", "region code, see the regions command")
	f.BoolVar(&cf.db, "db", false, "also store every card in postgres")
	f.BoolVar(&cf.upload, "upload", false, "upload the finished files to S3")
	racecardsCmd.MarkFlagsMutuallyExclusive("day", "days")
	racecardsCmd.MarkFlagsOneRequired("day", "days")
	rootCmd.AddCommand(racecardsCmd)
}

// cardDates turns --day or --days into ISO dates counted from today.
func cardDates(f racecardFlags, today time.Time) ([]string, error) {
	n := f.day
	if f.days > 0 {
		n = f.days
	}
	if n < 1 || n > maxCardDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", errUsage, maxCardDays)
	}
	if f.day > 0 {
		return []string{today.AddDate(0, 0, f.day-1).Format(time.DateOnly)}, nil
	}
	out := make([]string, 0, n)
	for i := range n {
		out = append(out, today.AddDate(0, 0, i).Format(time.DateOnly))
	}
	return out, nil
}

func runRacecards(ctx context.Context, a app, f racecardFlags) error {
	dates, err := cardDates(f, time.Now())
	if err != nil {
		return err
	}
	if f.region != "" && !a.ref.ValidRegion(f.region) {
		return fmt.Errorf("%w: unknown region %q", errUsage, f.region)
	}
	settings, err := config.LoadRacecardSettings(a.cfg.SettingsDir)
	if err != nil {
		return err
	}

	fetcher, closeCache, err := a.fetcher(ctx, a.cfg.HTTPRetries)
	if err != nil {
		return err
	}
	defer closeCache()

	b := &batch.Racecards{
		Fetcher:  fetcher,
		Ref:      a.ref,
		Base:     a.cfg.RPBaseURL,
		Settings: settings,
		Workers:  a.cfg.Workers,
		Log:      a.log,
	}
	if f.db {
		db, err := a.database(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		b.Sink = bundb.NewStore(db)
	}

	var written []string
	for _, date := range dates {
		cards, sum, err := b.Day(ctx, date, strings.ToLower(f.region))
		if err != nil {
			return err
		}
		path := output.RacecardPath(a.cfg.DataDir, date)
		if err := output.WriteJSON(path, cards); err != nil {
			return err
		}
		a.log.Info("racecards written", zap.String("date", date), zap.String("output", path), zap.Int("races", sum.Written))
		written = append(written, path)
	}

	if f.upload {
		return a.upload(ctx, written...)
	}
	return nil
}
