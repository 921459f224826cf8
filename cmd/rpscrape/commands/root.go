package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/rpscrape/blob"
	"github.com/padraicbc/rpscrape/config"
	bundb "github.com/padraicbc/rpscrape/db"
	"github.com/padraicbc/rpscrape/fetch"
	applog "github.com/padraicbc/rpscrape/logger"
	"github.com/padraicbc/rpscrape/reference"
)

// app is what every command needs, built once before the command runs.
type app struct {
	cfg *config.Config
	log *zap.Logger
	ref *reference.Data
}

var cur app

var rootCmd = &cobra.Command{
	Use:           "rpscrape",
	Short:         "rpscrape scrapes race results and racecards into CSV and JSON files.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger, err := applog.New(cfg.Debug)
		if err != nil {
			return err
		}
		zap.ReplaceGlobals(logger)

		ref, err := reference.Load(cfg.CoursesFile)
		if err != nil {
			return err
		}
		cur = app{cfg: cfg, log: logger, ref: ref}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cur.log != nil {
			_ = cur.log.Sync()
		}
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// fetcher builds the page fetcher. attempts of 1 disables transport retries
// for callers that run their own retry loop. With REDIS_ADDR set, responses
// are cached; the returned func releases the cache connection.
func (a app) fetcher(ctx context.Context, attempts int) (fetch.Fetcher, func(), error) {
	opts := fetch.Options{
		UserAgent: a.cfg.UserAgent,
		Timeout:   a.cfg.HTTPTimeout,
		Attempts:  attempts,
		RetryWait: a.cfg.RetryWait,
	}
	if a.cfg.HasSession() {
		opts.Cookies = fetch.SessionCookies(a.cfg.RPEmail, a.cfg.RPAuthState, a.cfg.RPAccessToken)
	}
	var f fetch.Fetcher = fetch.NewHTTP(opts)
	if a.cfg.RedisAddr == "" {
		return f, func() {}, nil
	}

	store, err := fetch.NewRedisStore(ctx, a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	a.log.Debug("document cache enabled", zap.String("addr", a.cfg.RedisAddr), zap.Duration("ttl", a.cfg.CacheTTL))
	return fetch.NewCached(f, store, a.cfg.CacheTTL), func() { _ = store.Close() }, nil
}

// database opens postgres and makes sure the schema exists.
func (a app) database(ctx context.Context) (*bun.DB, error) {
	if err := a.cfg.RequireDB(); err != nil {
		return nil, err
	}
	db, err := bundb.Setup(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	if err := bundb.CreateTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// upload sends finished files to the configured bucket.
func (a app) upload(ctx context.Context, paths ...string) error {
	client, err := blob.New(ctx, a.cfg)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if _, err := client.Upload(ctx, p, blob.Key(a.cfg.DataDir, p)); err != nil {
			return err
		}
	}
	return nil
}
