// Package batch runs scrapes over many races with bounded concurrency while
// writing output in input order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/padraicbc/rpscrape/betfair"
	"github.com/padraicbc/rpscrape/fetch"
	"github.com/padraicbc/rpscrape/logger"
	"github.com/padraicbc/rpscrape/models"
	"github.com/padraicbc/rpscrape/output"
	"github.com/padraicbc/rpscrape/reference"
	"github.com/padraicbc/rpscrape/scrape"
)

// RaceSink receives every race written to the output file.
type RaceSink interface {
	SaveRace(ctx context.Context, race *models.Race) error
}

// Results scrapes result pages into a CSV file.
type Results struct {
	Fetcher    fetch.Fetcher
	Ref        *reference.Data
	Code       string
	Workers    int
	Prices     betfair.Map
	Projector  *output.Projector
	Writer     *output.Writer
	Checkpoint *output.Checkpoint
	Sink       RaceSink
	// ReadyWait is the pause before refetching a page whose results are not
	// yet published.
	ReadyWait time.Duration
	Log       *zap.Logger
}

// Summary counts what a run did.
type Summary struct {
	RunID   string
	Written int
	Skipped int
	Runners int
}

type outcome struct {
	race *models.Race
	err  error
}

// Run scrapes urls in parallel and writes each race, in the order given, as
// one block of rows. The checkpoint is moved past every race handled, skipped
// or not. Per-race failures are logged and skipped; a write failure ends the
// run.
func (b *Results) Run(ctx context.Context, urls []string) (Summary, error) {
	sum := Summary{RunID: uuid.NewString()}
	log := logger.Run(b.Log, sum.RunID, "results")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make([]chan outcome, len(urls))
	for i := range slots {
		slots[i] = make(chan outcome, 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.Workers, 1))
	go func() {
		for i, u := range urls {
			g.Go(func() error {
				race, err := b.scrape(gctx, u)
				slots[i] <- outcome{race: race, err: err}
				return nil
			})
		}
	}()

	for i, u := range urls {
		var o outcome
		select {
		case o = <-slots[i]:
		case <-ctx.Done():
			return sum, ctx.Err()
		}

		switch {
		case o.err != nil:
			sum.Skipped++
			log.Warn("race skipped", zap.String("url", u), zap.Error(o.err))
		case !Keep(b.Code, o.race):
			log.Debug("race filtered", zap.String("url", u), zap.String("type", o.race.Type))
		default:
			if err := b.write(ctx, o.race); err != nil {
				return sum, err
			}
			sum.Written++
			sum.Runners += len(o.race.Runners)
			log.Debug("race written", zap.String("url", u), zap.String("race_id", o.race.RaceID))
		}

		if b.Checkpoint != nil {
			if err := b.Checkpoint.Save(u); err != nil {
				return sum, err
			}
		}
	}

	if err := g.Wait(); err != nil {
		return sum, err
	}
	log.Info("results done",
		zap.Int("written", sum.Written),
		zap.Int("skipped", sum.Skipped),
		zap.Int("runners", sum.Runners),
		zap.String("output", b.Writer.Path()))
	return sum, nil
}

func (b *Results) scrape(ctx context.Context, url string) (*models.Race, error) {
	var race *models.Race
	for try := 0; try < 2; try++ {
		if try > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(b.ReadyWait):
			}
		}
		doc, err := fetch.Document(ctx, b.Fetcher, url)
		if err != nil {
			return nil, err
		}
		race, err = scrape.ParseRace(url, doc, b.Code, b.Ref)
		if errors.Is(err, scrape.ErrDocumentNotReady) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if b.Prices != nil {
			b.Prices.Join(race)
		}
		return race, nil
	}
	return nil, fmt.Errorf("%w: %s", scrape.ErrDocumentNotReady, url)
}

func (b *Results) write(ctx context.Context, race *models.Race) error {
	if err := b.Writer.WriteRace(b.Projector.Rows(race)); err != nil {
		return err
	}
	if b.Sink != nil {
		if err := b.Sink.SaveRace(ctx, race); err != nil {
			return fmt.Errorf("batch: save race %s: %w", race.RaceID, err)
		}
	}
	return nil
}

// Keep applies the race code filter: "flat" keeps flat races, "jumps"
// keeps the rest, anything else keeps everything.
func Keep(code string, race *models.Race) bool {
	switch code {
	case "flat":
		return race.Type == models.TypeFlat
	case "jumps":
		return race.Type != models.TypeFlat
	}
	return true
}
