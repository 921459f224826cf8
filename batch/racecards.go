package batch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/padraicbc/rpscrape/config"
	"github.com/padraicbc/rpscrape/fetch"
	"github.com/padraicbc/rpscrape/logger"
	"github.com/padraicbc/rpscrape/models"
	"github.com/padraicbc/rpscrape/reference"
	"github.com/padraicbc/rpscrape/scrape"
)

// CardSink receives every racecard built.
type CardSink interface {
	SaveRacecard(ctx context.Context, card *models.Racecard) error
}

// Racecards builds the racecards for one day.
type Racecards struct {
	Fetcher  fetch.Fetcher
	Ref      *reference.Data
	Base     string
	Settings *config.RacecardSettings
	Workers  int
	Sink     CardSink
	Log      *zap.Logger
}

// Day lists and builds every racecard for date (YYYY-MM-DD). A card that
// cannot be built is logged and left out.
func (b *Racecards) Day(ctx context.Context, date, region string) (scrape.Racecards, Summary, error) {
	sum := Summary{RunID: uuid.NewString()}
	log := logger.Run(b.Log, sum.RunID, "racecards").With(zap.String("date", date))

	doc, err := fetch.Document(ctx, b.Fetcher, b.Base+"/racecards/"+date)
	if err != nil {
		return nil, sum, err
	}
	links := scrape.CardLinks(doc, region, b.Ref)

	cards := make([]*models.Racecard, len(links))
	errs := make([]error, len(links))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.Workers, 1))
	for i, link := range links {
		g.Go(func() error {
			cards[i], errs[i] = b.card(gctx, date, link)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, sum, err
	}

	out := scrape.Racecards{}
	for i, card := range cards {
		if errs[i] != nil {
			sum.Skipped++
			log.Warn("racecard skipped", zap.String("url", b.Base+links[i].Href), zap.String("race_id", links[i].RaceID), zap.Error(errs[i]))
			continue
		}
		if b.Sink != nil {
			if err := b.Sink.SaveRacecard(ctx, card); err != nil {
				return nil, sum, fmt.Errorf("batch: save racecard %d: %w", card.RaceID, err)
			}
		}
		out.Add(card)
		sum.Written++
		sum.Runners += len(card.Runners)
	}
	log.Info("racecards done", zap.Int("written", sum.Written), zap.Int("skipped", sum.Skipped))
	return out, sum, nil
}

func (b *Racecards) card(ctx context.Context, date string, link scrape.CardLink) (*models.Racecard, error) {
	url := b.Base + link.Href
	page, err := fetch.Body(ctx, b.Fetcher, url)
	if err != nil {
		return nil, err
	}
	runners, err := fetch.Body(ctx, b.Fetcher, b.Base+"/profile/horse/data/cardrunners/"+link.RaceID+".json")
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	card := scrape.Card{
		RaceID:  link.RaceID,
		URL:     url,
		Date:    date,
		Page:    doc,
		Runners: runners,
	}

	if b.Settings.FetchStats {
		card.Stats = b.stats(ctx, link.RaceID)
	}
	if b.Settings.FetchProfiles {
		card.Profiles = b.profiles(ctx, doc)
	}
	return scrape.ParseRacecard(card, b.Ref, b.Settings)
}

// stats is best effort: a missing accordion leaves the card without stats.
func (b *Racecards) stats(ctx context.Context, raceID string) *scrape.Stats {
	url := b.Base + "/racecards/data/accordion/" + raceID
	status, body, err := b.Fetcher.Get(ctx, url)
	if err != nil || status != http.StatusOK {
		b.Log.Debug("no stats", zap.String("url", url), zap.Int("status", status), zap.Error(err))
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	return scrape.ParseStats(doc)
}

// profiles fetches each runner's form page. Pages that fail are left out
// and their runners keep empty profile fields.
func (b *Racecards) profiles(ctx context.Context, doc *goquery.Document) map[int]*scrape.Profile {
	out := map[int]*scrape.Profile{}
	for _, url := range scrape.ProfileLinks(doc, b.Base) {
		body, err := fetch.Body(ctx, b.Fetcher, url)
		if err != nil {
			b.Log.Warn("profile fetch failed", zap.String("url", url), zap.Error(err))
			continue
		}
		p, err := scrape.ParseProfile(url, body)
		if err != nil {
			b.Log.Warn("profile parse failed", zap.String("url", url), zap.Error(err))
			continue
		}
		out[p.HorseUID] = p
	}
	return out
}
