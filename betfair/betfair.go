// Package betfair loads exchange starting prices and joins them onto
// scraped runners.
package betfair

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/rpscrape/clean"
	"github.com/padraicbc/rpscrape/fetch"
	"github.com/padraicbc/rpscrape/models"
)

// ErrUpstream wraps any price file failure other than a missing file.
var ErrUpstream = errors.New("betfair: upstream error")

// Regions are the price file regions, in fetch order.
var Regions = []string{"uk", "ire", "usa", "aus", "fr", "uae"}

const (
	attempts      = 4
	statusOrigin  = 520
	eventLayout   = "02-01-2006 15:04"
	dateLayout    = "2006-01-02"
	fileDateStamp = "02012006"
)

// Source is one daily price file.
type Source struct {
	URL    string
	Region string
}

// Sources lists the price files covering dates, padded by a day either
// side. dates are YYYY-MM-DD.
func Sources(base string, dates []string) ([]Source, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	var lo, hi time.Time
	for i, d := range dates {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("betfair: date %q: %w", d, err)
		}
		if i == 0 || t.Before(lo) {
			lo = t
		}
		if i == 0 || t.After(hi) {
			hi = t
		}
	}

	var out []Source
	for _, region := range Regions {
		for d := lo.AddDate(0, 0, -1); !d.After(hi.AddDate(0, 0, 1)); d = d.AddDate(0, 0, 1) {
			out = append(out, Source{
				URL:    fmt.Sprintf("%s/dwbfprices%swin%s.csv", base, region, d.Format(fileDateStamp)),
				Region: strings.ToUpper(region),
			})
		}
	}
	return out, nil
}

// Client downloads price files.
type Client struct {
	fetcher fetch.Fetcher
	base    string
	wait    time.Duration
	log     *zap.Logger
}

// NewClient returns a Client fetching price files under base, waiting wait
// between rate-limited attempts.
func NewClient(f fetch.Fetcher, base string, wait time.Duration, log *zap.Logger) *Client {
	return &Client{fetcher: f, base: base, wait: wait, log: log}
}

// Load fetches every file covering dates. Missing files are skipped; any
// other upstream failure ends the load.
func (c *Client) Load(ctx context.Context, dates []string) (Map, []models.BSP, error) {
	sources, err := Sources(c.base, dates)
	if err != nil {
		return nil, nil, err
	}

	var rows []models.BSP
	for _, src := range sources {
		got, err := c.file(ctx, src)
		if err != nil {
			return nil, nil, err
		}
		c.log.Debug("price file", zap.String("url", src.URL), zap.Int("rows", len(got)))
		rows = append(rows, got...)
	}
	return NewMap(rows), rows, nil
}

func (c *Client) file(ctx context.Context, src Source) ([]models.BSP, error) {
	for try := 1; ; try++ {
		status, body, err := c.fetcher.Get(ctx, src.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		switch {
		case status == http.StatusOK:
			return Parse(bytes.NewReader(body), src.Region)
		case status == http.StatusNotFound:
			return nil, nil
		case (status == http.StatusTooManyRequests || status == statusOrigin) && try < attempts:
			c.log.Warn("price file throttled", zap.String("url", src.URL), zap.Int("status", status), zap.Int("try", try))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.wait):
			}
		default:
			return nil, fmt.Errorf("%w: %d from %s", ErrUpstream, status, src.URL)
		}
	}
}

// Parse reads a price file. Rows without a readable event time are dropped.
func Parse(r io.Reader, region string) ([]models.BSP, error) {
	if region == "UK" {
		region = "GB"
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: price header: %w", ErrUpstream, err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var rows []models.BSP
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: price row: %w", ErrUpstream, err)
		}
		get := func(name string) string {
			if i, ok := col[name]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		t, err := time.Parse(eventLayout, get("event_dt"))
		if err != nil {
			continue
		}
		rows = append(rows, models.BSP{
			Date:   t.Format(dateLayout),
			Region: region,
			Off:    t.Format("15:04"),
			Horse:  clean.NameForRegion(get("selection_name"), region),
			Prices: models.Prices{
				BSP:        price(get("bsp")),
				WAP:        price(get("ppwap")),
				MorningWAP: price(get("morningwap")),
				PreMin:     get("ppmin"),
				PreMax:     get("ppmax"),
				IPMin:      get("ipmin"),
				IPMax:      get("ipmax"),
				MorningVol: get("morningtradedvol"),
				PreVol:     get("pptradedvol"),
				IPVol:      get("iptradedvol"),
			},
		})
	}
	return rows, nil
}

// price formats an odds figure to two places, "" when unreadable.
func price(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}
