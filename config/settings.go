package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var ErrUnknownGroup = errors.New("config: unknown field group")

// Settings is the ordered list of output fields chosen in the settings file.
type Settings struct {
	Fields      []string
	BetfairData bool

	betfair []string
}

type settingsFile struct {
	BetfairData bool                       `toml:"betfair_data"`
	Fields      map[string]map[string]bool `toml:"fields"`
}

// LoadSettings reads user_settings.toml from dir, falling back to
// default_settings.toml.
func LoadSettings(dir string) (*Settings, error) {
	path, err := pick(dir, "user_settings.toml", "default_settings.toml")
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	s, err := ParseSettings(string(b))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return s, nil
}

// ParseSettings decodes a settings document. Field order follows the order
// keys appear in the document, group by group.
func ParseSettings(doc string) (*Settings, error) {
	var f settingsFile
	md, err := toml.Decode(doc, &f)
	if err != nil {
		return nil, err
	}

	s := &Settings{BetfairData: f.BetfairData}
	for _, key := range md.Keys() {
		if len(key) != 3 || key[0] != "fields" {
			continue
		}
		group, field := key[1], key[2]
		if group == "betfair" && !f.BetfairData {
			if f.Fields[group][field] {
				s.betfair = append(s.betfair, field)
			}
			continue
		}
		if f.Fields[group][field] {
			s.Fields = append(s.Fields, field)
		}
	}
	return s, nil
}

// EnableBetfair turns on price joining for a run, appending the betfair
// group fields the file left out.
func (s *Settings) EnableBetfair() {
	if s.BetfairData {
		return
	}
	s.BetfairData = true
	s.Fields = append(s.Fields, s.betfair...)
	s.betfair = nil
}

// Header is the CSV header line for the configured fields.
func (s *Settings) Header() string {
	return strings.Join(s.Fields, ",")
}

// RacecardGroups are the runner field groups a racecard can include.
var RacecardGroups = []string{
	"core", "basic_info", "performance", "jockey", "trainer", "weight",
	"equipment", "breeding", "ownership", "comments", "status", "silk",
	"profile", "stats", "history", "medical", "quotes",
}

// RacecardSettings controls which side documents are fetched for racecards
// and which runner field groups are kept.
type RacecardSettings struct {
	FetchProfiles bool
	FetchStats    bool
	groups        map[string]bool
}

type racecardFile struct {
	DataCollection struct {
		FetchProfiles bool `toml:"fetch_profiles"`
		FetchStats    bool `toml:"fetch_stats"`
	} `toml:"data_collection"`
	FieldGroups map[string]bool `toml:"field_groups"`
}

// LoadRacecardSettings reads user_racecard_settings.toml or
// default_racecard_settings.toml from dir. With neither present every group
// is enabled and no side documents are fetched.
func LoadRacecardSettings(dir string) (*RacecardSettings, error) {
	path, err := pick(dir, "user_racecard_settings.toml", "default_racecard_settings.toml")
	if errors.Is(err, os.ErrNotExist) {
		return &RacecardSettings{}, nil
	}
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	rs, err := ParseRacecardSettings(string(b))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return rs, nil
}

// ParseRacecardSettings decodes a racecard settings document. A non-empty
// field_groups table must name only known groups and must list every one.
func ParseRacecardSettings(doc string) (*RacecardSettings, error) {
	var f racecardFile
	if _, err := toml.Decode(doc, &f); err != nil {
		return nil, err
	}

	rs := &RacecardSettings{
		FetchProfiles: f.DataCollection.FetchProfiles,
		FetchStats:    f.DataCollection.FetchStats,
	}
	if len(f.FieldGroups) == 0 {
		return rs, nil
	}

	known := make(map[string]bool, len(RacecardGroups))
	for _, g := range RacecardGroups {
		known[g] = true
		if _, ok := f.FieldGroups[g]; !ok {
			return nil, fmt.Errorf("%w: %s not listed", ErrUnknownGroup, g)
		}
	}
	for g := range f.FieldGroups {
		if !known[g] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownGroup, g)
		}
	}
	rs.groups = f.FieldGroups
	return rs, nil
}

// Include reports whether a runner field group is enabled.
func (r *RacecardSettings) Include(group string) bool {
	if len(r.groups) == 0 {
		return true
	}
	return r.groups[group]
}

func pick(dir string, names ...string) (string, error) {
	for _, n := range names {
		p := filepath.Join(dir, n)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: none of %v in %s: %w", names, dir, os.ErrNotExist)
}
