package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/padraicbc/rpscrape/models"
	"github.com/padraicbc/rpscrape/reference"
)

// Store persists scraped races and racecards. Every save is an upsert so a
// re-run of the same day replaces what was stored before.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// SaveRace writes a race, its runners and the courses, horses and people it
// mentions in one transaction.
func (s *Store) SaveRace(ctx context.Context, race *models.Race) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		course := courseOf(race)
		if _, err := tx.NewInsert().Model(course).
			On("CONFLICT (course_id) DO UPDATE").
			Set("course = EXCLUDED.course").
			Set("region = EXCLUDED.region").
			Set("is_aw = c.is_aw OR EXCLUDED.is_aw").
			Exec(ctx); err != nil {
			return fmt.Errorf("db: course %s: %w", race.CourseID, err)
		}

		if _, err := tx.NewInsert().Model(race).On("CONFLICT (race_id) DO UPDATE").Exec(ctx); err != nil {
			return fmt.Errorf("db: race %s: %w", race.RaceID, err)
		}
		if len(race.Runners) == 0 {
			return nil
		}

		if _, err := tx.NewInsert().Model(&race.Runners).
			On("CONFLICT (race_id, horse_id) DO UPDATE").
			Exec(ctx); err != nil {
			return fmt.Errorf("db: results %s: %w", race.RaceID, err)
		}

		if horses := horsesOf(race); len(horses) > 0 {
			if _, err := tx.NewInsert().Model(&horses).
				On("CONFLICT (horse_id) DO UPDATE").
				Exec(ctx); err != nil {
				return fmt.Errorf("db: horses %s: %w", race.RaceID, err)
			}
		}

		if people := peopleOf(race); len(people) > 0 {
			if _, err := tx.NewInsert().Model(&people).
				On("CONFLICT (role, person_id) DO UPDATE").
				Set("name = EXCLUDED.name").
				Exec(ctx); err != nil {
				return fmt.Errorf("db: people %s: %w", race.RaceID, err)
			}
		}
		return nil
	})
}

// SaveRacecard upserts a racecard with its runners stored as jsonb.
func (s *Store) SaveRacecard(ctx context.Context, card *models.Racecard) error {
	runners, err := json.Marshal(card.Runners)
	if err != nil {
		return fmt.Errorf("db: racecard %d: %w", card.RaceID, err)
	}
	card.RunnersJSON = runners

	if _, err := s.db.NewInsert().Model(card).On("CONFLICT (race_id) DO UPDATE").Exec(ctx); err != nil {
		return fmt.Errorf("db: racecard %d: %w", card.RaceID, err)
	}
	return nil
}

// RacesByDate returns the races run on date (YYYY-MM-DD) with their runners.
func (s *Store) RacesByDate(ctx context.Context, date string) ([]models.Race, error) {
	var races []models.Race
	err := s.db.NewSelect().
		Model(&races).
		ExcludeColumn("date").
		ColumnExpr("rc.date::text AS date").
		Relation("Runners", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("NULLIF(r.num, '')::int NULLS LAST").OrderExpr("r.horse_id")
		}).
		Where("rc.date = ?", date).
		OrderExpr("rc.course ASC, rc.off ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("db: races %s: %w", date, err)
	}
	return races, nil
}

// RacecardsByDate returns the stored racecards for date with their runners
// decoded.
func (s *Store) RacecardsByDate(ctx context.Context, date string) ([]models.Racecard, error) {
	var cards []models.Racecard
	err := s.db.NewSelect().
		Model(&cards).
		ExcludeColumn("date").
		ColumnExpr("rcd.date::text AS date").
		Where("rcd.date = ?", date).
		OrderExpr("rcd.region ASC, rcd.course ASC, rcd.off_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("db: racecards %s: %w", date, err)
	}

	for i := range cards {
		if err := json.Unmarshal(cards[i].RunnersJSON, &cards[i].Runners); err != nil {
			return nil, fmt.Errorf("db: racecard %d runners: %w", cards[i].RaceID, err)
		}
	}
	return cards, nil
}

// Courses returns every stored course ordered by name.
func (s *Store) Courses(ctx context.Context, region string) ([]models.Course, error) {
	var courses []models.Course
	q := s.db.NewSelect().Model(&courses).OrderExpr("c.course ASC")
	if region != "" {
		q = q.Where("c.region = ?", region)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("db: courses: %w", err)
	}
	return courses, nil
}

func courseOf(race *models.Race) *models.Course {
	return &models.Course{
		CourseID: race.CourseID,
		Course:   race.Course,
		Region:   race.Region,
		IsAW:     race.Surface == reference.SurfaceAW,
	}
}

func horsesOf(race *models.Race) []models.Horse {
	seen := make(map[string]bool, len(race.Runners))
	var out []models.Horse
	for _, r := range race.Runners {
		if r.HorseID == "" || seen[r.HorseID] {
			continue
		}
		seen[r.HorseID] = true
		out = append(out, models.Horse{
			HorseID:   r.HorseID,
			Horse:     r.Horse,
			Sex:       r.Sex,
			SireID:    r.SireID,
			DamID:     r.DamID,
			DamsireID: r.DamsireID,
			LastRace:  race.RaceID,
		})
	}
	return out
}

// peopleOf collects the jockeys and trainers of a race. A person appears once
// per role even when riding or training several runners.
func peopleOf(race *models.Race) []models.Person {
	type key struct{ role, id string }
	seen := make(map[key]bool)
	var out []models.Person
	add := func(role, id, name string) {
		k := key{role, id}
		if id == "" || seen[k] {
			return
		}
		seen[k] = true
		out = append(out, models.Person{Role: role, ID: id, Name: name})
	}
	for _, r := range race.Runners {
		add(models.RoleJockey, r.JockeyID, r.Jockey)
		add(models.RoleTrainer, r.TrainerID, r.Trainer)
	}
	return out
}
