// cmd/migrate/main.go
// Copies races, results, courses and users from a legacy MySQL rpData
// database into the PostgreSQL schema.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/rpData?parseTime=true" \
//	DB_PASS="pgpass" \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/padraicbc/rpscrape/config"
	bundb "github.com/padraicbc/rpscrape/db"
	"github.com/padraicbc/rpscrape/models"
	"github.com/padraicbc/rpscrape/reference"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/rpData?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- PostgreSQL ---
	pgDB, err := bundb.Setup(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pgDB.Close()
	log.Println("connected to PostgreSQL")

	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"users", func() (int, error) { return copyRows(ctx, myDB, pgDB, usersSQL, scanUser) }},
		{"courses", func() (int, error) { return copyRows(ctx, myDB, pgDB, coursesSQL, scanCourse) }},
		{"races", func() (int, error) { return copyRows(ctx, myDB, pgDB, racesSQL, scanRace) }},
		{"results", func() (int, error) { return copyRows(ctx, myDB, pgDB, resultsSQL, scanRunner) }},
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			log.Fatalf("migrate %s: %v", s.name, err)
		}
		log.Printf("%-10s  %d rows migrated", s.name, n)
	}

	resetSequences(ctx, pgDB)
	log.Println("migration complete")
}

const (
	usersSQL   = `SELECT id, username, password FROM users`
	coursesSQL = `SELECT courseID, course, isAw, code FROM courses`
	racesSQL   = `SELECT r.raceID, r.courseID, c.course, c.code, r.date, r.time, r.url,
		        COALESCE(r.class, ''), r.distance, r.going
		 FROM races r JOIN courses c ON c.courseID = r.courseID`
	resultsSQL = `SELECT r.raceID, r.horseID, h.horse, r.placed, r.officialRat,
		        r.weightCarried, r.comment
		 FROM results r JOIN horses h ON h.horseID = r.horseID`
)

func scanUser(rows *sql.Rows) (models.User, error) {
	var u models.User
	err := rows.Scan(&u.ID, &u.Username, &u.Password)
	return u, err
}

func scanCourse(rows *sql.Rows) (models.Course, error) {
	var (
		c    models.Course
		id   int
		code string
	)
	if err := rows.Scan(&id, &c.Course, &c.IsAW, &code); err != nil {
		return c, err
	}
	c.CourseID = strconv.Itoa(id)
	c.Region = code
	return c, nil
}

func scanRace(rows *sql.Rows) (models.Race, error) {
	var (
		raceID   int
		courseID int
		date     time.Time
		distance float64
		r        models.Race
	)
	if err := rows.Scan(&raceID, &courseID, &r.Course, &r.Region, &date, &r.Off,
		&r.URL, &r.Class, &distance, &r.Going); err != nil {
		return r, err
	}
	r.RaceID = strconv.Itoa(raceID)
	r.CourseID = strconv.Itoa(courseID)
	r.Date = date.Format(time.DateOnly)
	r.DistF = strconv.FormatFloat(distance, 'f', -1, 64) + "f"
	r.Surface = reference.Surface(r.Going)
	return r, nil
}

func scanRunner(rows *sql.Rows) (models.Runner, error) {
	var (
		raceID  int
		horseID int
		or      sql.NullInt64
		lbs     int
		comment sql.NullString
		r       models.Runner
	)
	if err := rows.Scan(&raceID, &horseID, &r.Horse, &r.Pos, &or, &lbs, &comment); err != nil {
		return r, err
	}
	r.RaceID = strconv.Itoa(raceID)
	r.HorseID = strconv.Itoa(horseID)
	if or.Valid {
		r.OR = strconv.FormatInt(or.Int64, 10)
	}
	r.Lbs = strconv.Itoa(lbs)
	r.Comment = comment.String
	return r, nil
}

// copyRows streams query results into postgres in batches, skipping rows
// that already exist so re-runs are idempotent.
func copyRows[T any](ctx context.Context, myDB *sql.DB, pgDB *bun.DB, query string, scan func(*sql.Rows) (T, error)) (int, error) {
	rows, err := myDB.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	batch := make([]T, 0, batchSize)
	total := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := pgDB.NewInsert().Model(&batch).On("CONFLICT DO NOTHING").Exec(ctx); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return total, err
		}
		batch = append(batch, v)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, rows.Err()
}

// resetSequences advances the users sequence past the copied ids.
func resetSequences(ctx context.Context, pgDB *bun.DB) {
	q := fmt.Sprintf(
		"SELECT setval('%s', COALESCE((SELECT MAX(%s) FROM %s), 1))",
		"users_id_seq", "id", "users",
	)
	if _, err := pgDB.ExecContext(ctx, q); err != nil {
		log.Printf("reset seq users_id_seq: %v", err)
	}
}
