package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"go.uber.org/zap"

	"github.com/padraicbc/rpscrape/config"
	"github.com/padraicbc/rpscrape/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(ctx context.Context, cfg *config.Config) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db: connect: %w", err)
	}

	return db, nil
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Course)(nil),
		(*models.Horse)(nil),
		(*models.Person)(nil),
		(*models.Race)(nil),
		(*models.Runner)(nil),
		(*models.Racecard)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	indexes := []struct {
		model interface{}
		name  string
		cols  []string
	}{
		{(*models.Race)(nil), "races_date_idx", []string{"date"}},
		{(*models.Racecard)(nil), "racecards_date_idx", []string{"date"}},
		{(*models.Runner)(nil), "results_horse_idx", []string{"horse_id"}},
	}
	for _, ix := range indexes {
		_, err := db.NewCreateIndex().Model(ix.model).Index(ix.name).IfNotExists().Column(ix.cols...).Exec(ctx)
		if err != nil {
			zap.L().Warn("index", zap.String("name", ix.name), zap.Error(err))
		}
	}

	return nil
}
