package handlers

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/padraicbc/rpscrape/models"
	"github.com/padraicbc/rpscrape/reference"
)

// Reader is the stored data the read API serves.
type Reader interface {
	RacesByDate(ctx context.Context, date string) ([]models.Race, error)
	RacecardsByDate(ctx context.Context, date string) ([]models.Racecard, error)
	Courses(ctx context.Context, region string) ([]models.Course, error)
}

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db     *bun.DB
	store  Reader
	ref    *reference.Data
	JWTKey []byte
}

// New creates a Handler. db is only used for sign-in and may be nil in tests
// that never reach it.
func New(db *bun.DB, store Reader, ref *reference.Data, jwtKey []byte) *Handler {
	return &Handler{db: db, store: store, ref: ref, JWTKey: jwtKey}
}
