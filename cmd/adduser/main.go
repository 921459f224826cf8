// cmd/adduser/main.go
// Creates or updates a read API user.
//
// Usage:
//
//	go run ./cmd/adduser -username padraic -password testing
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/padraicbc/rpscrape/config"
	bundb "github.com/padraicbc/rpscrape/db"
	"github.com/padraicbc/rpscrape/handlers"
	"github.com/padraicbc/rpscrape/models"
)

func main() {
	username := flag.String("username", "", "username (required)")
	password := flag.String("password", "", "plain-text password (required)")
	flag.Parse()

	hash, err := handlers.HashPasswordForUser(*username, *password)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	cfg := config.Load()
	if err := cfg.RequireDB(); err != nil {
		log.Fatal(err)
	}
	db, err := bundb.Setup(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatal("create tables:", err)
	}

	user := &models.User{
		Username: *username,
		Password: hash,
	}
	_, err = db.NewInsert().Model(user).
		On("CONFLICT (username) DO UPDATE SET password = EXCLUDED.password").
		Exec(ctx)
	if err != nil {
		log.Fatal("insert user:", err)
	}

	fmt.Printf("user %q saved\n", *username)
}
