package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
)

func main() {
	rollback := flag.Bool("rollback", false, "Roll back the last migration")
	steps := flag.Int("steps", 0, "Apply (or with -rollback, revert) only this many migrations")
	flag.Parse()

	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("failed to load configuration: %v", err)
		}
		if cfg.Database.Driver != "postgres" {
			log.Fatal("migrations are only managed for postgres; sqlite is auto-migrated at startup")
		}
		dsn = cfg.Database.URL()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	m, err := database.NewMigrator(db)
	if err != nil {
		log.Fatal(err)
	}

	switch {
	case *rollback:
		n := *steps
		if n <= 0 {
			n = 1
		}
		err = m.Steps(-n)
	case *steps > 0:
		err = m.Steps(*steps)
	default:
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migration failed: %v", err)
	}

	version, dirty, verr := m.Version()
	switch {
	case errors.Is(verr, migrate.ErrNilVersion):
		fmt.Println("No migrations applied.")
	case verr != nil:
		log.Fatalf("failed to read migration version: %v", verr)
	default:
		fmt.Printf("Database at version %d (dirty=%t)\n", version, dirty)
	}
}
