package main

import (
	"commute-planner/internal/adapters/repositories"
	"commute-planner/internal/config"
	"commute-planner/internal/platform/db"
	"database/sql"
	"flag"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// dbtool creates the run tables in a Postgres or SQLite database.
func main() {
	driver := flag.String("driver", "postgres", "postgres or sqlite")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found (using environment variables)")
	}

	dsn := config.Get("COMMUTE_STORE_DSN", "")
	if strings.TrimSpace(dsn) == "" {
		logrus.Fatal("COMMUTE_STORE_DSN is required")
	}

	var (
		conn *sql.DB
		err  error
	)
	switch *driver {
	case "postgres":
		conn, err = db.OpenPostgres(dsn)
	case "sqlite":
		conn, err = db.OpenSQLite(dsn)
	default:
		logrus.Fatalf("unknown driver %q", *driver)
	}
	if err != nil {
		logrus.Fatal(err)
	}
	defer conn.Close()

	logrus.Info("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		logrus.Fatalf("schema initialization failed: %v", err)
	}
	logrus.Info("Schema ready.")
}
