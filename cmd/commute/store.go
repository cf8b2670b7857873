package main

import (
	"commute-planner/internal/adapters/repositories"
	"commute-planner/internal/config"
	"commute-planner/internal/platform/db"
	"commute-planner/internal/ports"
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

var storeOpener = openStore

// openStore returns the configured result store and its close func.
// Driver "none" yields a nil store.
func openStore(ctx context.Context, cfg config.StoreConfig) (ports.ResultStore, func(), error) {
	switch cfg.Driver {
	case "", "none":
		return nil, func() {}, nil

	case "sqlite":
		conn, err := db.OpenSQLite(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitSchema(conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return repositories.NewSQLiteResultStore(conn), closeDB(conn), nil

	case "postgres":
		// Schema is created by cmd/dbtool.
		conn, err := db.OpenPostgres(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewPostgresResultStore(conn), closeDB(conn), nil

	case "mongo":
		client, err := repositories.OpenMongo(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logrus.WithError(err).Warn("mongo disconnect failed")
			}
		}
		return repositories.NewMongoResultStore(client.Database(cfg.Database)), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("open store: unknown driver %q", cfg.Driver)
	}
}

func closeDB(conn *sql.DB) func() {
	return func() {
		if err := conn.Close(); err != nil {
			logrus.WithError(err).Warn("database close failed")
		}
	}
}
