package main

import (
	"context"
	"fmt"

	"news_portal/internal/config"
	"news_portal/internal/store"
	"news_portal/internal/store/badgerdb"
	"news_portal/internal/store/memory"
	"news_portal/internal/store/postgres"
)

// openStore открывает хранилище, выбранное в storage.driver.
func openStore(ctx context.Context, cfg config.Storage) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return db, nil
	case config.DriverBadger:
		db, err := badgerdb.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("badger: %w", err)
		}
		return db, nil
	}
	return nil, fmt.Errorf("unknown storage driver: %q", cfg.Driver)
}

func migratePostgres(ctx context.Context, dsn string) error {
	db, err := postgres.NewDB(ctx, dsn)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
