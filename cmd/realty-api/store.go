package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rajivgeraev/realty-api/internal/config"
	"github.com/rajivgeraev/realty-api/internal/db"
	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/services/media"
	"github.com/rajivgeraev/realty-api/internal/services/property"
	"github.com/rajivgeraev/realty-api/internal/storage"
)

// store - всё, что команды требуют от хранилища
type store interface {
	property.Store
	media.Store
	CreateProperty(ctx context.Context, p *models.Property) error
	Migrate(ctx context.Context) error
	Close() error
}

// openStore открывает хранилище, выбранное в STORE_DRIVER
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		return storage.NewPostgresStore(pool), nil
	case config.DriverSQLite:
		s, err := storage.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("SQLite открыта", zap.String("path", cfg.SQLitePath))
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
