package cmd

import (
	"fmt"
	"log/slog"

	"fooddelivery/internal/adapters/out/memory"
	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/core/ports"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenStorage returns the configured backend and a function releasing it.
// The postgres schema is migrated before returning.
func OpenStorage(cfg Config, logger *slog.Logger) (ports.UnitOfWorkFactory, func(), error) {
	if cfg.Storage == StorageMemory {
		logger.Warn("using in-memory storage, orders are lost on restart")
		return memory.NewUnitOfWorkFactory(memory.NewStore()), func() {}, nil
	}

	db, err := gorm.Open(gormpostgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql.DB: %w", err)
	}
	closeDB := func() {
		if err := sqlDB.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}

	if err := postgres.Migrate(db); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("migrate schema: %w", err)
	}

	return postgres.NewGormUnitOfWorkFactory(db), closeDB, nil
}
