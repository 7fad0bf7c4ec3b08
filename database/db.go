package database

import (
	"fmt"
	"log/slog" // use slog for structured logging

	"whattheygot/internal/config"
	"whattheygot/internal/http-api/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ConnectDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	gormLogLevel := logger.Warn
	if cfg.IsDevelopment() {
		gormLogLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel),
		// Map driver errors onto gorm's sentinels (ErrDuplicatedKey et al) so
		// repositories can errors.Is against them
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify the connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Connected to the database successfully")
	return db, nil
}

func Migrate(db *gorm.DB, log *slog.Logger) error {
	err := db.AutoMigrate(
		&models.MenuItem{},
		&models.Review{},
		&models.BannedDevice{},
		&models.ModerationEvent{},
		&models.Announcement{},
		&models.Poll{},
		&models.PollOption{},
		&models.PollVote{},
	)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// The unique index on banned_devices.device_id_hash is what the
	// upsert-with-strike-increment keys off; AutoMigrate creates it from the
	// model tag, this is a guard for databases migrated before the tag existed.
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_banned_devices_device_id_hash ON banned_devices(device_id_hash)")

	log.Info("Database migrations applied successfully")
	return nil
}
