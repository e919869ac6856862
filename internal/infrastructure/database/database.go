package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"webhook-gateway/internal/config"
)

type Database struct {
	DB     *sql.DB
	logger *zap.Logger
}

func NewDatabase(cfg *config.Config, logger *zap.Logger) (*Database, error) {
	// Build PostgreSQL connection string
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	db, err := sql.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connected successfully",
		zap.String("driver", cfg.Database.Driver),
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("dbname", cfg.Database.DBName),
	)

	database := &Database{
		DB:     db,
		logger: logger,
	}

	// Run migrations
	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return database, nil
}

func (d *Database) migrate() error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS webhook_logs (
		id BIGSERIAL PRIMARY KEY,
		time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		endpoint VARCHAR(255) NOT NULL,
		method VARCHAR(10) NOT NULL,
		headers TEXT NOT NULL DEFAULT '{}',
		params TEXT NOT NULL DEFAULT '{}',
		files TEXT NOT NULL DEFAULT '{}',
		response TEXT NOT NULL DEFAULT '',
		status_code SMALLINT NOT NULL,
		source_address VARCHAR(45) NOT NULL DEFAULT '',
		direction VARCHAR(10) NOT NULL DEFAULT 'incoming'
	);
	`

	_, err := d.DB.Exec(createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create webhook_logs table: %w", err)
	}

	// Create indexes separately (PostgreSQL doesn't support IF NOT EXISTS in same statement)
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_webhook_logs_time ON webhook_logs(time);`,
		`CREATE INDEX IF NOT EXISTS idx_webhook_logs_endpoint ON webhook_logs(endpoint);`,
		`CREATE INDEX IF NOT EXISTS idx_webhook_logs_status_code ON webhook_logs(status_code);`,
	}
	for _, createIndexSQL := range indexes {
		if _, err := d.DB.Exec(createIndexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	d.logger.Info("Database migrations completed successfully")
	return nil
}

func (d *Database) Close() error {
	return d.DB.Close()
}
