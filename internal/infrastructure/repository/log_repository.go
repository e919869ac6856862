package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"webhook-gateway/internal/domain/entity"
	"webhook-gateway/internal/infrastructure/database"
)

// LogRepository is the append-only store of request and delivery records.
type LogRepository interface {
	// Save inserts one log entry.
	Save(ctx context.Context, log *entity.LogEntry) error
	// FindRecent returns up to limit entries ordered by time descending,
	// skipping offset entries.
	FindRecent(ctx context.Context, limit, offset int) ([]entity.LogEntry, error)
	// Truncate deletes all entries. Irreversible.
	Truncate(ctx context.Context) error
}

type logRepository struct {
	db     *database.Database
	logger *zap.Logger
}

// NewLogRepository creates a new webhook log repository
func NewLogRepository(db *database.Database, logger *zap.Logger) LogRepository {
	return &logRepository{
		db:     db,
		logger: logger,
	}
}

// Save saves a webhook log entry to the database
func (r *logRepository) Save(ctx context.Context, log *entity.LogEntry) error {
	query := `
		INSERT INTO webhook_logs (time, endpoint, method, headers, params, files, response, status_code, source_address, direction)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		log.Time,
		log.Endpoint,
		log.Method,
		log.Headers,
		log.Params,
		log.Files,
		log.Response,
		log.StatusCode,
		log.SourceAddress,
		log.Direction,
	)

	if err != nil {
		r.logger.Error("Failed to save webhook log",
			zap.String("endpoint", log.Endpoint),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save webhook log: %w", err)
	}

	return nil
}

func (r *logRepository) FindRecent(ctx context.Context, limit, offset int) ([]entity.LogEntry, error) {
	query := `
		SELECT id, time, endpoint, method, headers, params, files, response, status_code, source_address, direction
		FROM webhook_logs
		ORDER BY time DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query webhook logs: %w", err)
	}
	defer rows.Close()

	logs := []entity.LogEntry{}
	for rows.Next() {
		var log entity.LogEntry
		if err := rows.Scan(
			&log.ID,
			&log.Time,
			&log.Endpoint,
			&log.Method,
			&log.Headers,
			&log.Params,
			&log.Files,
			&log.Response,
			&log.StatusCode,
			&log.SourceAddress,
			&log.Direction,
		); err != nil {
			return nil, fmt.Errorf("failed to scan webhook log: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read webhook logs: %w", err)
	}

	return logs, nil
}

func (r *logRepository) Truncate(ctx context.Context) error {
	if _, err := r.db.DB.ExecContext(ctx, `TRUNCATE TABLE webhook_logs`); err != nil {
		return fmt.Errorf("failed to truncate webhook logs: %w", err)
	}

	r.logger.Info("Webhook logs truncated")
	return nil
}
