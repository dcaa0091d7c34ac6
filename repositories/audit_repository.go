package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/blogem/venmo-login/models"
)

// AuditRepository handles audit log persistence
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLogEntry) error
	Recent(ctx context.Context, limit int) ([]models.AuditLogEntry, error)
}

type sqliteAuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &sqliteAuditRepository{db: db}
}

// Create inserts a new audit log entry
func (r *sqliteAuditRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO audit_log (timestamp, username, method, path, form_data, user_agent, ip_address)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	result, err := r.db.ExecContext(ctx,
		query,
		entry.Timestamp,
		entry.Username,
		entry.Method,
		entry.Path,
		entry.FormData,
		entry.UserAgent,
		entry.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get audit log entry ID: %w", err)
	}
	entry.ID = id

	return nil
}

// Recent returns the newest audit log entries first
func (r *sqliteAuditRepository) Recent(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	query := `
		SELECT id, timestamp, username, method, path, form_data, user_agent, ip_address
		FROM audit_log
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditLogEntry
	for rows.Next() {
		var entry models.AuditLogEntry
		var formData, userAgent, ipAddress sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.Timestamp,
			&entry.Username,
			&entry.Method,
			&entry.Path,
			&formData,
			&userAgent,
			&ipAddress,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit log entry: %w", err)
		}

		entry.FormData = formData.String
		entry.UserAgent = userAgent.String
		entry.IPAddress = ipAddress.String

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log: %w", err)
	}

	return entries, nil
}
