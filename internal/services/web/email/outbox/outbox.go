// Package outbox records outgoing email in SQLite for local development, in
// place of a delivery provider.
package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/spawnbot/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/spawnbot/internal/services/web/email"
	"github.com/louisbranch/spawnbot/internal/services/web/email/outbox/migrations"
	_ "modernc.org/sqlite"
)

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 50

var _ email.Sender = (*Store)(nil)

// Record is one stored message.
type Record struct {
	ID        int64
	Message   email.Message
	CreatedAt time.Time
}

// Store persists outgoing messages.
type Store struct {
	sqlDB  *sql.DB
	now    func() time.Time
	logger *log.Logger
}

// Open opens the outbox at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now, logger: log.Default()}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Send records msg and logs its recipient and subject.
func (s *Store) Send(ctx context.Context, msg email.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return fmt.Errorf("recipient is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO outbox_messages (sender, recipient, subject, html, created_at) VALUES (?, ?, ?, ?, ?)`,
		strings.TrimSpace(msg.From), to, msg.Subject, msg.HTML, s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert outbox message: %w", err)
	}
	s.logger.Printf("outbox: to=%s subject=%q", to, msg.Subject)
	return nil
}

// List returns the most recent messages, newest first. A blank recipient
// lists every message.
func (s *Store) List(ctx context.Context, recipient string, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query := `SELECT id, sender, recipient, subject, html, created_at FROM outbox_messages`
	args := []any{}
	if recipient = strings.TrimSpace(recipient); recipient != "" {
		query += ` WHERE recipient = ?`
		args = append(args, recipient)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list outbox messages: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var record Record
		var createdAt int64
		if err := rows.Scan(&record.ID, &record.Message.From, &record.Message.To, &record.Message.Subject, &record.Message.HTML, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outbox message: %w", err)
		}
		record.CreatedAt = time.UnixMilli(createdAt).UTC()
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox messages: %w", err)
	}
	return records, nil
}
