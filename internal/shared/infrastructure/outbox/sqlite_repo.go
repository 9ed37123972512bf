package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database/sqlite"
	"github.com/google/uuid"
)

const sqliteColumns = `id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
	payload, metadata, created_at, published_at, next_retry_at, retry_count,
	last_error, dead_lettered_at, dead_letter_reason`

// SQLiteRepository stores messages in the local database.
type SQLiteRepository struct {
	conn database.Connection
}

func NewSQLiteRepository(conn database.Connection) *SQLiteRepository {
	return &SQLiteRepository{conn: conn}
}

func (r *SQLiteRepository) Save(ctx context.Context, msgs ...*Message) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	for _, m := range msgs {
		var id int64
		err := exec.QueryRow(ctx, `
			INSERT INTO outbox (event_id, aggregate_type, aggregate_id, event_type, routing_key, payload, metadata, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			m.EventID.String(), m.AggregateType, m.AggregateID.String(), m.EventType, m.RoutingKey,
			string(m.Payload), string(m.Metadata), sqlite.FormatTime(m.CreatedAt),
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("save outbox message %s: %w", m.RoutingKey, err)
		}
		m.ID = id
	}
	return nil
}

func (r *SQLiteRepository) Pending(ctx context.Context, now time.Time, limit int) ([]*Message, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT `+sqliteColumns+`
		FROM outbox
		WHERE published_at IS NULL AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at, id
		LIMIT ?`,
		sqlite.FormatTime(now), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending outbox: %w", err)
	}
	defer rows.Close()

	var out []*Message
	for rows.Next() {
		m, err := scanSQLiteMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MarkPublished(ctx context.Context, id int64, at time.Time) error {
	return r.exec(ctx, `UPDATE outbox SET published_at = ? WHERE id = ?`, sqlite.FormatTime(at), id)
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error {
	return r.exec(ctx, `
		UPDATE outbox SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ?
		WHERE id = ?`,
		reason, sqlite.FormatTime(nextRetryAt), id)
}

func (r *SQLiteRepository) MarkDead(ctx context.Context, id int64, reason string, at time.Time) error {
	return r.exec(ctx, `
		UPDATE outbox SET retry_count = retry_count + 1, last_error = ?, dead_lettered_at = ?, dead_letter_reason = ?
		WHERE id = ?`,
		reason, sqlite.FormatTime(at), reason, id)
}

func (r *SQLiteRepository) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`, sqlite.FormatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("purge outbox: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func scanSQLiteMessage(row database.Row) (*Message, error) {
	var (
		m                                   Message
		eventID, aggregateID, payload, meta string
		createdAt                           string
		publishedAt, nextRetryAt, deadAt    sql.NullString
		lastError, deadReason               sql.NullString
	)
	err := row.Scan(&m.ID, &eventID, &m.AggregateType, &aggregateID, &m.EventType, &m.RoutingKey,
		&payload, &meta, &createdAt, &publishedAt, &nextRetryAt, &m.RetryCount,
		&lastError, &deadAt, &deadReason)
	if err != nil {
		return nil, fmt.Errorf("scan outbox message: %w", err)
	}

	if m.EventID, err = uuid.Parse(eventID); err != nil {
		return nil, err
	}
	if m.AggregateID, err = uuid.Parse(aggregateID); err != nil {
		return nil, err
	}
	m.Payload = []byte(payload)
	m.Metadata = []byte(meta)
	if m.CreatedAt, err = sqlite.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if m.PublishedAt, err = sqlite.ParseNullTime(publishedAt); err != nil {
		return nil, err
	}
	if m.NextRetryAt, err = sqlite.ParseNullTime(nextRetryAt); err != nil {
		return nil, err
	}
	if m.DeadLetteredAt, err = sqlite.ParseNullTime(deadAt); err != nil {
		return nil, err
	}
	if lastError.Valid {
		m.LastError = &lastError.String
	}
	if deadReason.Valid {
		m.DeadLetterReason = &deadReason.String
	}
	return &m, nil
}
