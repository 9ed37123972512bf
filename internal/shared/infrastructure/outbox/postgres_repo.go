package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database"
)

const postgresColumns = `id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
	payload, metadata, created_at, published_at, next_retry_at, retry_count,
	last_error, dead_lettered_at, dead_letter_reason`

// PostgresRepository stores messages in the server database.
type PostgresRepository struct {
	conn database.Connection
}

func NewPostgresRepository(conn database.Connection) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

func (r *PostgresRepository) Save(ctx context.Context, msgs ...*Message) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	for _, m := range msgs {
		err := exec.QueryRow(ctx, `
			INSERT INTO outbox (event_id, aggregate_type, aggregate_id, event_type, routing_key, payload, metadata, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			m.EventID, m.AggregateType, m.AggregateID, m.EventType, m.RoutingKey,
			[]byte(m.Payload), []byte(m.Metadata), m.CreatedAt,
		).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("save outbox message %s: %w", m.RoutingKey, err)
		}
	}
	return nil
}

// Pending locks the selected rows with SKIP LOCKED. Inside the processor's
// batch transaction this keeps two workers from relaying the same message.
func (r *PostgresRepository) Pending(ctx context.Context, now time.Time, limit int) ([]*Message, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT `+postgresColumns+`
		FROM outbox
		WHERE published_at IS NULL AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= $1)
		ORDER BY created_at, id
		LIMIT $2
		FOR UPDATE SKIP LOCKED`,
		now, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending outbox: %w", err)
	}
	defer rows.Close()

	var out []*Message
	for rows.Next() {
		var m Message
		var payload, meta []byte
		if err := rows.Scan(&m.ID, &m.EventID, &m.AggregateType, &m.AggregateID, &m.EventType, &m.RoutingKey,
			&payload, &meta, &m.CreatedAt, &m.PublishedAt, &m.NextRetryAt, &m.RetryCount,
			&m.LastError, &m.DeadLetteredAt, &m.DeadLetterReason); err != nil {
			return nil, fmt.Errorf("scan outbox message: %w", err)
		}
		m.Payload, m.Metadata = payload, meta
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) MarkPublished(ctx context.Context, id int64, at time.Time) error {
	return r.exec(ctx, `UPDATE outbox SET published_at = $2 WHERE id = $1`, id, at)
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error {
	return r.exec(ctx, `
		UPDATE outbox SET retry_count = retry_count + 1, last_error = $2, next_retry_at = $3
		WHERE id = $1`,
		id, reason, nextRetryAt)
}

func (r *PostgresRepository) MarkDead(ctx context.Context, id int64, reason string, at time.Time) error {
	return r.exec(ctx, `
		UPDATE outbox SET retry_count = retry_count + 1, last_error = $2, dead_lettered_at = $3, dead_letter_reason = $2
		WHERE id = $1`,
		id, reason, at)
}

func (r *PostgresRepository) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge outbox: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// NewRepository picks the implementation matching conn.
func NewRepository(conn database.Connection) Repository {
	if conn.Driver() == database.DriverPostgres {
		return NewPostgresRepository(conn)
	}
	return NewSQLiteRepository(conn)
}
