package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// PostgresBusyBlockRepository implements domain.BusyBlockRepository on
// PostgreSQL.
type PostgresBusyBlockRepository struct {
	conn database.Connection
}

func NewPostgresBusyBlockRepository(conn database.Connection) *PostgresBusyBlockRepository {
	return &PostgresBusyBlockRepository{conn: conn}
}

// NewBusyBlockRepository picks the implementation matching the connection.
func NewBusyBlockRepository(conn database.Connection) domain.BusyBlockRepository {
	if conn.Driver() == database.DriverPostgres {
		return NewPostgresBusyBlockRepository(conn)
	}
	return NewSQLiteBusyBlockRepository(conn)
}

func (r *PostgresBusyBlockRepository) Save(ctx context.Context, b *domain.BusyBlock) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO busy_blocks (`+busyBlockColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, start_at = EXCLUDED.start_at,
			end_at = EXCLUDED.end_at, updated_at = EXCLUDED.updated_at`,
		b.ID(), b.UserID(), b.Title(), string(b.Source()), b.Start(), b.End(), b.CreatedAt(), b.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save busy block: %w", err)
	}
	return nil
}

func (r *PostgresBusyBlockRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.BusyBlock, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT `+busyBlockColumns+` FROM busy_blocks WHERE id = $1`, id)
	b, err := scanPostgresBusyBlock(row)
	if database.IsNoRows(err) {
		return nil, domain.ErrBusyBlockNotFound
	}
	return b, err
}

func (r *PostgresBusyBlockRepository) FindOverlapping(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.BusyBlock, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT `+busyBlockColumns+` FROM busy_blocks
		WHERE user_id = $1 AND start_at < $2 AND end_at > $3
		ORDER BY start_at, id`,
		userID, end, start)
	if err != nil {
		return nil, fmt.Errorf("list busy blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*domain.BusyBlock
	for rows.Next() {
		b, err := scanPostgresBusyBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (r *PostgresBusyBlockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`DELETE FROM busy_blocks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete busy block: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrBusyBlockNotFound
	}
	return nil
}

func scanPostgresBusyBlock(row database.Row) (*domain.BusyBlock, error) {
	var (
		id, userID uuid.UUID
		rec        busyBlockRecord
	)
	if err := row.Scan(&id, &userID, &rec.Title, &rec.Source, &rec.Start, &rec.End,
		&rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.ID, rec.UserID = id.String(), userID.String()
	rec.Start, rec.End = rec.Start.UTC(), rec.End.UTC()
	return rec.toBlock()
}
