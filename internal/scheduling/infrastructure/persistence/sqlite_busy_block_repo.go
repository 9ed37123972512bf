package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database/sqlite"
	"github.com/google/uuid"
)

const busyBlockColumns = `id, user_id, title, source, start_at, end_at, created_at, updated_at`

// SQLiteBusyBlockRepository implements domain.BusyBlockRepository on the
// embedded database.
type SQLiteBusyBlockRepository struct {
	conn database.Connection
}

func NewSQLiteBusyBlockRepository(conn database.Connection) *SQLiteBusyBlockRepository {
	return &SQLiteBusyBlockRepository{conn: conn}
}

func (r *SQLiteBusyBlockRepository) Save(ctx context.Context, b *domain.BusyBlock) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO busy_blocks (`+busyBlockColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title, start_at = excluded.start_at,
			end_at = excluded.end_at, updated_at = excluded.updated_at`,
		b.ID().String(), b.UserID().String(), b.Title(), string(b.Source()),
		sqlite.FormatTime(b.Start()), sqlite.FormatTime(b.End()),
		sqlite.FormatTime(b.CreatedAt()), sqlite.FormatTime(b.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("save busy block: %w", err)
	}
	return nil
}

func (r *SQLiteBusyBlockRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.BusyBlock, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT `+busyBlockColumns+` FROM busy_blocks WHERE id = ?`, id.String())
	b, err := scanSQLiteBusyBlock(row)
	if database.IsNoRows(err) {
		return nil, domain.ErrBusyBlockNotFound
	}
	return b, err
}

func (r *SQLiteBusyBlockRepository) FindOverlapping(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.BusyBlock, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT `+busyBlockColumns+` FROM busy_blocks
		WHERE user_id = ? AND start_at < ? AND end_at > ?
		ORDER BY start_at, id`,
		userID.String(), sqlite.FormatTime(end), sqlite.FormatTime(start))
	if err != nil {
		return nil, fmt.Errorf("list busy blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*domain.BusyBlock
	for rows.Next() {
		b, err := scanSQLiteBusyBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (r *SQLiteBusyBlockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`DELETE FROM busy_blocks WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete busy block: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrBusyBlockNotFound
	}
	return nil
}

func scanSQLiteBusyBlock(row database.Row) (*domain.BusyBlock, error) {
	var id, userID, title, source, start, end, createdAt, updatedAt string
	if err := row.Scan(&id, &userID, &title, &source, &start, &end, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	rec := busyBlockRecord{ID: id, UserID: userID, Title: title, Source: source}
	var err error
	for _, f := range []struct {
		dst *time.Time
		src string
	}{{&rec.Start, start}, {&rec.End, end}, {&rec.CreatedAt, createdAt}, {&rec.UpdatedAt, updatedAt}} {
		if *f.dst, err = sqlite.ParseTime(f.src); err != nil {
			return nil, fmt.Errorf("busy block %s: %w", id, err)
		}
	}
	return rec.toBlock()
}

// busyBlockRecord is the driver-neutral shape of a row.
type busyBlockRecord struct {
	ID, UserID, Title, Source        string
	Start, End, CreatedAt, UpdatedAt time.Time
}

func (r busyBlockRecord) toBlock() (*domain.BusyBlock, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("busy block id %q: %w", r.ID, err)
	}
	userID, err := uuid.Parse(r.UserID)
	if err != nil {
		return nil, fmt.Errorf("user id of busy block %s: %w", r.ID, err)
	}
	return domain.RehydrateBusyBlock(id, userID, r.Title, domain.BusySource(r.Source),
		r.Start, r.End, r.CreatedAt, r.UpdatedAt), nil
}
