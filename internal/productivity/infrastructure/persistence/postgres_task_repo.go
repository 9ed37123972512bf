package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const postgresTaskColumns = `id, user_id, title, description, status, priority, estimate_minutes,
	deadline_at, planned_date, is_date_locked, depends_on, completed_at, version, created_at, updated_at`

// PostgresTaskRepository implements task.Repository on PostgreSQL.
// Dependencies live in a uuid[] column.
type PostgresTaskRepository struct {
	conn database.Connection
}

func NewPostgresTaskRepository(conn database.Connection) *PostgresTaskRepository {
	return &PostgresTaskRepository{conn: conn}
}

func (r *PostgresTaskRepository) Save(ctx context.Context, t *task.Task) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	deps := pq.Array(idStrings(t.DependsOn()))

	if t.Version() == 0 {
		_, err := exec.Exec(ctx, `
			INSERT INTO tasks (`+postgresTaskColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1, $13, $14)`,
			t.ID(), t.UserID(), t.Title(), t.Description(), t.Status().String(),
			int(t.Priority()), t.Estimate().Minutes(), t.DeadlineAt(), t.PlannedDate(),
			t.IsDateLocked(), deps, t.CompletedAt(), t.CreatedAt(), t.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		t.SetVersion(1)
		return nil
	}

	res, err := exec.Exec(ctx, `
		UPDATE tasks SET
			title = $3, description = $4, status = $5, priority = $6, estimate_minutes = $7,
			deadline_at = $8, planned_date = $9, is_date_locked = $10, depends_on = $11,
			completed_at = $12, updated_at = $13, version = version + 1
		WHERE id = $1 AND version = $2`,
		t.ID(), t.Version(), t.Title(), t.Description(), t.Status().String(), int(t.Priority()),
		t.Estimate().Minutes(), t.DeadlineAt(), t.PlannedDate(), t.IsDateLocked(), deps,
		t.CompletedAt(), t.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s: %w", t.ID(), ErrOptimisticLocking)
	}
	t.IncrementVersion()
	return nil
}

func (r *PostgresTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT `+postgresTaskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanPostgresTask(row)
	if database.IsNoRows(err) {
		return nil, task.ErrTaskNotFound
	}
	return t, err
}

func (r *PostgresTaskRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx,
		`SELECT `+postgresTaskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanPostgresTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *PostgresTaskRepository) FindUsersWithOpenTasks(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx,
		`SELECT DISTINCT user_id::text FROM tasks WHERE status IN ('pending', 'in_progress') ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	return scanUserIDs(rows, uuid.Parse)
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

func scanPostgresTask(row database.Row) (*task.Task, error) {
	var (
		rec     taskRecord
		id, uid uuid.UUID
		planned *time.Time
	)
	if err := row.Scan(&id, &uid, &rec.Title, &rec.Description, &rec.Status, &rec.Priority,
		&rec.EstimateMinutes, &rec.DeadlineAt, &planned, &rec.IsDateLocked, pq.Array(&rec.DependsOn),
		&rec.CompletedAt, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.ID, rec.UserID = id.String(), uid.String()
	rec.PlannedDate = planned
	return rec.toTask()
}

// NewTaskRepository picks the implementation matching conn.
func NewTaskRepository(conn database.Connection) task.Repository {
	if conn.Driver() == database.DriverPostgres {
		return NewPostgresTaskRepository(conn)
	}
	return NewSQLiteTaskRepository(conn)
}
