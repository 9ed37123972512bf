package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/value_objects"
	sharedDomain "github.com/Miiduoa/tired-sub002/internal/shared/domain"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database/sqlite"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

const sqliteTaskColumns = `id, user_id, title, description, status, priority, estimate_minutes,
	deadline_at, planned_date, is_date_locked, depends_on, completed_at, version, created_at, updated_at`

// SQLiteTaskRepository implements task.Repository on the embedded database.
// Dependencies are stored as a JSON array of IDs.
type SQLiteTaskRepository struct {
	conn database.Connection
}

func NewSQLiteTaskRepository(conn database.Connection) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{conn: conn}
}

// Save inserts a new task or updates an existing one, checking the version
// it was loaded with.
func (r *SQLiteTaskRepository) Save(ctx context.Context, t *task.Task) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	deps, err := json.Marshal(idStrings(t.DependsOn()))
	if err != nil {
		return fmt.Errorf("encode dependencies: %w", err)
	}
	var planned any
	if d := t.PlannedDate(); d != nil {
		planned = d.Format(dateLayout)
	}

	if t.Version() == 0 {
		_, err = exec.Exec(ctx, `
			INSERT INTO tasks (`+sqliteTaskColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			t.ID().String(), t.UserID().String(), t.Title(), t.Description(), t.Status().String(),
			int(t.Priority()), t.Estimate().Minutes(), sqlite.FormatTimePtr(t.DeadlineAt()), planned,
			t.IsDateLocked(), string(deps), sqlite.FormatTimePtr(t.CompletedAt()),
			sqlite.FormatTime(t.CreatedAt()), sqlite.FormatTime(t.UpdatedAt()),
		)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		t.SetVersion(1)
		return nil
	}

	res, err := exec.Exec(ctx, `
		UPDATE tasks SET
			title = ?, description = ?, status = ?, priority = ?, estimate_minutes = ?,
			deadline_at = ?, planned_date = ?, is_date_locked = ?, depends_on = ?,
			completed_at = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		t.Title(), t.Description(), t.Status().String(), int(t.Priority()), t.Estimate().Minutes(),
		sqlite.FormatTimePtr(t.DeadlineAt()), planned, t.IsDateLocked(), string(deps),
		sqlite.FormatTimePtr(t.CompletedAt()), sqlite.FormatTime(t.UpdatedAt()),
		t.ID().String(), t.Version(),
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

func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT `+sqliteTaskColumns+` FROM tasks WHERE id = ?`, id.String())
	t, err := scanSQLiteTask(row)
	if database.IsNoRows(err) {
		return nil, task.ErrTaskNotFound
	}
	return t, err
}

func (r *SQLiteTaskRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx,
		`SELECT `+sqliteTaskColumns+` FROM tasks WHERE user_id = ? ORDER BY created_at, id`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *SQLiteTaskRepository) FindUsersWithOpenTasks(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx,
		`SELECT DISTINCT user_id FROM tasks WHERE status IN ('pending', 'in_progress') ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	return scanUserIDs(rows, func(s string) (uuid.UUID, error) { return uuid.Parse(s) })
}

func (r *SQLiteTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

func scanSQLiteTask(row database.Row) (*task.Task, error) {
	var (
		id, userID, title, description, status string
		priority, estimate, version            int
		deadline, planned, completed           sql.NullString
		locked                                 bool
		deps, createdAt, updatedAt             string
	)
	if err := row.Scan(&id, &userID, &title, &description, &status, &priority, &estimate,
		&deadline, &planned, &locked, &deps, &completed, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var depIDs []string
	if err := json.Unmarshal([]byte(deps), &depIDs); err != nil {
		return nil, fmt.Errorf("decode dependencies of %s: %w", id, err)
	}
	rec := taskRecord{
		ID: id, UserID: userID, Title: title, Description: description, Status: status,
		Priority: priority, EstimateMinutes: estimate, IsDateLocked: locked, DependsOn: depIDs,
		Version: version,
	}

	var err error
	if rec.DeadlineAt, err = sqlite.ParseNullTime(deadline); err != nil {
		return nil, err
	}
	if rec.CompletedAt, err = sqlite.ParseNullTime(completed); err != nil {
		return nil, err
	}
	if planned.Valid {
		d, err := time.Parse(dateLayout, planned.String)
		if err != nil {
			return nil, fmt.Errorf("planned date of %s: %w", id, err)
		}
		rec.PlannedDate = &d
	}
	if rec.CreatedAt, err = sqlite.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = sqlite.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return rec.toTask()
}

// taskRecord is the driver-neutral shape of a row.
type taskRecord struct {
	ID, UserID, Title, Description, Status string
	Priority, EstimateMinutes, Version     int
	DeadlineAt, PlannedDate, CompletedAt   *time.Time
	IsDateLocked                           bool
	DependsOn                              []string
	CreatedAt, UpdatedAt                   time.Time
}

func (r taskRecord) toTask() (*task.Task, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("task id %q: %w", r.ID, err)
	}
	userID, err := uuid.Parse(r.UserID)
	if err != nil {
		return nil, fmt.Errorf("user id of %s: %w", r.ID, err)
	}
	status, ok := task.ParseStatus(r.Status)
	if !ok {
		return nil, fmt.Errorf("task %s has unknown status %q", r.ID, r.Status)
	}
	priority := value_objects.Priority(r.Priority)
	if !priority.IsValid() {
		priority = value_objects.DefaultPriority
	}
	estimate, err := value_objects.NewDurationMinutes(r.EstimateMinutes)
	if err != nil {
		return nil, fmt.Errorf("estimate of %s: %w", r.ID, err)
	}
	deps := make([]uuid.UUID, 0, len(r.DependsOn))
	for _, s := range r.DependsOn {
		dep, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("dependency of %s: %w", r.ID, err)
		}
		deps = append(deps, dep)
	}

	base := sharedDomain.RehydrateBaseAggregateRoot(
		sharedDomain.RehydrateBaseEntity(id, r.CreatedAt, r.UpdatedAt), r.Version)
	return task.RehydrateTask(base, userID, r.Title, r.Description, status, priority, estimate,
		r.DeadlineAt, r.PlannedDate, r.IsDateLocked, deps, r.CompletedAt), nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func scanUserIDs(rows database.Rows, parse func(string) (uuid.UUID, error)) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		id, err := parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
