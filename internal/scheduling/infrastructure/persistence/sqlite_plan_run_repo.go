package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database/sqlite"
	"github.com/google/uuid"
)

const planRunColumns = `id, user_id, kind, ran_at, week_start, scheduled_count, skipped_count,
	moved_count, overloaded_days, suggestions`

// SQLitePlanRunRepository implements domain.PlanRunRepository on the
// embedded database. List columns are JSON arrays.
type SQLitePlanRunRepository struct {
	conn database.Connection
}

func NewSQLitePlanRunRepository(conn database.Connection) *SQLitePlanRunRepository {
	return &SQLitePlanRunRepository{conn: conn}
}

func (r *SQLitePlanRunRepository) Save(ctx context.Context, run *domain.PlanRun) error {
	overloaded, err := json.Marshal(dayStrings(run.OverloadedDays()))
	if err != nil {
		return fmt.Errorf("encode overloaded days: %w", err)
	}
	suggestions, err := json.Marshal(nonNil(run.Suggestions()))
	if err != nil {
		return fmt.Errorf("encode suggestions: %w", err)
	}

	_, err = database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO plan_runs (`+planRunColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID().String(), run.UserID().String(), string(run.Kind()), sqlite.FormatTime(run.RanAt()),
		run.WeekStart().String(), run.ScheduledCount(), run.SkippedCount(), run.MovedCount(),
		string(overloaded), string(suggestions),
	)
	if err != nil {
		return fmt.Errorf("insert plan run: %w", err)
	}
	return nil
}

func (r *SQLitePlanRunRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.PlanRun, error) {
	if limit <= 0 {
		limit = DefaultPlanRunLimit
	}
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT `+planRunColumns+` FROM plan_runs
		WHERE user_id = ? ORDER BY ran_at DESC, id LIMIT ?`,
		userID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("list plan runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.PlanRun
	for rows.Next() {
		var (
			rec                            planRunRecord
			ranAt, overloaded, suggestions string
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Kind, &ranAt, &rec.WeekStart,
			&rec.Scheduled, &rec.Skipped, &rec.Moved, &overloaded, &suggestions); err != nil {
			return nil, err
		}
		if rec.RanAt, err = sqlite.ParseTime(ranAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(overloaded), &rec.OverloadedDays); err != nil {
			return nil, fmt.Errorf("decode overloaded days of %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(suggestions), &rec.Suggestions); err != nil {
			return nil, fmt.Errorf("decode suggestions of %s: %w", rec.ID, err)
		}
		run, err := rec.toRun()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
