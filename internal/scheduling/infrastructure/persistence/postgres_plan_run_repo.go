package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresPlanRunRepository implements domain.PlanRunRepository on
// PostgreSQL. List columns are text arrays.
type PostgresPlanRunRepository struct {
	conn database.Connection
}

func NewPostgresPlanRunRepository(conn database.Connection) *PostgresPlanRunRepository {
	return &PostgresPlanRunRepository{conn: conn}
}

// NewPlanRunRepository picks the implementation matching the connection.
func NewPlanRunRepository(conn database.Connection) domain.PlanRunRepository {
	if conn.Driver() == database.DriverPostgres {
		return NewPostgresPlanRunRepository(conn)
	}
	return NewSQLitePlanRunRepository(conn)
}

func (r *PostgresPlanRunRepository) Save(ctx context.Context, run *domain.PlanRun) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO plan_runs (`+planRunColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		run.ID(), run.UserID(), string(run.Kind()), run.RanAt(), run.WeekStart().Start(time.UTC),
		run.ScheduledCount(), run.SkippedCount(), run.MovedCount(),
		pq.Array(dayStrings(run.OverloadedDays())), pq.Array(nonNil(run.Suggestions())),
	)
	if err != nil {
		return fmt.Errorf("insert plan run: %w", err)
	}
	return nil
}

func (r *PostgresPlanRunRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.PlanRun, error) {
	if limit <= 0 {
		limit = DefaultPlanRunLimit
	}
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT `+planRunColumns+` FROM plan_runs
		WHERE user_id = $1 ORDER BY ran_at DESC, id LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list plan runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.PlanRun
	for rows.Next() {
		var (
			rec       planRunRecord
			id, owner uuid.UUID
			weekStart time.Time
		)
		if err := rows.Scan(&id, &owner, &rec.Kind, &rec.RanAt, &weekStart,
			&rec.Scheduled, &rec.Skipped, &rec.Moved,
			pq.Array(&rec.OverloadedDays), pq.Array(&rec.Suggestions)); err != nil {
			return nil, err
		}
		rec.ID, rec.UserID = id.String(), owner.String()
		rec.WeekStart = weekStart.Format(time.DateOnly)
		rec.RanAt = rec.RanAt.UTC()
		run, err := rec.toRun()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
