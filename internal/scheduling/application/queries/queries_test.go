package queries

import (
	"context"
	"testing"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/value_objects"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/planning"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/services"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTaskRepo struct {
	task.Repository
	tasks []*task.Task
}

func (r stubTaskRepo) FindByUserID(context.Context, uuid.UUID) ([]*task.Task, error) {
	return r.tasks, nil
}

type stubBlockRepo struct {
	domain.BusyBlockRepository
	blocks []*domain.BusyBlock
	asked  [2]time.Time
}

func (r *stubBlockRepo) FindOverlapping(_ context.Context, _ uuid.UUID, start, end time.Time) ([]*domain.BusyBlock, error) {
	r.asked = [2]time.Time{start, end}
	return r.blocks, nil
}

type stubRunRepo struct {
	runs      []*domain.PlanRun
	lastLimit int
}

func (r *stubRunRepo) Save(context.Context, *domain.PlanRun) error { return nil }

func (r *stubRunRepo) ListRecent(_ context.Context, _ uuid.UUID, limit int) ([]*domain.PlanRun, error) {
	r.lastLimit = limit
	return r.runs, nil
}

var (
	userID = uuid.New()
	mon    = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	now    = mon.Add(8 * time.Hour)
)

func newTask(t *testing.T, title string, minutes int) *task.Task {
	t.Helper()
	tk, err := task.NewTask(userID, title)
	require.NoError(t, err)
	require.NoError(t, tk.SetEstimate(value_objects.MustNewDuration(time.Duration(minutes)*time.Minute)))
	return tk
}

func newLoader(tasks []*task.Task, blocks *stubBlockRepo) *planning.Loader {
	options := func(now time.Time) (domain.AutoPlanOptions, error) {
		return domain.NewAutoPlanOptions(now, domain.WithLocation(time.UTC), domain.WithDailyCapacity(120))
	}
	return planning.NewLoader(stubTaskRepo{tasks: tasks}, planning.NewStoredBusySource(blocks), options, domain.FixedClock{At: now})
}

func TestPreviewPlanHandler(t *testing.T) {
	tk := newTask(t, "Essay", 60)
	handler := NewPreviewPlanHandler(newLoader([]*task.Task{tk}, &stubBlockRepo{}), services.NewAutoPlanner(domain.FixedClock{At: now}, nil, nil))

	report, err := handler.Handle(context.Background(), PreviewPlanQuery{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, 1, report.ScheduledCount())
	assert.NotEmpty(t, report.Suggestions)
	assert.Nil(t, tk.PlannedDate(), "preview must not touch the task")
}

func TestGetWeekLoadHandler(t *testing.T) {
	ctx := context.Background()
	planned := newTask(t, "Reading", 90)
	require.NoError(t, planned.PlanFor(mon, false))
	block, err := domain.NewBusyBlock(userID, "Lecture", mon.Add(9*time.Hour), mon.Add(10*time.Hour))
	require.NoError(t, err)

	t.Run("current week", func(t *testing.T) {
		blocks := &stubBlockRepo{blocks: []*domain.BusyBlock{block}}
		dto, err := NewGetWeekLoadHandler(newLoader([]*task.Task{planned}, blocks)).Handle(ctx, GetWeekLoadQuery{UserID: userID})
		require.NoError(t, err)

		assert.Equal(t, domain.NewDay(2026, 10, 19), dto.WeekStart)
		assert.Equal(t, 120, dto.Capacity)
		require.Len(t, dto.Days, 7)
		assert.Equal(t, 150, dto.Days[0].Minutes)
		assert.True(t, dto.Days[0].Overloaded)
		assert.True(t, dto.Overloaded)
		assert.Zero(t, dto.Days[1].Minutes)
	})

	t.Run("explicit week", func(t *testing.T) {
		blocks := &stubBlockRepo{}
		next := domain.NewDay(2026, 10, 26)
		dto, err := NewGetWeekLoadHandler(newLoader([]*task.Task{planned}, blocks)).Handle(ctx, GetWeekLoadQuery{UserID: userID, WeekStart: &next})
		require.NoError(t, err)

		assert.Equal(t, next, dto.WeekStart)
		assert.False(t, dto.Overloaded)
		assert.Equal(t, next.Start(time.UTC), blocks.asked[0])
		assert.Equal(t, next.AddDays(7).Start(time.UTC), blocks.asked[1])
	})
}

func TestListPlanRunsHandler(t *testing.T) {
	report := domain.Report{
		ScheduledTasks: []domain.PlanTask{{ID: uuid.New()}},
		OverloadedDays: []domain.Day{domain.NewDay(2026, 10, 20)},
		Suggestions:    []string{"ok"},
	}
	run := domain.NewAutoPlanRun(userID, now, report, domain.NewDay(2026, 10, 19))
	repo := &stubRunRepo{runs: []*domain.PlanRun{run}}

	dtos, err := NewListPlanRunsHandler(repo).Handle(context.Background(), ListPlanRunsQuery{UserID: userID, Limit: 5})
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, 5, repo.lastLimit)
	assert.Equal(t, "auto", dtos[0].Kind)
	assert.Equal(t, 1, dtos[0].ScheduledCount)
	assert.Equal(t, []domain.Day{domain.NewDay(2026, 10, 20)}, dtos[0].OverloadedDays)
	assert.Equal(t, []string{"ok"}, dtos[0].Suggestions)
}

func TestListBusyBlocksHandler(t *testing.T) {
	block, err := domain.NewBusyBlock(userID, "Lecture", mon.Add(9*time.Hour), mon.Add(10*time.Hour+30*time.Minute))
	require.NoError(t, err)
	blocks := &stubBlockRepo{blocks: []*domain.BusyBlock{block}}

	dtos, err := NewListBusyBlocksHandler(blocks).Handle(context.Background(), ListBusyBlocksQuery{UserID: userID, From: mon, To: mon.AddDate(0, 0, 7)})
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "Lecture", dtos[0].Title)
	assert.Equal(t, "manual", dtos[0].Source)
	assert.Equal(t, 90, dtos[0].DurationMin)
}
