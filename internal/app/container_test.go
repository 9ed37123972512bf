package app

import (
	"context"
	"testing"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/application/commands"
	"github.com/Miiduoa/tired-sub002/internal/productivity/application/queries"
	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/value_objects"
	scheduleCommands "github.com/Miiduoa/tired-sub002/internal/scheduling/application/commands"
	scheduleQueries "github.com/Miiduoa/tired-sub002/internal/scheduling/application/queries"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database/sqlite"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/eventbus"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/lock"
	"github.com/Miiduoa/tired-sub002/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:             "development",
		UserID:             config.DefaultUserID,
		DatabaseDriver:     "sqlite",
		SQLitePath:         sqlite.MemoryPath,
		PlanWeeklyCapacity: 600,
		PlanWorkdays:       "mon,tue,wed,thu,fri",
		PlanAllowWeekends:  true,
		PlanHorizonDays:    14,
		PlanTimezone:       "UTC",
	}
}

func setupContainer(t *testing.T) (*Container, context.Context) {
	t.Helper()
	ctx := context.Background()
	c, err := NewContainer(ctx, testConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, ctx
}

func TestNewContainer(t *testing.T) {
	c, _ := setupContainer(t)

	assert.Equal(t, database.DriverSQLite, c.DB.Driver())
	assert.Nil(t, c.RedisClient)
	assert.IsType(t, &lock.LocalLocker{}, c.Locker)
	assert.Empty(t, c.BusySource.Sources())
	assert.NotNil(t, c.AutoPlanHandler)
	assert.NotNil(t, c.ListPlanRunsHandler)

	publisher, err := c.NewPublisher()
	require.NoError(t, err)
	assert.IsType(t, &eventbus.NoopPublisher{}, publisher)
}

func TestNewContainer_InvalidDriver(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseDriver = "oracle"
	_, err := NewContainer(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestContainer_PlanningWorkflow(t *testing.T) {
	c, ctx := setupContainer(t)
	userID, err := c.UserID()
	require.NoError(t, err)

	essay, err := c.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{
		UserID:          userID,
		Title:           "Write essay",
		Priority:        value_objects.PriorityHigh.String(),
		EstimateMinutes: 90,
	})
	require.NoError(t, err)
	_, err = c.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{
		UserID:          userID,
		Title:           "Review notes",
		EstimateMinutes: 30,
	})
	require.NoError(t, err)

	start := time.Now().UTC().Truncate(time.Hour)
	_, err = c.BusyBlockHandler.Add(ctx, scheduleCommands.AddBusyBlockCommand{
		UserID: userID,
		Title:  "Lecture",
		Start:  start,
		End:    start.Add(time.Hour),
	})
	require.NoError(t, err)

	result, err := c.AutoPlanHandler.Handle(ctx, scheduleCommands.AutoPlanCommand{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Report.ScheduledCount())

	got, err := c.GetTaskHandler.Handle(ctx, queries.GetTaskQuery{TaskID: essay.TaskID, UserID: userID})
	require.NoError(t, err)
	assert.NotEmpty(t, got.PlannedDate)

	runs, err := c.ListPlanRunsHandler.Handle(ctx, scheduleQueries.ListPlanRunsQuery{UserID: userID})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].ScheduledCount)

	pending, err := c.OutboxRepo.Pending(ctx, time.Now().Add(time.Minute), 0)
	require.NoError(t, err)
	assert.NotEmpty(t, pending)

	week, err := c.GetWeekLoadHandler.Handle(ctx, scheduleQueries.GetWeekLoadQuery{UserID: userID})
	require.NoError(t, err)
	assert.Len(t, week.Days, 7)
}
