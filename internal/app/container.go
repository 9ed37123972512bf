// Package app wires repositories, busy sources and handlers for the
// command line, the MCP server and the worker.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	calendarApp "github.com/Miiduoa/tired-sub002/internal/calendar/application"
	"github.com/Miiduoa/tired-sub002/internal/calendar/infrastructure/caldav"
	"github.com/Miiduoa/tired-sub002/internal/calendar/infrastructure/google"
	"github.com/Miiduoa/tired-sub002/internal/productivity/application/commands"
	"github.com/Miiduoa/tired-sub002/internal/productivity/application/queries"
	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	productivityPersistence "github.com/Miiduoa/tired-sub002/internal/productivity/infrastructure/persistence"
	scheduleCommands "github.com/Miiduoa/tired-sub002/internal/scheduling/application/commands"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/planning"
	scheduleQueries "github.com/Miiduoa/tired-sub002/internal/scheduling/application/queries"
	schedulerServices "github.com/Miiduoa/tired-sub002/internal/scheduling/application/services"
	schedulingDomain "github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	schedulePersistence "github.com/Miiduoa/tired-sub002/internal/scheduling/infrastructure/persistence"
	sharedApplication "github.com/Miiduoa/tired-sub002/internal/shared/application"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database"
	_ "github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database/postgres" // Register Postgres driver
	_ "github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/eventbus"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/lock"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/migrations"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/outbox"
	"github.com/Miiduoa/tired-sub002/pkg/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DB database.Connection

	// Redis, nil when not configured
	RedisClient *redis.Client

	// Repositories
	TaskRepo      task.Repository
	BusyBlockRepo schedulingDomain.BusyBlockRepository
	PlanRunRepo   schedulingDomain.PlanRunRepository
	OutboxRepo    outbox.Repository

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Planning
	Locker     lock.Locker
	BusySource *calendarApp.CompositeSource
	Planner    *schedulerServices.AutoPlanner
	Loader     *planning.Loader

	// Task Command Handlers
	CreateTaskHandler         *commands.CreateTaskHandler
	StartTaskHandler          *commands.StartTaskHandler
	CompleteTaskHandler       *commands.CompleteTaskHandler
	ArchiveTaskHandler        *commands.ArchiveTaskHandler
	UpdateTaskScheduleHandler *commands.UpdateTaskScheduleHandler
	DependencyHandler         *commands.DependencyHandler

	// Task Query Handlers
	ListTasksHandler *queries.ListTasksHandler
	GetTaskHandler   *queries.GetTaskHandler

	// Schedule Command Handlers
	AutoPlanHandler     *scheduleCommands.AutoPlanHandler
	OptimizeWeekHandler *scheduleCommands.OptimizeWeekHandler
	BusyBlockHandler    *scheduleCommands.BusyBlockHandler

	// Schedule Query Handlers
	PreviewPlanHandler    *scheduleQueries.PreviewPlanHandler
	GetWeekLoadHandler    *scheduleQueries.GetWeekLoadHandler
	ListPlanRunsHandler   *scheduleQueries.ListPlanRunsHandler
	ListBusyBlocksHandler *scheduleQueries.ListBusyBlocksHandler
}

// NewContainer opens the database, applies migrations and builds every
// handler. Redis, CalDAV and Google Calendar are used when configured.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	driver, err := database.ParseDriver(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	conn, err := database.Open(ctx, database.Config{
		Driver:     driver,
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = conn
	logger.Debug("connected to database", "driver", conn.Driver())

	applied, err := migrations.Run(ctx, conn)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if len(applied) > 0 {
		logger.Info("applied migrations", "count", len(applied))
	}

	c.TaskRepo = productivityPersistence.NewTaskRepository(conn)
	c.BusyBlockRepo = schedulePersistence.NewBusyBlockRepository(conn)
	c.PlanRunRepo = schedulePersistence.NewPlanRunRepository(conn)
	c.OutboxRepo = outbox.NewRepository(conn)
	c.UnitOfWork = database.NewUnitOfWork(conn)

	if err := c.initLocker(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initBusySources(); err != nil {
		c.Close()
		return nil, err
	}

	c.Planner = schedulerServices.NewAutoPlanner(schedulingDomain.SystemClock{}, nil, logger)
	c.Loader = planning.NewLoader(c.TaskRepo, c.BusySource, cfg.PlanOptions, schedulingDomain.SystemClock{})

	// Create task command handlers
	c.CreateTaskHandler = commands.NewCreateTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.StartTaskHandler = commands.NewStartTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.CompleteTaskHandler = commands.NewCompleteTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.ArchiveTaskHandler = commands.NewArchiveTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.UpdateTaskScheduleHandler = commands.NewUpdateTaskScheduleHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.DependencyHandler = commands.NewDependencyHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)

	// Create task query handlers
	c.ListTasksHandler = queries.NewListTasksHandler(c.TaskRepo)
	c.GetTaskHandler = queries.NewGetTaskHandler(c.TaskRepo)

	// Create schedule handlers
	deps := scheduleCommands.PlanDeps{
		Tasks:   c.TaskRepo,
		Runs:    c.PlanRunRepo,
		Outbox:  c.OutboxRepo,
		UoW:     c.UnitOfWork,
		Loader:  c.Loader,
		Planner: c.Planner,
		Locker:  c.Locker,
		Logger:  logger,
	}
	c.AutoPlanHandler = scheduleCommands.NewAutoPlanHandler(deps)
	c.OptimizeWeekHandler = scheduleCommands.NewOptimizeWeekHandler(deps)
	c.BusyBlockHandler = scheduleCommands.NewBusyBlockHandler(c.BusyBlockRepo, c.UnitOfWork)

	c.PreviewPlanHandler = scheduleQueries.NewPreviewPlanHandler(c.Loader, c.Planner)
	c.GetWeekLoadHandler = scheduleQueries.NewGetWeekLoadHandler(c.Loader)
	c.ListPlanRunsHandler = scheduleQueries.NewListPlanRunsHandler(c.PlanRunRepo)
	c.ListBusyBlocksHandler = scheduleQueries.NewListBusyBlocksHandler(c.BusyBlockRepo)

	return c, nil
}

// initLocker uses Redis when REDIS_URL is set. In development an unreachable
// Redis falls back to the in-process locker.
func (c *Container) initLocker(ctx context.Context) error {
	c.Locker = lock.NewLocalLocker()
	if c.Config.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, plan locks are process local", "error", err)
		return nil
	}
	c.RedisClient = client
	c.Locker = lock.NewRedisLocker(client)
	c.Logger.Debug("connected to Redis")
	return nil
}

// initBusySources combines stored busy blocks with the configured external
// calendars. Each external calendar sits behind its own circuit breaker.
func (c *Container) initBusySources() error {
	loc, err := c.Config.Location()
	if err != nil {
		return err
	}

	var external []calendarApp.NamedSource
	if c.Config.CalDAVEnabled() {
		src, err := caldav.NewBusySource(c.Config.CalDAVURL, c.Config.CalDAVUsername, c.Config.CalDAVPassword, c.Logger)
		if err != nil {
			return err
		}
		external = append(external, calendarApp.NewBreakerSource(src.WithLocation(loc), calendarApp.DefaultBreakerConfig(), c.Logger))
	}
	if c.Config.GoogleEnabled() {
		tokens := google.NewRefreshTokenProvider(c.Config.GoogleClientID, c.Config.GoogleClientSecret, c.Config.GoogleRefreshToken)
		src := google.NewBusySource(tokens, c.Logger).WithCalendarID(c.Config.GoogleCalendarID)
		external = append(external, calendarApp.NewBreakerSource(src, calendarApp.DefaultBreakerConfig(), c.Logger))
	}

	c.BusySource = calendarApp.NewCompositeSource(planning.NewStoredBusySource(c.BusyBlockRepo), c.Logger, external...)
	if len(external) > 0 {
		c.Logger.Debug("external calendars enabled", "sources", c.BusySource.Sources())
	}
	return nil
}

// UserID is the configured local user.
func (c *Container) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Config.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid LOCAL_USER_ID %q: %w", c.Config.UserID, err)
	}
	return id, nil
}

// NewPublisher connects to RabbitMQ when configured. Without a broker, or in
// development when it is unreachable, events are dropped by a noop publisher.
func (c *Container) NewPublisher() (eventbus.Publisher, error) {
	if c.Config.RabbitMQURL == "" {
		c.Logger.Info("RABBITMQ_URL not set, using noop publisher")
		return eventbus.NewNoopPublisher(c.Logger), nil
	}
	publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
	if err != nil {
		if c.Config.IsDevelopment() {
			c.Logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
			return eventbus.NewNoopPublisher(c.Logger), nil
		}
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return publisher, nil
}

// Close releases connections.
func (c *Container) Close() {
	var errs []error
	if c.RedisClient != nil {
		errs = append(errs, c.RedisClient.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	if err := errors.Join(errs...); err != nil {
		c.Logger.Warn("error while closing container", "error", err)
	}
}
