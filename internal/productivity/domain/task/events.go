package task

import (
	"time"

	"github.com/Miiduoa/tired-sub002/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Task"

	RoutingKeyCreated         = "productivity.task.created"
	RoutingKeyStarted         = "productivity.task.started"
	RoutingKeyCompleted       = "productivity.task.completed"
	RoutingKeyArchived        = "productivity.task.archived"
	RoutingKeyPlanned         = "productivity.task.planned"
	RoutingKeyUnplanned       = "productivity.task.unplanned"
	RoutingKeyDependencyAdded = "productivity.task.dependency_added"
)

// TaskCreated is emitted when a new task is created.
type TaskCreated struct {
	domain.BaseEvent
	UserID   uuid.UUID `json:"user_id"`
	Title    string    `json:"title"`
	Priority string    `json:"priority"`
}

func NewTaskCreated(taskID, userID uuid.UUID, title, priority string) *TaskCreated {
	return &TaskCreated{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCreated),
		UserID:    userID,
		Title:     title,
		Priority:  priority,
	}
}

// TaskStarted is emitted when a task moves to in_progress.
type TaskStarted struct {
	domain.BaseEvent
}

func NewTaskStarted(taskID uuid.UUID) *TaskStarted {
	return &TaskStarted{BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyStarted)}
}

// TaskCompleted is emitted when a task is completed.
type TaskCompleted struct {
	domain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
}

func NewTaskCompleted(taskID, userID uuid.UUID) *TaskCompleted {
	return &TaskCompleted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCompleted),
		UserID:    userID,
	}
}

// TaskArchived is emitted when a task is archived.
type TaskArchived struct {
	domain.BaseEvent
}

func NewTaskArchived(taskID uuid.UUID) *TaskArchived {
	return &TaskArchived{BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyArchived)}
}

// TaskPlanned is emitted when a task is put on a date, by hand or by the planner.
type TaskPlanned struct {
	domain.BaseEvent
	PlannedDate string `json:"planned_date"`
	Locked      bool   `json:"locked"`
}

func NewTaskPlanned(taskID uuid.UUID, date time.Time, locked bool) *TaskPlanned {
	return &TaskPlanned{
		BaseEvent:   domain.NewBaseEvent(taskID, AggregateType, RoutingKeyPlanned),
		PlannedDate: date.Format("2006-01-02"),
		Locked:      locked,
	}
}

// TaskUnplanned is emitted when a planned date is cleared.
type TaskUnplanned struct {
	domain.BaseEvent
}

func NewTaskUnplanned(taskID uuid.UUID) *TaskUnplanned {
	return &TaskUnplanned{BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyUnplanned)}
}

// DependencyAdded is emitted when a task becomes blocked by another.
type DependencyAdded struct {
	domain.BaseEvent
	DependsOn uuid.UUID `json:"depends_on"`
}

func NewDependencyAdded(taskID, dependsOn uuid.UUID) *DependencyAdded {
	return &DependencyAdded{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyDependencyAdded),
		DependsOn: dependsOn,
	}
}
