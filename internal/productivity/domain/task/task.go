package task

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/value_objects"
	"github.com/Miiduoa/tired-sub002/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrEmptyTitle          = errors.New("task title cannot be empty")
	ErrTaskNotFound        = errors.New("task not found")
	ErrTaskAlreadyComplete = errors.New("task is already completed")
	ErrTaskArchived        = errors.New("task is archived")
	ErrTaskNotPlanned      = errors.New("task has no planned date")
	ErrSelfDependency      = errors.New("task cannot depend on itself")
	ErrTaskNotOwned        = errors.New("task belongs to another user")
)

// Status represents the task lifecycle state.
type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusCompleted
	StatusArchived
)

var statusNames = map[Status]string{
	StatusPending:    "pending",
	StatusInProgress: "in_progress",
	StatusCompleted:  "completed",
	StatusArchived:   "archived",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStatus reads a status name as produced by String.
func ParseStatus(s string) (Status, bool) {
	for status, name := range statusNames {
		if name == s {
			return status, true
		}
	}
	return StatusPending, false
}

// Task is a unit of work owned by one user. A planned date is a calendar
// date stored as UTC midnight.
type Task struct {
	domain.BaseAggregateRoot
	userID       uuid.UUID
	title        string
	description  string
	status       Status
	priority     value_objects.Priority
	estimate     value_objects.Duration
	deadlineAt   *time.Time
	plannedDate  *time.Time
	isDateLocked bool
	dependsOn    []uuid.UUID
	completedAt  *time.Time
}

// NewTask creates a pending, medium priority task.
func NewTask(userID uuid.UUID, title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	t := &Task{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		userID:            userID,
		title:             title,
		status:            StatusPending,
		priority:          value_objects.DefaultPriority,
	}
	t.AddDomainEvent(NewTaskCreated(t.ID(), userID, t.title, t.priority.String()))
	return t, nil
}

// RehydrateTask rebuilds a task from storage. No events are raised.
func RehydrateTask(
	base domain.BaseAggregateRoot,
	userID uuid.UUID,
	title, description string,
	status Status,
	priority value_objects.Priority,
	estimate value_objects.Duration,
	deadlineAt, plannedDate *time.Time,
	isDateLocked bool,
	dependsOn []uuid.UUID,
	completedAt *time.Time,
) *Task {
	return &Task{
		BaseAggregateRoot: base,
		userID:            userID,
		title:             title,
		description:       description,
		status:            status,
		priority:          priority,
		estimate:          estimate,
		deadlineAt:        deadlineAt,
		plannedDate:       normalizeDate(plannedDate),
		isDateLocked:      isDateLocked,
		dependsOn:         dependsOn,
		completedAt:       completedAt,
	}
}

func (t *Task) UserID() uuid.UUID                { return t.userID }
func (t *Task) Title() string                    { return t.title }
func (t *Task) Description() string              { return t.description }
func (t *Task) Status() Status                   { return t.status }
func (t *Task) Priority() value_objects.Priority { return t.priority }
func (t *Task) Estimate() value_objects.Duration { return t.estimate }
func (t *Task) DeadlineAt() *time.Time           { return t.deadlineAt }
func (t *Task) PlannedDate() *time.Time          { return t.plannedDate }
func (t *Task) IsDateLocked() bool               { return t.isDateLocked }
func (t *Task) DependsOn() []uuid.UUID           { return slices.Clone(t.dependsOn) }
func (t *Task) CompletedAt() *time.Time          { return t.completedAt }
func (t *Task) IsCompleted() bool                { return t.status == StatusCompleted }
func (t *Task) IsArchived() bool                 { return t.status == StatusArchived }

// IsDone reports whether the task no longer needs time.
func (t *Task) IsDone() bool {
	return t.IsCompleted() || t.IsArchived()
}

// IsOverdue reports whether an open task is past its deadline.
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.IsDone() && t.deadlineAt != nil && t.deadlineAt.Before(now)
}

func (t *Task) SetTitle(title string) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	t.title = title
	t.Touch()
	return nil
}

func (t *Task) SetDescription(description string) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	t.description = strings.TrimSpace(description)
	t.Touch()
	return nil
}

func (t *Task) SetPriority(priority value_objects.Priority) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	if !priority.IsValid() {
		return value_objects.ErrInvalidPriority
	}
	t.priority = priority
	t.Touch()
	return nil
}

// SetEstimate sets the expected effort. A zero estimate means unknown.
func (t *Task) SetEstimate(estimate value_objects.Duration) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	t.estimate = estimate
	t.Touch()
	return nil
}

func (t *Task) SetDeadline(deadline *time.Time) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	if deadline != nil {
		d := deadline.UTC()
		deadline = &d
	}
	t.deadlineAt = deadline
	t.Touch()
	return nil
}

// PlanFor puts the task on the calendar date of date. Locked dates are left
// alone by automatic planning.
func (t *Task) PlanFor(date time.Time, lock bool) error {
	if t.IsDone() {
		return ErrTaskAlreadyComplete
	}
	planned := normalizeDate(&date)
	if t.plannedDate != nil && t.plannedDate.Equal(*planned) && t.isDateLocked == lock {
		return nil
	}
	t.plannedDate = planned
	t.isDateLocked = lock
	t.Touch()
	t.AddDomainEvent(NewTaskPlanned(t.ID(), *planned, lock))
	return nil
}

// Unplan clears the planned date and its lock.
func (t *Task) Unplan() {
	if t.plannedDate == nil {
		return
	}
	t.plannedDate = nil
	t.isDateLocked = false
	t.Touch()
	t.AddDomainEvent(NewTaskUnplanned(t.ID()))
}

// LockDate pins the current planned date.
func (t *Task) LockDate() error {
	if t.plannedDate == nil {
		return ErrTaskNotPlanned
	}
	t.isDateLocked = true
	t.Touch()
	return nil
}

func (t *Task) UnlockDate() {
	t.isDateLocked = false
	t.Touch()
}

// AddDependency records that this task is blocked by other. Adding an
// existing dependency is a no-op.
func (t *Task) AddDependency(other uuid.UUID) error {
	if other == t.ID() {
		return ErrSelfDependency
	}
	if slices.Contains(t.dependsOn, other) {
		return nil
	}
	t.dependsOn = append(t.dependsOn, other)
	t.Touch()
	t.AddDomainEvent(NewDependencyAdded(t.ID(), other))
	return nil
}

func (t *Task) RemoveDependency(other uuid.UUID) {
	idx := slices.Index(t.dependsOn, other)
	if idx < 0 {
		return
	}
	t.dependsOn = slices.Delete(t.dependsOn, idx, idx+1)
	t.Touch()
}

// Start marks the task as in progress.
func (t *Task) Start() error {
	if t.IsCompleted() {
		return ErrTaskAlreadyComplete
	}
	if t.IsArchived() {
		return ErrTaskArchived
	}
	if t.status == StatusInProgress {
		return nil
	}
	t.status = StatusInProgress
	t.Touch()
	t.AddDomainEvent(NewTaskStarted(t.ID()))
	return nil
}

// Complete marks the task as completed.
func (t *Task) Complete() error {
	if t.IsCompleted() {
		return ErrTaskAlreadyComplete
	}
	if t.IsArchived() {
		return ErrTaskArchived
	}

	now := time.Now().UTC()
	t.status = StatusCompleted
	t.completedAt = &now
	t.Touch()
	t.AddDomainEvent(NewTaskCompleted(t.ID(), t.userID))
	return nil
}

// Archive hides the task. Archiving twice is a no-op.
func (t *Task) Archive() error {
	if t.IsArchived() {
		return nil
	}
	t.status = StatusArchived
	t.Touch()
	t.AddDomainEvent(NewTaskArchived(t.ID()))
	return nil
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &date
}
