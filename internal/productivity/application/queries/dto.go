package queries

import (
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/application/services"
	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	"github.com/google/uuid"
)

// TaskDTO is a data transfer object for tasks.
type TaskDTO struct {
	ID              uuid.UUID   `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description,omitempty"`
	Status          string      `json:"status"`
	Priority        string      `json:"priority"`
	EstimateMinutes int         `json:"estimate_minutes"`
	DeadlineAt      *time.Time  `json:"deadline_at,omitempty"`
	PlannedDate     string      `json:"planned_date,omitempty"`
	IsDateLocked    bool        `json:"is_date_locked"`
	DependsOn       []uuid.UUID `json:"depends_on,omitempty"`
	Blocked         bool        `json:"blocked"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`

	// Set by GetTask only.
	Blockers   []TaskRefDTO `json:"blockers,omitempty"`
	Dependents []TaskRefDTO `json:"dependents,omitempty"`
}

// TaskRefDTO names a related task.
type TaskRefDTO struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Status string    `json:"status"`
}

func toRefs(tasks []*task.Task) []TaskRefDTO {
	refs := make([]TaskRefDTO, 0, len(tasks))
	for _, t := range tasks {
		refs = append(refs, TaskRefDTO{ID: t.ID(), Title: t.Title(), Status: t.Status().String()})
	}
	return refs
}

// toDTO converts t. all is the owner's full task list, used to tell whether
// t is still blocked by a dependency.
func toDTO(t *task.Task, all []*task.Task) TaskDTO {
	dto := TaskDTO{
		ID:              t.ID(),
		Title:           t.Title(),
		Description:     t.Description(),
		Status:          t.Status().String(),
		Priority:        t.Priority().String(),
		EstimateMinutes: t.Estimate().Minutes(),
		DeadlineAt:      t.DeadlineAt(),
		IsDateLocked:    t.IsDateLocked(),
		DependsOn:       t.DependsOn(),
		Blocked:         !t.IsDone() && !services.CanStart(t, all),
		CompletedAt:     t.CompletedAt(),
		CreatedAt:       t.CreatedAt(),
	}
	if p := t.PlannedDate(); p != nil {
		dto.PlannedDate = p.Format(time.DateOnly)
	}
	return dto
}
