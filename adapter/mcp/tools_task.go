package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/productivity/application/commands"
	"github.com/Miiduoa/tired-sub002/internal/productivity/application/queries"
	"github.com/felixgeelhaar/mcp-go"
	"github.com/google/uuid"
)

type taskCreateInput struct {
	Title           string   `json:"title" jsonschema:"required"`
	Description     string   `json:"description,omitempty"`
	Priority        string   `json:"priority,omitempty"`
	EstimateMinutes int      `json:"estimate_minutes,omitempty"`
	Deadline        string   `json:"deadline,omitempty"`
	PlannedDate     string   `json:"planned_date,omitempty"`
	LockDate        bool     `json:"lock_date,omitempty"`
	DependsOn       []string `json:"depends_on,omitempty"`
}

type taskListInput struct {
	Status      string `json:"status,omitempty"`
	PlannedOn   string `json:"planned_on,omitempty"`
	Unscheduled bool   `json:"unscheduled,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

type taskIDInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
}

type taskRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type taskCompleteOutput struct {
	TaskID   uuid.UUID `json:"task_id"`
	Unlocked []taskRef `json:"unlocked"`
}

type taskTools struct {
	app *cli.App
}

func registerTaskTools(srv *mcp.Server, t taskTools) {
	srv.Tool("task.list").
		Description("List tasks. Status is open (default), all, pending, in_progress, completed or archived").
		Handler(t.list)

	srv.Tool("task.create").
		Description("Create a task with an optional estimate, deadline, planned date and dependencies").
		Handler(t.create)

	srv.Tool("task.complete").
		Description("Complete a task and report the tasks it unblocked").
		Handler(t.complete)
}

func (t taskTools) list(ctx context.Context, input taskListInput) ([]queries.TaskDTO, error) {
	if t.app.Container == nil {
		return nil, errNoDatabase
	}

	query := queries.ListTasksQuery{
		UserID:      t.app.CurrentUserID,
		Status:      input.Status,
		Unscheduled: input.Unscheduled,
		Limit:       input.Limit,
	}
	if input.PlannedOn != "" {
		d, err := cli.ParseDate(input.PlannedOn, t.app.Location())
		if err != nil {
			return nil, err
		}
		query.PlannedOn = &d
	}
	return t.app.ListTasksHandler.Handle(ctx, query)
}

func (t taskTools) create(ctx context.Context, input taskCreateInput) (*commands.CreateTaskResult, error) {
	if t.app.Container == nil {
		return nil, errNoDatabase
	}
	if input.Title == "" {
		return nil, errors.New("title is required")
	}
	loc := t.app.Location()

	cmd := commands.CreateTaskCommand{
		UserID:          t.app.CurrentUserID,
		Title:           input.Title,
		Description:     input.Description,
		Priority:        input.Priority,
		EstimateMinutes: input.EstimateMinutes,
		LockDate:        input.LockDate,
	}
	if input.Deadline != "" {
		d, err := cli.ParseDeadline(input.Deadline, loc)
		if err != nil {
			return nil, err
		}
		cmd.DeadlineAt = &d
	}
	if input.PlannedDate != "" {
		d, err := cli.ParseDate(input.PlannedDate, loc)
		if err != nil {
			return nil, err
		}
		cmd.PlannedDate = &d
	}
	for _, ref := range input.DependsOn {
		id, err := t.app.ResolveTaskID(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("depends_on: %w", err)
		}
		cmd.DependsOn = append(cmd.DependsOn, id)
	}

	return t.app.CreateTaskHandler.Handle(ctx, cmd)
}

func (t taskTools) complete(ctx context.Context, input taskIDInput) (*taskCompleteOutput, error) {
	if t.app.Container == nil {
		return nil, errNoDatabase
	}
	id, err := t.app.ResolveTaskID(ctx, input.TaskID)
	if err != nil {
		return nil, err
	}

	result, err := t.app.CompleteTaskHandler.Handle(ctx, commands.CompleteTaskCommand{
		TaskID: id,
		UserID: t.app.CurrentUserID,
	})
	if err != nil {
		return nil, err
	}
	out := &taskCompleteOutput{TaskID: id, Unlocked: []taskRef{}}
	for _, u := range result.Unlocked {
		out.Unlocked = append(out.Unlocked, taskRef{ID: u.ID, Title: u.Title})
	}
	return out, nil
}
