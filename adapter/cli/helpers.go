package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/application/queries"
	"github.com/google/uuid"
)

var (
	ErrTaskNotFound  = errors.New("no task matches")
	ErrAmbiguousTask = errors.New("task id prefix is ambiguous")
)

// ShortID is the prefix shown in listings and accepted by ResolveTaskID.
func ShortID(id uuid.UUID) string {
	return id.String()[:8]
}

// ParseDate reads a YYYY-MM-DD date at midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", value, err)
	}
	return t, nil
}

// ParseDateTime reads "YYYY-MM-DD HH:MM" in loc or an RFC 3339 timestamp.
func ParseDateTime(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (use \"YYYY-MM-DD HH:MM\"): %w", value, err)
	}
	return t, nil
}

// ParseDeadline accepts what ParseDateTime accepts, or a bare date meaning
// the end of that day.
func ParseDeadline(value string, loc *time.Location) (time.Time, error) {
	if !strings.ContainsAny(value, " T") {
		d, err := ParseDate(value, loc)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 0, 0, loc), nil
	}
	return ParseDateTime(value, loc)
}

// Location is the planning time zone of the application.
func (a *App) Location() *time.Location {
	loc, err := a.Config.Location()
	if err != nil {
		return time.Local
	}
	return loc
}

// ResolveTaskID accepts a full task id or a unique prefix of one.
func (a *App) ResolveTaskID(ctx context.Context, ref string) (uuid.UUID, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}
	if ref == "" {
		return uuid.Nil, fmt.Errorf("%w: empty id", ErrTaskNotFound)
	}

	tasks, err := a.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{
		UserID: a.CurrentUserID,
		Status: "all",
	})
	if err != nil {
		return uuid.Nil, err
	}

	var match uuid.UUID
	found := 0
	for _, t := range tasks {
		if strings.HasPrefix(t.ID.String(), ref) {
			match = t.ID
			found++
		}
	}
	switch found {
	case 0:
		return uuid.Nil, fmt.Errorf("%w %q", ErrTaskNotFound, ref)
	case 1:
		return match, nil
	default:
		return uuid.Nil, fmt.Errorf("%w: %q matches %d tasks", ErrAmbiguousTask, ref, found)
	}
}
