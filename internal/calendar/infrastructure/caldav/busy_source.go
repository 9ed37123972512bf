// Package caldav reads busy time from a CalDAV calendar such as iCloud,
// Fastmail or Nextcloud.
package caldav

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
)

// SourceName labels this source in logs and metrics.
const SourceName = "caldav"

// Common CalDAV server URLs.
const (
	AppleCalDAVURL    = "https://caldav.icloud.com"
	FastmailCalDAVURL = "https://caldav.fastmail.com"
)

var ErrNoCalendars = errors.New("no calendars found")

// calendarClient is the part of *caldav.Client the source needs.
type calendarClient interface {
	FindCurrentUserPrincipal(ctx context.Context) (string, error)
	FindCalendarHomeSet(ctx context.Context, principal string) (string, error)
	FindCalendars(ctx context.Context, calendarHomeSet string) ([]caldav.Calendar, error)
	QueryCalendar(ctx context.Context, calendar string, query *caldav.CalendarQuery) ([]caldav.CalendarObject, error)
}

// BusySource turns the events of one CalDAV calendar into busy intervals.
// Cancelled and transparent events are ignored and recurring events are
// expanded inside the requested range.
type BusySource struct {
	client       calendarClient
	calendarPath string
	location     *time.Location
	logger       *slog.Logger
}

// NewBusySource connects to baseURL with basic auth. Apple accounts need an
// app-specific password.
func NewBusySource(baseURL, username, password string, logger *slog.Logger) (*BusySource, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	client, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(httpClient, username, password), baseURL)
	if err != nil {
		return nil, fmt.Errorf("create caldav client: %w", err)
	}
	return newBusySource(client, logger), nil
}

func newBusySource(client calendarClient, logger *slog.Logger) *BusySource {
	if logger == nil {
		logger = slog.Default()
	}
	return &BusySource{client: client, location: time.UTC, logger: logger}
}

// WithCalendarPath pins the calendar instead of using the first one found.
func (s *BusySource) WithCalendarPath(path string) *BusySource {
	s.calendarPath = path
	return s
}

// WithLocation sets the zone for floating and all-day times.
func (s *BusySource) WithLocation(loc *time.Location) *BusySource {
	if loc != nil {
		s.location = loc
	}
	return s
}

func (s *BusySource) Name() string { return SourceName }

// FetchBusy implements the calendar busy source contract. The user ID is
// not sent anywhere; one source serves one account.
func (s *BusySource) FetchBusy(ctx context.Context, _ uuid.UUID, start, end time.Time) ([]domain.BusyInterval, error) {
	calPath, err := s.findCalendarPath(ctx)
	if err != nil {
		return nil, err
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name: ical.CompCalendar,
			Comps: []caldav.CalendarCompRequest{{
				Name: ical.CompEvent,
				Props: []string{
					ical.PropUID, ical.PropSummary, ical.PropDateTimeStart, ical.PropDateTimeEnd,
					ical.PropDuration, ical.PropStatus, ical.PropTransparency,
					ical.PropRecurrenceRule, ical.PropRecurrenceDates, ical.PropExceptionDates,
				},
			}},
		},
		CompFilter: caldav.CompFilter{
			Name: ical.CompCalendar,
			Comps: []caldav.CompFilter{{
				Name:  ical.CompEvent,
				Start: start,
				End:   end,
			}},
		},
	}

	objects, err := s.client.QueryCalendar(ctx, calPath, query)
	if err != nil {
		return nil, fmt.Errorf("query calendar: %w", err)
	}

	var busy []domain.BusyInterval
	for i := range objects {
		intervals, err := intervalsFromCalendar(objects[i].Data, start, end, s.location)
		if err != nil {
			s.logger.Warn("skipping unreadable calendar object", "path", objects[i].Path, "error", err)
			continue
		}
		busy = append(busy, intervals...)
	}
	return busy, nil
}

func (s *BusySource) findCalendarPath(ctx context.Context) (string, error) {
	if s.calendarPath != "" {
		return s.calendarPath, nil
	}

	principal, err := s.client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("find principal: %w", err)
	}
	homeSet, err := s.client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("find calendar home set: %w", err)
	}
	cals, err := s.client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("find calendars: %w", err)
	}
	if len(cals) == 0 {
		return "", ErrNoCalendars
	}
	s.calendarPath = cals[0].Path
	return s.calendarPath, nil
}

// intervalsFromCalendar extracts the busy occurrences of every event in cal
// that overlap [start, end).
func intervalsFromCalendar(cal *ical.Calendar, start, end time.Time, loc *time.Location) ([]domain.BusyInterval, error) {
	if cal == nil {
		return nil, nil
	}

	var out []domain.BusyInterval
	for _, child := range cal.Children {
		if child.Name != ical.CompEvent || !blocksTime(child) {
			continue
		}
		event := &ical.Event{Component: child}
		evStart, err := event.DateTimeStart(loc)
		if err != nil {
			return nil, fmt.Errorf("event start: %w", err)
		}
		evEnd, err := event.DateTimeEnd(loc)
		if err != nil {
			return nil, fmt.Errorf("event end: %w", err)
		}
		length := evEnd.Sub(evStart)
		if length <= 0 {
			continue
		}

		set, err := event.RecurrenceSet(loc)
		if err != nil {
			return nil, fmt.Errorf("event recurrence: %w", err)
		}
		if set == nil {
			if iv := (domain.BusyInterval{Start: evStart, End: evEnd}); iv.Overlaps(start, end) {
				out = append(out, iv)
			}
			continue
		}
		for _, occ := range set.Between(start.Add(-length), end, true) {
			if iv := (domain.BusyInterval{Start: occ, End: occ.Add(length)}); iv.Overlaps(start, end) {
				out = append(out, iv)
			}
		}
	}
	return out, nil
}

// blocksTime reports whether the event occupies the calendar owner.
func blocksTime(c *ical.Component) bool {
	if p := c.Props.Get(ical.PropStatus); p != nil && strings.EqualFold(p.Value, "CANCELLED") {
		return false
	}
	if p := c.Props.Get(ical.PropTransparency); p != nil && strings.EqualFold(p.Value, "TRANSPARENT") {
		return false
	}
	return true
}
