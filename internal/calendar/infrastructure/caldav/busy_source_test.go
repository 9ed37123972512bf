package caldav

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	calendars []caldav.Calendar
	objects   []caldav.CalendarObject
	queryErr  error
	queried   string
	query     *caldav.CalendarQuery
}

func (f *fakeClient) FindCurrentUserPrincipal(context.Context) (string, error) {
	return "/principals/me/", nil
}

func (f *fakeClient) FindCalendarHomeSet(_ context.Context, principal string) (string, error) {
	return principal + "calendars/", nil
}

func (f *fakeClient) FindCalendars(context.Context, string) ([]caldav.Calendar, error) {
	return f.calendars, nil
}

func (f *fakeClient) QueryCalendar(_ context.Context, path string, query *caldav.CalendarQuery) ([]caldav.CalendarObject, error) {
	f.queried, f.query = path, query
	return f.objects, f.queryErr
}

func newEvent(uid string, start, end time.Time, props map[string]string) *ical.Component {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid)
	event.Props.SetDateTime(ical.PropDateTimeStamp, start)
	event.Props.SetDateTime(ical.PropDateTimeStart, start)
	event.Props.SetDateTime(ical.PropDateTimeEnd, end)
	for name, value := range props {
		p := ical.NewProp(name)
		p.Value = value
		event.Props.Set(p)
	}
	return event.Component
}

func object(events ...*ical.Component) caldav.CalendarObject {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//tired//test//EN")
	cal.Children = append(cal.Children, events...)
	return caldav.CalendarObject{Path: "/cal/x.ics", Data: cal}
}

var (
	rangeStart = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	rangeEnd   = rangeStart.AddDate(0, 0, 7)
)

func TestBusySource_FetchBusy(t *testing.T) {
	at := func(day, hour int) time.Time { return time.Date(2026, 10, day, hour, 0, 0, 0, time.UTC) }
	client := &fakeClient{
		calendars: []caldav.Calendar{{Path: "/cal/work/"}, {Path: "/cal/home/"}},
		objects: []caldav.CalendarObject{
			object(newEvent("standup", at(19, 9), at(19, 10), nil)),
			object(newEvent("cancelled", at(20, 9), at(20, 12), map[string]string{ical.PropStatus: "CANCELLED"})),
			object(newEvent("free", at(21, 9), at(21, 12), map[string]string{ical.PropTransparency: "TRANSPARENT"})),
			object(newEvent("before", at(12, 9), at(12, 10), nil)),
		},
	}
	src := newBusySource(client, nil)
	assert.Equal(t, SourceName, src.Name())

	busy, err := src.FetchBusy(context.Background(), uuid.New(), rangeStart, rangeEnd)
	require.NoError(t, err)
	assert.Equal(t, []domain.BusyInterval{{Start: at(19, 9), End: at(19, 10)}}, busy)
	assert.Equal(t, "/cal/work/", client.queried)
	require.Len(t, client.query.CompFilter.Comps, 1)
	assert.Equal(t, rangeStart, client.query.CompFilter.Comps[0].Start)
	assert.Equal(t, rangeEnd, client.query.CompFilter.Comps[0].End)
}

func TestBusySource_ExpandsRecurrence(t *testing.T) {
	first := time.Date(2026, 10, 12, 14, 0, 0, 0, time.UTC)
	lecture := newEvent("lecture", first, first.Add(90*time.Minute),
		map[string]string{ical.PropRecurrenceRule: "FREQ=WEEKLY;BYDAY=MO,WE;COUNT=10"})
	client := &fakeClient{objects: []caldav.CalendarObject{object(lecture)}}
	src := newBusySource(client, nil).WithCalendarPath("/cal/uni/")

	busy, err := src.FetchBusy(context.Background(), uuid.New(), rangeStart, rangeEnd)
	require.NoError(t, err)
	require.Len(t, busy, 2)
	assert.Equal(t, time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC), busy[0].Start)
	assert.Equal(t, time.Date(2026, 10, 21, 14, 0, 0, 0, time.UTC), busy[1].Start)
	assert.Equal(t, 90, busy[1].Minutes())
	assert.Equal(t, "/cal/uni/", client.queried)
}

func TestBusySource_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := newBusySource(&fakeClient{}, nil).FetchBusy(ctx, uuid.New(), rangeStart, rangeEnd)
	assert.ErrorIs(t, err, ErrNoCalendars)

	boom := errors.New("401 unauthorized")
	_, err = newBusySource(&fakeClient{queryErr: boom}, nil).WithCalendarPath("/c/").FetchBusy(ctx, uuid.New(), rangeStart, rangeEnd)
	assert.ErrorIs(t, err, boom)
}

func TestIntervalsFromCalendar_SkipsEmptyEvents(t *testing.T) {
	start := time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)
	cal := object(newEvent("zero", start, start, nil)).Data

	busy, err := intervalsFromCalendar(cal, rangeStart, rangeEnd, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, busy)

	busy, err = intervalsFromCalendar(nil, rangeStart, rangeEnd, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, busy)
}
