// Package snapshot reads planning inputs from YAML files so the planner can
// run without a database.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/value_objects"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var ErrUnknownDependency = errors.New("dependency refers to an unknown task")

// File is the YAML layout of a snapshot.
//
//	now: 2026-10-21T10:00:00Z
//	timezone: Asia/Taipei
//	daily_capacity_minutes: 180
//	tasks:
//	  - id: essay
//	    title: Write essay
//	    priority: high
//	    estimate_minutes: 90
//	    deadline: 2026-10-23T17:00:00Z
//	    depends_on: [outline]
//	busy:
//	  - start: 2026-10-21T09:00:00Z
//	    end: 2026-10-21T12:00:00Z
type File struct {
	Now                   string `yaml:"now"`
	Timezone              string `yaml:"timezone"`
	WeekStart             string `yaml:"week_start"`
	WeeklyCapacityMinutes int    `yaml:"weekly_capacity_minutes"`
	DailyCapacityMinutes  int    `yaml:"daily_capacity_minutes"`
	Workdays              string `yaml:"workdays"`
	AllowWeekends         bool   `yaml:"allow_weekends"`
	HorizonDays           int    `yaml:"horizon_days"`
	Tasks                 []Task `yaml:"tasks"`
	Busy                  []Busy `yaml:"busy"`
}

// Task is one task of a snapshot. IDs may be any string and are unique
// within the file.
type Task struct {
	ID              string   `yaml:"id"`
	Title           string   `yaml:"title"`
	Priority        string   `yaml:"priority"`
	EstimateMinutes int      `yaml:"estimate_minutes"`
	Deadline        string   `yaml:"deadline"`
	PlannedDate     string   `yaml:"planned_date"`
	Locked          bool     `yaml:"locked"`
	Done            bool     `yaml:"done"`
	DependsOn       []string `yaml:"depends_on"`
}

// Busy is one busy interval of a snapshot. Title is informational.
type Busy struct {
	Title string `yaml:"title"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Snapshot is a decoded file ready for the planner.
type Snapshot struct {
	Now     time.Time
	Options domain.AutoPlanOptions
	Tasks   []domain.PlanTask
	Busy    []domain.BusyInterval
	// Keys maps planner IDs back to the IDs used in the file.
	Keys map[uuid.UUID]string
}

// ReadFile decodes the snapshot at path.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a snapshot. A missing now means the current time.
func Read(r io.Reader) (*Snapshot, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return file.Snapshot(time.Now())
}

// Snapshot converts the file. fallbackNow is used when the file has no now.
func (f File) Snapshot(fallbackNow time.Time) (*Snapshot, error) {
	now := fallbackNow
	if f.Now != "" {
		t, err := parseTime("now", f.Now)
		if err != nil {
			return nil, err
		}
		now = t
	}

	opts, err := f.options(now)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Now:     now,
		Options: opts,
		Keys:    make(map[uuid.UUID]string, len(f.Tasks)),
	}

	keys := make([]string, len(f.Tasks))
	ids := make(map[string]uuid.UUID, len(f.Tasks))
	for i, t := range f.Tasks {
		key := t.ID
		if key == "" {
			key = fmt.Sprintf("task-%d", i+1)
		}
		if _, dup := ids[key]; dup {
			return nil, fmt.Errorf("duplicate task id %q", key)
		}
		keys[i] = key
		ids[key] = taskID(key)
		snap.Keys[ids[key]] = key
	}

	for i, t := range f.Tasks {
		pt, err := t.planTask(ids, opts.Location)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", keys[i], err)
		}
		pt.ID = ids[keys[i]]
		pt.CreatedAt = now.Add(time.Duration(i-len(f.Tasks)) * time.Second)
		snap.Tasks = append(snap.Tasks, pt)
	}

	for i, b := range f.Busy {
		start, err := parseTime(fmt.Sprintf("busy %d start", i+1), b.Start)
		if err != nil {
			return nil, err
		}
		end, err := parseTime(fmt.Sprintf("busy %d end", i+1), b.End)
		if err != nil {
			return nil, err
		}
		snap.Busy = append(snap.Busy, domain.BusyInterval{Start: start, End: end})
	}
	return snap, nil
}

func (f File) options(now time.Time) (domain.AutoPlanOptions, error) {
	var opts []domain.AutoPlanOption

	loc := time.UTC
	if f.Timezone != "" {
		l, err := time.LoadLocation(f.Timezone)
		if err != nil {
			return domain.AutoPlanOptions{}, fmt.Errorf("timezone: %w", err)
		}
		loc = l
	}
	opts = append(opts, domain.WithLocation(loc), domain.WithWeekends(f.AllowWeekends))

	if f.WeekStart != "" {
		d, err := domain.ParseDay(f.WeekStart)
		if err != nil {
			return domain.AutoPlanOptions{}, fmt.Errorf("week_start: %w", err)
		}
		opts = append(opts, domain.WithWeekStart(d))
	}
	if f.Workdays != "" {
		set, err := domain.ParseWorkdaySet(f.Workdays)
		if err != nil {
			return domain.AutoPlanOptions{}, fmt.Errorf("workdays: %w", err)
		}
		opts = append(opts, domain.WithWorkdays(set))
	}
	if f.WeeklyCapacityMinutes > 0 {
		opts = append(opts, domain.WithWeeklyCapacity(f.WeeklyCapacityMinutes))
	}
	if f.DailyCapacityMinutes > 0 {
		opts = append(opts, domain.WithDailyCapacity(f.DailyCapacityMinutes))
	}
	if f.HorizonDays > 0 {
		opts = append(opts, domain.WithHorizonDays(f.HorizonDays))
	}
	return domain.NewAutoPlanOptions(now, opts...)
}

func (t Task) planTask(ids map[string]uuid.UUID, loc *time.Location) (domain.PlanTask, error) {
	pt := domain.PlanTask{
		Title:            t.Title,
		Priority:         value_objects.DefaultPriority,
		EstimatedMinutes: t.EstimateMinutes,
		IsDateLocked:     t.Locked,
		IsDone:           t.Done,
	}
	if t.Priority != "" {
		p, err := value_objects.ParsePriority(t.Priority)
		if err != nil {
			return pt, fmt.Errorf("priority %q: %w", t.Priority, err)
		}
		pt.Priority = p
	}
	if t.Deadline != "" {
		d, err := parseDeadline(t.Deadline, loc)
		if err != nil {
			return pt, err
		}
		pt.DeadlineAt = &d
	}
	if t.PlannedDate != "" {
		d, err := domain.ParseDay(t.PlannedDate)
		if err != nil {
			return pt, fmt.Errorf("planned_date: %w", err)
		}
		pt.PlannedDate = d.Ptr()
	}
	for _, dep := range t.DependsOn {
		id, ok := ids[dep]
		if !ok {
			return pt, fmt.Errorf("%w: %q", ErrUnknownDependency, dep)
		}
		pt.DependsOn = append(pt.DependsOn, id)
	}
	return pt, nil
}

// taskID keeps real UUIDs and derives stable ones for other keys.
func taskID(key string) uuid.UUID {
	if id, err := uuid.Parse(key); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("tired-snapshot:"+key))
}

func parseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}

// parseDeadline accepts RFC 3339 or a bare date, which means the end of
// that day.
func parseDeadline(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("deadline: %w", err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 0, 0, loc), nil
}
