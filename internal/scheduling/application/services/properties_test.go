package services

import (
	"reflect"
	"testing"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/value_objects"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
	"pgregory.net/rapid"
)

type scenario struct {
	tasks []domain.PlanTask
	busy  []domain.BusyInterval
	opts  domain.AutoPlanOptions
	now   time.Time
}

func drawScenario(rt *rapid.T) scenario {
	now := monday.Add(time.Duration(rapid.IntRange(0, 6*24).Draw(rt, "now_hours")) * time.Hour)
	today := domain.DayOf(now, time.UTC)

	n := rapid.IntRange(0, 14).Draw(rt, "tasks")
	tasks := make([]domain.PlanTask, 0, n)
	for i := 0; i < n; i++ {
		task := domain.PlanTask{
			ID:               uuid.New(),
			Priority:         rapid.SampledFrom(value_objects.AllPriorities()).Draw(rt, "priority"),
			EstimatedMinutes: rapid.IntRange(-10, 420).Draw(rt, "estimate"),
			IsDateLocked:     rapid.Bool().Draw(rt, "locked"),
			IsDone:           rapid.Bool().Draw(rt, "done"),
			CreatedAt:        monday.Add(-time.Duration(rapid.IntRange(0, 500).Draw(rt, "age")) * time.Hour),
		}
		if rapid.Bool().Draw(rt, "has_deadline") {
			deadline := today.Start(time.UTC).Add(time.Duration(rapid.IntRange(-72, 24*20).Draw(rt, "deadline_hours")) * time.Hour)
			task.DeadlineAt = &deadline
		}
		if rapid.IntRange(0, 2).Draw(rt, "planned") == 0 {
			task.PlannedDate = today.AddDays(rapid.IntRange(-3, 16).Draw(rt, "planned_offset")).Ptr()
		}
		if i > 0 && rapid.Bool().Draw(rt, "has_dependency") {
			dep := tasks[rapid.IntRange(0, i-1).Draw(rt, "dependency")]
			task.DependsOn = []uuid.UUID{dep.ID}
		}
		tasks = append(tasks, task)
	}

	busy := make([]domain.BusyInterval, 0)
	for i, m := 0, rapid.IntRange(0, 6).Draw(rt, "busy"); i < m; i++ {
		start := today.Start(time.UTC).Add(time.Duration(rapid.IntRange(-24*60, 16*24*60).Draw(rt, "busy_start")) * time.Minute)
		length := time.Duration(rapid.IntRange(-60, 36*60).Draw(rt, "busy_length")) * time.Minute
		busy = append(busy, domain.BusyInterval{Start: start, End: start.Add(length)})
	}

	opts, err := domain.NewAutoPlanOptions(now,
		domain.WithLocation(time.UTC),
		domain.WithDailyCapacity(rapid.IntRange(30, 600).Draw(rt, "capacity")),
		domain.WithWeekends(rapid.Bool().Draw(rt, "weekends")),
		domain.WithHorizonDays(rapid.IntRange(1, 21).Draw(rt, "horizon")),
	)
	if err != nil {
		rt.Fatalf("options: %v", err)
	}

	return scenario{tasks: tasks, busy: busy, opts: opts, now: now}
}

func TestProperty_AutoPlanKeepsEveryTask(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := drawScenario(rt)
		out, count := newTestPlanner(s.now).AutoPlan(s.tasks, s.busy, s.opts)

		if len(out) != len(s.tasks) {
			rt.Fatalf("got %d tasks, want %d", len(out), len(s.tasks))
		}
		placed := 0
		for i := range s.tasks {
			if out[i].ID != s.tasks[i].ID {
				rt.Fatalf("task %d changed identity", i)
			}
			if !s.tasks[i].IsCandidate() {
				if !reflect.DeepEqual(out[i], s.tasks[i]) {
					rt.Fatalf("non-candidate %d was modified", i)
				}
				continue
			}
			if out[i].PlannedDate != nil {
				placed++
				if out[i].IsDateLocked {
					rt.Fatalf("placed task %d is locked", i)
				}
			}
		}
		if placed != count {
			rt.Fatalf("count %d, placed %d", count, placed)
		}
	})
}

func TestProperty_AssignRespectsDeadlinesAndSoftCeiling(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := drawScenario(rt)
		today := s.opts.Today(s.now)
		window := BuildWindow(today, s.opts.HorizonDays, s.opts.Workdays, s.opts.AllowWeekends)
		loads := SeedDayLoad(s.tasks, s.busy, today, today.AddDays(s.opts.HorizonDays+1), time.UTC)

		candidates := make([]domain.PlanTask, 0)
		for _, task := range s.tasks {
			if task.IsCandidate() {
				candidates = append(candidates, task)
			}
		}
		ordered := NewTopologicalOrderer().Order(candidates, true)
		result := Assign(ordered, loads, window, today, s.opts.DailyCapacityMinutes, s.opts.PriorityWeights, time.UTC)

		ceiling := domain.SoftCeiling(s.opts.DailyCapacityMinutes)
		fallbackDays := map[domain.Day]bool{}
		for _, p := range result.Placements {
			if p.Fallback {
				fallbackDays[p.Day] = true
			}
		}

		for _, p := range result.Placements {
			task := taskByID(result.Tasks, p.TaskID)
			if deadline, ok := task.DeadlineDay(time.UTC); ok && p.Day > deadline {
				rt.Fatalf("task placed on %s after deadline %s", p.Day, deadline)
			}
			if p.Day < today {
				rt.Fatalf("task placed in the past on %s", p.Day)
			}
			if !p.Fallback && !fallbackDays[p.Day] && float64(loads.Load(p.Day)) > ceiling {
				rt.Fatalf("day %s load %d above soft ceiling %.1f", p.Day, loads.Load(p.Day), ceiling)
			}
		}
	})
}

func TestProperty_PlanningIsDeterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := drawScenario(rt)
		first := newTestPlanner(s.now).PlanWithReport(domain.CloneTasks(s.tasks), s.busy, s.opts)
		second := newTestPlanner(s.now).PlanWithReport(domain.CloneTasks(s.tasks), s.busy, s.opts)

		if !reflect.DeepEqual(first, second) {
			rt.Fatalf("two runs with identical input differ")
		}
	})
}

func TestProperty_OptimizeIsSafe(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := drawScenario(rt)
		today := s.opts.Today(s.now)
		capacity := s.opts.DailyCapacityMinutes

		result := Optimize(s.tasks, s.opts, today)

		if len(result.Tasks) != len(s.tasks) {
			rt.Fatalf("optimize changed the task count")
		}

		loads := domain.DayLoadMap{}
		for _, task := range result.Tasks {
			if !task.IsDone && task.PlannedDate != nil && *task.PlannedDate >= today {
				loads.Add(*task.PlannedDate, task.Minutes())
			}
		}

		moved := map[uuid.UUID]bool{}
		for _, m := range result.Moves {
			moved[m.TaskID] = true
			task := taskByID(s.tasks, m.TaskID)
			if task.IsDone || task.IsDateLocked || task.PlannedDate == nil {
				rt.Fatalf("optimize moved an ineligible task")
			}
			if deadline, ok := task.DeadlineDay(time.UTC); ok && (deadline <= m.From || m.To > deadline) {
				rt.Fatalf("move %s->%s breaks deadline %s", m.From, m.To, deadline)
			}
			if loads.Load(m.To) > capacity {
				rt.Fatalf("destination %s at %d exceeds capacity %d", m.To, loads.Load(m.To), capacity)
			}
		}

		for i := range s.tasks {
			if !moved[s.tasks[i].ID] && !reflect.DeepEqual(s.tasks[i], result.Tasks[i]) {
				rt.Fatalf("task %d changed without a move", i)
			}
		}
	})
}
