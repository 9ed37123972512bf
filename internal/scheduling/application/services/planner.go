package services

import (
	"log/slog"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
)

// AutoPlanner ties the planning steps together. It keeps no state between
// calls, so one instance may serve concurrent runs.
type AutoPlanner struct {
	clock   domain.Clock
	orderer DependencyOrderer
	logger  *slog.Logger
}

// NewAutoPlanner creates a planner. Nil arguments fall back to the system
// clock, the topological orderer and the default logger.
func NewAutoPlanner(clock domain.Clock, orderer DependencyOrderer, logger *slog.Logger) *AutoPlanner {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if orderer == nil {
		orderer = NewTopologicalOrderer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AutoPlanner{clock: clock, orderer: orderer, logger: logger}
}

// At returns a planner whose clock is fixed at now. Handlers that already
// read the clock to load their snapshot use it so a run sees one instant.
func (p *AutoPlanner) At(now time.Time) *AutoPlanner {
	fixed := *p
	fixed.clock = domain.FixedClock{At: now}
	return &fixed
}

// planRun is the state of one invocation.
type planRun struct {
	now    time.Time
	today  domain.Day
	tasks  []domain.PlanTask
	assign AssignResult
}

// AutoPlan places every candidate it can and returns all tasks, in input
// order, together with the number of tasks placed.
func (p *AutoPlanner) AutoPlan(tasks []domain.PlanTask, busy []domain.BusyInterval, opts domain.AutoPlanOptions) ([]domain.PlanTask, int) {
	run := p.plan(tasks, busy, opts)
	return run.tasks, run.assign.ScheduledCount
}

// PlanWithReport runs AutoPlan and explains the outcome.
func (p *AutoPlanner) PlanWithReport(tasks []domain.PlanTask, busy []domain.BusyInterval, opts domain.AutoPlanOptions) domain.Report {
	run := p.plan(tasks, busy, opts)

	report := domain.Report{
		Tasks:          run.tasks,
		ScheduledTasks: make([]domain.PlanTask, 0, len(run.assign.Placements)),
		Placements:     run.assign.Placements,
		SkippedTasks:   make([]domain.SkippedTask, 0),
		OverloadedDays: make([]domain.Day, 0),
	}

	placed := make(map[uuid.UUID]bool, len(run.assign.Placements))
	for _, pl := range run.assign.Placements {
		placed[pl.TaskID] = true
		report.TotalScheduledMinutes += pl.Minutes
	}
	for _, t := range run.assign.Tasks {
		if placed[t.ID] {
			report.ScheduledTasks = append(report.ScheduledTasks, t)
		}
	}

	highSkipped := 0
	for i, t := range tasks {
		if !t.IsCandidate() || run.tasks[i].PlannedDate != nil {
			continue
		}
		reason := skipReason(t, run.today, opts.DailyCapacityMinutes, opts.Location)
		report.SkippedTasks = append(report.SkippedTasks, domain.SkippedTask{Task: t.Clone(), Reason: reason})
		if opts.PriorityWeights.Weight(t.Priority) >= domain.HighPriorityWeight {
			highSkipped++
		}
	}

	report.WeekLoads = WeekLoad(run.tasks, busy, opts)
	for _, row := range report.WeekLoads {
		if row.Overloaded {
			report.OverloadedDays = append(report.OverloadedDays, row.Day)
		}
	}

	overdue := 0
	for _, t := range tasks {
		if t.IsOverdue(run.now) {
			overdue++
		}
	}

	report.Suggestions = buildSuggestions(suggestionInput{
		scheduled:    run.assign.ScheduledCount,
		totalMinutes: report.TotalScheduledMinutes,
		overloaded:   report.OverloadedDays,
		capacity:     opts.DailyCapacityMinutes,
		skipped:      report.SkippedTasks,
		highSkipped:  highSkipped,
		overdue:      overdue,
	})

	return report
}

// Optimize rebalances already planned tasks around busy, anchored at today.
func (p *AutoPlanner) Optimize(tasks []domain.PlanTask, busy []domain.BusyInterval, opts domain.AutoPlanOptions) domain.OptimizeResult {
	today := opts.Today(p.clock.Now())
	result := OptimizeWithBusy(tasks, busy, opts, today)
	p.logger.Debug("week optimized",
		"today", today.String(),
		"tasks", len(tasks),
		"busy", len(busy),
		"moves", len(result.Moves),
	)
	return result
}

func (p *AutoPlanner) plan(tasks []domain.PlanTask, busy []domain.BusyInterval, opts domain.AutoPlanOptions) planRun {
	now := p.clock.Now()
	today := opts.Today(now)

	window := BuildWindow(today, opts.HorizonDays, opts.Workdays, opts.AllowWeekends)
	loads := SeedDayLoad(tasks, busy, today, today.AddDays(opts.HorizonDays+1), opts.Location)

	candidates := make([]domain.PlanTask, 0, len(tasks))
	for _, t := range tasks {
		if t.IsCandidate() {
			candidates = append(candidates, t.Clone())
		}
	}
	ordered := p.completeOrder(candidates, p.orderer.Order(candidates, opts.PreferPriority))

	assigned := Assign(ordered, loads, window, today, opts.DailyCapacityMinutes, opts.PriorityWeights, opts.Location)

	placedOn := make(map[uuid.UUID]domain.Day, len(assigned.Placements))
	for _, pl := range assigned.Placements {
		placedOn[pl.TaskID] = pl.Day
	}

	out := make([]domain.PlanTask, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
		if !t.IsCandidate() {
			continue
		}
		if day, ok := placedOn[t.ID]; ok {
			out[i].PlannedDate = day.Ptr()
			out[i].IsDateLocked = false
		}
	}

	p.logger.Debug("auto-plan finished",
		"today", today.String(),
		"window_days", len(window),
		"candidates", len(candidates),
		"scheduled", assigned.ScheduledCount,
	)

	return planRun{now: now, today: today, tasks: out, assign: assigned}
}

// completeOrder guards against an orderer that drops, repeats or invents
// tasks. The result holds each candidate exactly once, in the orderer's order
// where it was honored and input order for anything it left out.
func (p *AutoPlanner) completeOrder(candidates, ordered []domain.PlanTask) []domain.PlanTask {
	known := make(map[uuid.UUID]domain.PlanTask, len(candidates))
	for _, c := range candidates {
		known[c.ID] = c
	}

	used := make(map[uuid.UUID]bool, len(candidates))
	out := make([]domain.PlanTask, 0, len(candidates))
	for _, t := range ordered {
		c, ok := known[t.ID]
		if !ok || used[t.ID] {
			continue
		}
		used[t.ID] = true
		out = append(out, c)
	}
	if len(out) != len(known) {
		p.logger.Warn("dependency orderer returned an incomplete order",
			"expected", len(known), "returned", len(out))
		for _, c := range candidates {
			if !used[c.ID] {
				used[c.ID] = true
				out = append(out, c)
			}
		}
	}
	return out
}
