package plan

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/services"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
)

const barWidth = 20

// printReport writes placements grouped by day, skipped tasks, the load of
// the planned week and suggestions. label names a task in the output.
func printReport(out io.Writer, report domain.Report, label func(domain.PlanTask) string) {
	tasks := make(map[uuid.UUID]domain.PlanTask, len(report.Tasks))
	for _, t := range report.Tasks {
		tasks[t.ID] = t
	}

	fmt.Fprintf(out, "Scheduled %d task(s), %s in total\n",
		report.ScheduledCount(), services.FormatMinutes(report.TotalScheduledMinutes))
	fmt.Fprintln(out, strings.Repeat("-", 40))

	placements := append([]domain.Placement(nil), report.Placements...)
	sort.SliceStable(placements, func(i, j int) bool { return placements[i].Day < placements[j].Day })

	var current domain.Day
	for i, p := range placements {
		if i == 0 || p.Day != current {
			current = p.Day
			fmt.Fprintf(out, "%s %s\n", p.Day.Weekday().String()[:3], p.Day)
		}
		note := ""
		if p.Fallback {
			note = " (over soft limit)"
		}
		fmt.Fprintf(out, "  %-6s %s%s\n", services.FormatMinutes(p.Minutes), label(tasks[p.TaskID]), note)
	}

	if len(report.SkippedTasks) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Not scheduled (%d):\n", len(report.SkippedTasks))
		for _, s := range report.SkippedTasks {
			fmt.Fprintf(out, "  %s: %s\n", label(s.Task), s.Reason.Message())
		}
	}

	if len(report.WeekLoads) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Week load:")
		printLoads(out, report.WeekLoads)
	}

	if len(report.Suggestions) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Suggestions:")
		for _, s := range report.Suggestions {
			fmt.Fprintf(out, "  - %s\n", s)
		}
	}
}

func printLoads(out io.Writer, loads []domain.DayLoad) {
	for _, l := range loads {
		marker := ""
		if l.Overloaded {
			marker = " [OVERLOADED]"
		}
		fmt.Fprintf(out, "  %s %s  %s  %s / %s%s\n",
			l.Day.Weekday().String()[:3], l.Day, bar(l.Utilization()),
			services.FormatMinutes(l.Minutes), services.FormatMinutes(l.Capacity), marker)
	}
}

func bar(utilization float64) string {
	filled := int(utilization*barWidth + 0.5)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "]"
}

func titleLabel(t domain.PlanTask) string {
	return t.Title
}
