package services

import (
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
)

// DependencyOrderer returns tasks in an order where every task follows the
// tasks it depends on. Each input task appears exactly once in the result.
// With preferPriority set, remaining ties go to the higher priority.
type DependencyOrderer interface {
	Order(tasks []domain.PlanTask, preferPriority bool) []domain.PlanTask
}

// TopologicalOrderer is the default DependencyOrderer.
//
// Dependencies on tasks outside the input are ignored. When a cycle leaves no
// task ready, the best remaining task by the tie-break order is emitted anyway
// so cycles never drop tasks. Ties are broken by priority (if preferred), then
// earliest deadline, then creation time, then input position.
type TopologicalOrderer struct{}

// NewTopologicalOrderer returns the default orderer.
func NewTopologicalOrderer() TopologicalOrderer {
	return TopologicalOrderer{}
}

func (TopologicalOrderer) Order(tasks []domain.PlanTask, preferPriority bool) []domain.PlanTask {
	n := len(tasks)
	indexByID := make(map[uuid.UUID]int, n)
	for i, t := range tasks {
		if _, seen := indexByID[t.ID]; !seen {
			indexByID[t.ID] = i
		}
	}

	pending := make([]int, n)
	dependents := make([][]int, n)
	for i, t := range tasks {
		seen := make(map[int]bool, len(t.DependsOn))
		for _, depID := range t.DependsOn {
			j, ok := indexByID[depID]
			if !ok || j == i || seen[j] {
				continue
			}
			seen[j] = true
			pending[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	less := func(a, b int) bool {
		return orderedBefore(tasks[a], tasks[b], a, b, preferPriority)
	}

	emitted := make([]bool, n)
	ready := make([]int, 0, n)
	for i := range tasks {
		if pending[i] == 0 {
			ready = append(ready, i)
		}
	}

	out := make([]domain.PlanTask, 0, n)
	for len(out) < n {
		var next int
		if len(ready) == 0 {
			next = -1
			for i := range tasks {
				if !emitted[i] && (next < 0 || less(i, next)) {
					next = i
				}
			}
		} else {
			pos := 0
			for k := 1; k < len(ready); k++ {
				if less(ready[k], ready[pos]) {
					pos = k
				}
			}
			next = ready[pos]
			ready = append(ready[:pos], ready[pos+1:]...)
		}

		emitted[next] = true
		out = append(out, tasks[next].Clone())

		for _, dep := range dependents[next] {
			pending[dep]--
			if pending[dep] == 0 && !emitted[dep] {
				ready = append(ready, dep)
			}
		}
	}

	return out
}

func orderedBefore(a, b domain.PlanTask, ai, bi int, preferPriority bool) bool {
	if preferPriority && a.Priority != b.Priority {
		return a.Priority.Rank() > b.Priority.Rank()
	}
	switch {
	case a.DeadlineAt != nil && b.DeadlineAt != nil:
		if !a.DeadlineAt.Equal(*b.DeadlineAt) {
			return a.DeadlineAt.Before(*b.DeadlineAt)
		}
	case a.DeadlineAt != nil:
		return true
	case b.DeadlineAt != nil:
		return false
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return ai < bi
}
