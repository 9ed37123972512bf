package services

import (
	"testing"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/value_objects"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func titles(tasks []domain.PlanTask) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestTopologicalOrderer_DependenciesFirst(t *testing.T) {
	outline := newTask("outline", 30)
	draft := withPriority(newTask("draft", 60), value_objects.PriorityHigh)
	draft.DependsOn = []uuid.UUID{outline.ID}
	review := withPriority(newTask("review", 30), value_objects.PriorityHigh)
	review.DependsOn = []uuid.UUID{draft.ID, outline.ID}

	ordered := NewTopologicalOrderer().Order([]domain.PlanTask{review, draft, outline}, true)

	assert.Equal(t, []string{"outline", "draft", "review"}, titles(ordered))
}

func TestTopologicalOrderer_PriorityBreaksTies(t *testing.T) {
	low := withPriority(newTask("low", 30), value_objects.PriorityLow)
	high := withPriority(newTask("high", 30), value_objects.PriorityHigh)
	medium := newTask("medium", 30)

	ordered := NewTopologicalOrderer().Order([]domain.PlanTask{low, medium, high}, true)
	assert.Equal(t, []string{"high", "medium", "low"}, titles(ordered))

	unordered := NewTopologicalOrderer().Order([]domain.PlanTask{low, medium, high}, false)
	assert.Equal(t, []string{"low", "medium", "high"}, titles(unordered))
}

func TestTopologicalOrderer_DeadlineThenCreation(t *testing.T) {
	later := withDeadline(newTask("later", 30), mondayDay.AddDays(5), 12)
	sooner := withDeadline(newTask("sooner", 30), mondayDay.AddDays(1), 12)
	older := newTask("older", 30)
	older.CreatedAt = monday.Add(-72 * time.Hour)
	newer := newTask("newer", 30)

	ordered := NewTopologicalOrderer().Order([]domain.PlanTask{newer, later, older, sooner}, false)

	assert.Equal(t, []string{"sooner", "later", "older", "newer"}, titles(ordered))
}

func TestTopologicalOrderer_CyclesAndMissingDependencies(t *testing.T) {
	a := newTask("a", 30)
	b := newTask("b", 30)
	c := newTask("c", 30)
	a.DependsOn = []uuid.UUID{b.ID}
	b.DependsOn = []uuid.UUID{a.ID}
	c.DependsOn = []uuid.UUID{uuid.New(), c.ID}

	ordered := NewTopologicalOrderer().Order([]domain.PlanTask{a, b, c}, true)

	assert.Len(t, ordered, 3)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, titles(ordered))
	// c has no dependency inside the set, so it is ready first.
	assert.Equal(t, "c", ordered[0].Title)
}

func TestTopologicalOrderer_Empty(t *testing.T) {
	assert.Empty(t, NewTopologicalOrderer().Order(nil, true))
}
