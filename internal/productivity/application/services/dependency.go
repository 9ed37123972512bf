package services

import (
	"errors"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/task"
	"github.com/google/uuid"
)

var (
	ErrDependencyNotFound = errors.New("dependency task not found")
	ErrCircularDependency = errors.New("dependency would create a cycle")
	ErrDependencyForeign  = errors.New("dependency belongs to another user")
)

// ValidateDependency checks that taskID may start depending on dependsOnID
// given the user's current tasks.
func ValidateDependency(tasks []*task.Task, taskID, dependsOnID uuid.UUID) error {
	byID := indexTasks(tasks)
	dep, ok := byID[dependsOnID]
	if !ok {
		return ErrDependencyNotFound
	}
	if taskID == dependsOnID {
		return task.ErrSelfDependency
	}
	if t, ok := byID[taskID]; ok && t.UserID() != dep.UserID() {
		return ErrDependencyForeign
	}
	if reaches(byID, dependsOnID, taskID) {
		return ErrCircularDependency
	}
	return nil
}

// CanStart reports whether every known dependency of t is done. Dependencies
// that no longer exist do not block.
func CanStart(t *task.Task, tasks []*task.Task) bool {
	byID := indexTasks(tasks)
	for _, id := range t.DependsOn() {
		if dep, ok := byID[id]; ok && !dep.IsDone() {
			return false
		}
	}
	return true
}

// UnlockedBy lists the open tasks that depended on completedID and can now
// start.
func UnlockedBy(completedID uuid.UUID, tasks []*task.Task) []*task.Task {
	var unlocked []*task.Task
	for _, t := range tasks {
		if t.IsDone() || !dependsOn(t, completedID) {
			continue
		}
		if CanStart(t, tasks) {
			unlocked = append(unlocked, t)
		}
	}
	return unlocked
}

// DependencyChain returns the task and everything it transitively depends on,
// depth first. Each task appears once.
func DependencyChain(taskID uuid.UUID, tasks []*task.Task) []*task.Task {
	byID := indexTasks(tasks)
	seen := make(map[uuid.UUID]bool)
	var chain []*task.Task
	var walk func(id uuid.UUID)
	walk = func(id uuid.UUID) {
		t, ok := byID[id]
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		chain = append(chain, t)
		for _, dep := range t.DependsOn() {
			walk(dep)
		}
	}
	walk(taskID)
	return chain
}

// Dependents returns every task that transitively depends on taskID.
func Dependents(taskID uuid.UUID, tasks []*task.Task) []*task.Task {
	seen := map[uuid.UUID]bool{taskID: true}
	queue := []uuid.UUID{taskID}
	var out []*task.Task
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, t := range tasks {
			if seen[t.ID()] || !dependsOn(t, id) {
				continue
			}
			seen[t.ID()] = true
			out = append(out, t)
			queue = append(queue, t.ID())
		}
	}
	return out
}

func indexTasks(tasks []*task.Task) map[uuid.UUID]*task.Task {
	byID := make(map[uuid.UUID]*task.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID()] = t
	}
	return byID
}

func dependsOn(t *task.Task, id uuid.UUID) bool {
	for _, dep := range t.DependsOn() {
		if dep == id {
			return true
		}
	}
	return false
}

// reaches reports whether target is reachable from start along dependency
// edges.
func reaches(byID map[uuid.UUID]*task.Task, start, target uuid.UUID) bool {
	seen := make(map[uuid.UUID]bool)
	stack := []uuid.UUID{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == target {
			return true
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		if t, ok := byID[id]; ok {
			stack = append(stack, t.DependsOn()...)
		}
	}
	return false
}
