// Package persistence stores tasks in SQLite or PostgreSQL.
package persistence

import "errors"

// ErrOptimisticLocking means the task changed since it was loaded.
var ErrOptimisticLocking = errors.New("optimistic locking conflict")
