package database

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNoTransaction     = errors.New("no transaction in context")
	ErrDriverUnavailable = errors.New("database driver not registered")
)

// IsNoRows reports a lookup that matched nothing, for either backend.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
