// Package migrations applies the embedded schema for each backend.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)`

// Run applies every pending *.up.sql file for the connection's driver, in
// name order, each in its own transaction.
func Run(ctx context.Context, conn database.Connection) ([]string, error) {
	dir := conn.Driver().String()
	names, err := upFiles(dir)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(ctx, createVersionTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	done, err := appliedVersions(ctx, conn)
	if err != nil {
		return nil, err
	}

	insert := `INSERT INTO schema_migrations (version) VALUES (?)`
	if conn.Driver() == database.DriverPostgres {
		insert = `INSERT INTO schema_migrations (version) VALUES ($1)`
	}

	var applied []string
	for _, name := range names {
		version := strings.TrimSuffix(name, ".up.sql")
		if done[version] {
			continue
		}
		body, err := files.ReadFile(path.Join(dir, name))
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}

		uow := database.NewUnitOfWork(conn)
		txCtx, err := uow.Begin(ctx)
		if err != nil {
			return applied, err
		}
		exec := database.ExecutorFromContext(txCtx, conn)
		if _, err := exec.Exec(txCtx, string(body)); err != nil {
			_ = uow.Rollback(txCtx)
			return applied, fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := exec.Exec(txCtx, insert, version); err != nil {
			_ = uow.Rollback(txCtx)
			return applied, fmt.Errorf("record migration %s: %w", name, err)
		}
		if err := uow.Commit(txCtx); err != nil {
			return applied, fmt.Errorf("commit migration %s: %w", name, err)
		}
		applied = append(applied, version)
	}
	return applied, nil
}

func upFiles(dir string) ([]string, error) {
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations for %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func appliedVersions(ctx context.Context, conn database.Connection) (map[string]bool, error) {
	rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	done := map[string]bool{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		done[v] = true
	}
	return done, rows.Err()
}
