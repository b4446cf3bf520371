package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements returns the DDL for every table, in dependency order.
// Deleting a folder cascades to its subtree, tasks, time entries, closure rows
// and category/chart links.
func schemaStatements(t *TableNames) []string {
	return []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id          UUID PRIMARY KEY,
			user_id     TEXT NOT NULL,
			parent_id   UUID REFERENCES %[1]s (id) ON DELETE CASCADE,
			name        TEXT NOT NULL,
			emoji       TEXT NOT NULL DEFAULT '',
			color       TEXT NOT NULL DEFAULT '',
			sort_order  INTEGER NOT NULL DEFAULT 0,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, t.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_user_parent_idx ON %[1]s (user_id, parent_id, sort_order)`, t.Folders),

		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id             UUID PRIMARY KEY,
			user_id        TEXT NOT NULL,
			ancestor_id    UUID REFERENCES %[2]s (id) ON DELETE CASCADE,
			descendant_id  UUID NOT NULL REFERENCES %[2]s (id) ON DELETE CASCADE,
			depth          INTEGER NOT NULL CHECK (depth >= 0)
		)`, t.FolderHierarchies, t.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_ancestor_idx ON %[1]s (user_id, ancestor_id)`, t.FolderHierarchies),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_descendant_idx ON %[1]s (user_id, descendant_id)`, t.FolderHierarchies),

		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          UUID PRIMARY KEY,
			user_id     TEXT NOT NULL,
			name        TEXT NOT NULL,
			emoji       TEXT NOT NULL DEFAULT '',
			color       TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, t.Categories),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			category_id  UUID NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
			folder_id    UUID NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
			PRIMARY KEY (category_id, folder_id)
		)`, t.CategoryFolders, t.Categories, t.Folders),

		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          UUID PRIMARY KEY,
			user_id     TEXT NOT NULL,
			name        TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, t.Charts),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			chart_id   UUID NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
			folder_id  UUID NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
			PRIMARY KEY (chart_id, folder_id)
		)`, t.ChartFolders, t.Charts, t.Folders),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			chart_id     UUID NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
			category_id  UUID NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
			PRIMARY KEY (chart_id, category_id)
		)`, t.ChartCategories, t.Charts, t.Categories),

		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id           UUID PRIMARY KEY,
			user_id      TEXT NOT NULL,
			folder_id    UUID NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
			description  TEXT NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, t.Tasks, t.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_folder_idx ON %[1]s (folder_id)`, t.Tasks),

		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          UUID PRIMARY KEY,
			user_id     TEXT NOT NULL,
			task_id     UUID NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
			started_at  TIMESTAMPTZ NOT NULL,
			stopped_at  TIMESTAMPTZ NOT NULL,
			duration    BIGINT NOT NULL CHECK (duration >= 0),
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, t.TimeEntries, t.Tasks),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_task_started_idx ON %[1]s (task_id, started_at)`, t.TimeEntries),
	}
}

// Migrate creates every table that does not exist yet, in a single transaction
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, stmt := range schemaStatements(tables) {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// dropStatements drops every table, dependents first
func dropStatements(t *TableNames) []string {
	tables := []string{
		t.TimeEntries,
		t.Tasks,
		t.ChartCategories,
		t.ChartFolders,
		t.Charts,
		t.CategoryFolders,
		t.Categories,
		t.FolderHierarchies,
		t.Folders,
	}

	stmts := make([]string, 0, len(tables))
	for _, table := range tables {
		stmts = append(stmts, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table))
	}
	return stmts
}

// DropSchema removes every table of the prefix. Destroys all data.
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, stmt := range dropStatements(tables) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
	}
	return nil
}
