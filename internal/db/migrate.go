package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations for the dialect. Every statement is
// idempotent, so Migrate is safe to run on each start.
func Migrate(db *sql.DB, dialect Dialect) error {
	stmts := sqliteMigrations
	if dialect == Postgres {
		stmts = postgresMigrations
	}
	for i, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := seedStatusCatalog(db, dialect); err != nil {
		return fmt.Errorf("seeding project statuses: %w", err)
	}
	return nil
}

func seedStatusCatalog(db *sql.DB, dialect Dialect) error {
	conn := dialect.Wrap(db)
	for _, s := range statusSeed {
		_, err := conn.ExecContext(context.Background(),
			`INSERT INTO project_statuses (id, code, name, display_order) VALUES (?, ?, ?, ?)
			ON CONFLICT (id) DO NOTHING`,
			s.id, s.code, s.name, s.order,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

var statusSeed = []struct {
	id    int
	code  string
	name  string
	order int
}{
	{1, "pending", "Pending", 1},
	{2, "in_progress", "In progress", 2},
	{3, "paused", "Paused", 3},
	{4, "done", "Done", 4},
}

var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS project_statuses (
		id            INTEGER PRIMARY KEY,
		code          TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL,
		display_order INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		code          TEXT UNIQUE,
		name          TEXT NOT NULL,
		customer_code TEXT,
		customer_name TEXT,
		status        TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','in_progress','paused','done')),
		ordered_at    TEXT,
		paused_at     TEXT,
		completed_at  TEXT,
		due_at        TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS classifications (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id    INTEGER NOT NULL REFERENCES projects(id),
		parent_id     INTEGER REFERENCES classifications(id),
		name          TEXT NOT NULL,
		depth         INTEGER NOT NULL DEFAULT 0,
		path          TEXT NOT NULL DEFAULT '',
		sort_no       INTEGER NOT NULL DEFAULT 0,
		is_active     INTEGER NOT NULL DEFAULT 1,
		owner_dept_id INTEGER,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_classifications_parent ON classifications(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_classifications_tree ON classifications(project_id, depth, sort_no, name)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_classifications_sibling ON classifications(project_id, COALESCE(parent_id, 0), name)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_classifications_root ON classifications(project_id) WHERE parent_id IS NULL`,

	// depth/path follow parent_id; descendants are rewritten on re-parent.
	`CREATE TRIGGER IF NOT EXISTS trg_classifications_path_insert
	AFTER INSERT ON classifications
	BEGIN
		UPDATE classifications SET
			depth = CASE WHEN NEW.parent_id IS NULL THEN 0
				ELSE (SELECT p.depth + 1 FROM classifications p WHERE p.id = NEW.parent_id) END,
			path = CASE WHEN NEW.parent_id IS NULL THEN CAST(NEW.id AS TEXT)
				ELSE (SELECT p.path FROM classifications p WHERE p.id = NEW.parent_id) || '/' || NEW.id END
		WHERE id = NEW.id;
	END`,
	`CREATE TRIGGER IF NOT EXISTS trg_classifications_no_cycle
	BEFORE UPDATE OF parent_id ON classifications
	WHEN NEW.parent_id IS NOT NULL AND (
		NEW.parent_id = NEW.id
		OR (SELECT p.path FROM classifications p WHERE p.id = NEW.parent_id) LIKE OLD.path || '/%'
	)
	BEGIN
		SELECT RAISE(ABORT, 'classification cycle');
	END`,
	`CREATE TRIGGER IF NOT EXISTS trg_classifications_path_update
	AFTER UPDATE OF parent_id ON classifications
	WHEN COALESCE(OLD.parent_id, 0) <> COALESCE(NEW.parent_id, 0)
	BEGIN
		UPDATE classifications SET
			depth = depth - OLD.depth + CASE WHEN NEW.parent_id IS NULL THEN 0
				ELSE (SELECT p.depth + 1 FROM classifications p WHERE p.id = NEW.parent_id) END,
			path = CASE WHEN NEW.parent_id IS NULL THEN CAST(NEW.id AS TEXT)
				ELSE (SELECT p.path FROM classifications p WHERE p.id = NEW.parent_id) || '/' || NEW.id END
				|| substr(path, length(OLD.path) + 1)
		WHERE id = NEW.id OR path LIKE OLD.path || '/%';
	END`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id        INTEGER NOT NULL REFERENCES projects(id),
		classification_id INTEGER NOT NULL REFERENCES classifications(id),
		title             TEXT NOT NULL,
		description       TEXT,
		status            TEXT NOT NULL DEFAULT 'open',
		baseline_start    TEXT,
		baseline_end      TEXT,
		actual_start_date TEXT,
		actual_end_date   TEXT,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_classification ON tasks(classification_id)`,

	`CREATE TABLE IF NOT EXISTS schedule_items (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id        INTEGER NOT NULL REFERENCES projects(id),
		classification_id INTEGER NOT NULL REFERENCES classifications(id),
		owner_dept_id     INTEGER,
		status            TEXT NOT NULL DEFAULT 'not_started' CHECK (status IN ('not_started','in_progress','done')),
		created_at        TEXT NOT NULL,
		created_by        TEXT NOT NULL,
		updated_at        TEXT,
		updated_by        TEXT,
		deleted_at        TEXT,
		UNIQUE (project_id, classification_id)
	)`,
	`CREATE TABLE IF NOT EXISTS schedule_plans (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id    INTEGER NOT NULL REFERENCES schedule_items(id) ON DELETE CASCADE,
		plan_kind  TEXT NOT NULL CHECK (plan_kind IN ('baseline','current')),
		start_date TEXT NOT NULL,
		end_date   TEXT NOT NULL,
		plan_note  TEXT,
		created_at TEXT NOT NULL,
		created_by TEXT NOT NULL,
		updated_at TEXT,
		updated_by TEXT,
		UNIQUE (item_id, plan_kind)
	)`,
	`CREATE TABLE IF NOT EXISTS schedule_actuals (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id           INTEGER NOT NULL UNIQUE REFERENCES schedule_items(id) ON DELETE CASCADE,
		actual_start_date TEXT,
		actual_end_date   TEXT,
		memo              TEXT,
		created_at        TEXT NOT NULL,
		created_by        TEXT NOT NULL,
		updated_at        TEXT,
		updated_by        TEXT
	)`,
}

var postgresMigrations = []string{
	`CREATE TABLE IF NOT EXISTS project_statuses (
		id            BIGINT PRIMARY KEY,
		code          TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL,
		display_order INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id            BIGSERIAL PRIMARY KEY,
		code          TEXT UNIQUE,
		name          TEXT NOT NULL,
		customer_code TEXT,
		customer_name TEXT,
		status        TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','in_progress','paused','done')),
		ordered_at    TEXT,
		paused_at     TEXT,
		completed_at  TEXT,
		due_at        TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS classifications (
		id            BIGSERIAL PRIMARY KEY,
		project_id    BIGINT NOT NULL REFERENCES projects(id),
		parent_id     BIGINT REFERENCES classifications(id),
		name          TEXT NOT NULL,
		depth         INTEGER NOT NULL DEFAULT 0,
		path          TEXT NOT NULL DEFAULT '',
		sort_no       INTEGER NOT NULL DEFAULT 0,
		is_active     INTEGER NOT NULL DEFAULT 1,
		owner_dept_id BIGINT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_classifications_parent ON classifications(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_classifications_tree ON classifications(project_id, depth, sort_no, name)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_classifications_sibling ON classifications(project_id, COALESCE(parent_id, 0), name)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_classifications_root ON classifications(project_id) WHERE parent_id IS NULL`,

	`CREATE OR REPLACE FUNCTION classifications_set_path() RETURNS trigger AS $$
	DECLARE
		parent_depth INTEGER;
		parent_path  TEXT;
	BEGIN
		IF NEW.parent_id IS NULL THEN
			NEW.depth := 0;
			NEW.path := NEW.id::text;
			RETURN NEW;
		END IF;
		SELECT depth, path INTO parent_depth, parent_path FROM classifications WHERE id = NEW.parent_id;
		IF TG_OP = 'UPDATE' AND (NEW.parent_id = NEW.id OR parent_path LIKE OLD.path || '/%') THEN
			RAISE EXCEPTION 'classification cycle';
		END IF;
		NEW.depth := parent_depth + 1;
		NEW.path := parent_path || '/' || NEW.id::text;
		RETURN NEW;
	END
	$$ LANGUAGE plpgsql`,
	`CREATE OR REPLACE FUNCTION classifications_cascade_path() RETURNS trigger AS $$
	BEGIN
		UPDATE classifications SET
			depth = depth - OLD.depth + NEW.depth,
			path = NEW.path || substr(path, length(OLD.path) + 1)
		WHERE path LIKE OLD.path || '/%';
		RETURN NULL;
	END
	$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS trg_classifications_path_insert ON classifications`,
	`CREATE TRIGGER trg_classifications_path_insert
		BEFORE INSERT ON classifications
		FOR EACH ROW EXECUTE FUNCTION classifications_set_path()`,
	`DROP TRIGGER IF EXISTS trg_classifications_path_update ON classifications`,
	`CREATE TRIGGER trg_classifications_path_update
		BEFORE UPDATE OF parent_id ON classifications
		FOR EACH ROW WHEN (OLD.parent_id IS DISTINCT FROM NEW.parent_id)
		EXECUTE FUNCTION classifications_set_path()`,
	`DROP TRIGGER IF EXISTS trg_classifications_path_cascade ON classifications`,
	`CREATE TRIGGER trg_classifications_path_cascade
		AFTER UPDATE OF parent_id ON classifications
		FOR EACH ROW WHEN (OLD.parent_id IS DISTINCT FROM NEW.parent_id)
		EXECUTE FUNCTION classifications_cascade_path()`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id                BIGSERIAL PRIMARY KEY,
		project_id        BIGINT NOT NULL REFERENCES projects(id),
		classification_id BIGINT NOT NULL REFERENCES classifications(id),
		title             TEXT NOT NULL,
		description       TEXT,
		status            TEXT NOT NULL DEFAULT 'open',
		baseline_start    TEXT,
		baseline_end      TEXT,
		actual_start_date TEXT,
		actual_end_date   TEXT,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_classification ON tasks(classification_id)`,

	`CREATE TABLE IF NOT EXISTS schedule_items (
		id                BIGSERIAL PRIMARY KEY,
		project_id        BIGINT NOT NULL REFERENCES projects(id),
		classification_id BIGINT NOT NULL REFERENCES classifications(id),
		owner_dept_id     BIGINT,
		status            TEXT NOT NULL DEFAULT 'not_started' CHECK (status IN ('not_started','in_progress','done')),
		created_at        TEXT NOT NULL,
		created_by        TEXT NOT NULL,
		updated_at        TEXT,
		updated_by        TEXT,
		deleted_at        TEXT,
		UNIQUE (project_id, classification_id)
	)`,
	`CREATE TABLE IF NOT EXISTS schedule_plans (
		id         BIGSERIAL PRIMARY KEY,
		item_id    BIGINT NOT NULL REFERENCES schedule_items(id) ON DELETE CASCADE,
		plan_kind  TEXT NOT NULL CHECK (plan_kind IN ('baseline','current')),
		start_date TEXT NOT NULL,
		end_date   TEXT NOT NULL,
		plan_note  TEXT,
		created_at TEXT NOT NULL,
		created_by TEXT NOT NULL,
		updated_at TEXT,
		updated_by TEXT,
		UNIQUE (item_id, plan_kind)
	)`,
	`CREATE TABLE IF NOT EXISTS schedule_actuals (
		id                BIGSERIAL PRIMARY KEY,
		item_id           BIGINT NOT NULL UNIQUE REFERENCES schedule_items(id) ON DELETE CASCADE,
		actual_start_date TEXT,
		actual_end_date   TEXT,
		memo              TEXT,
		created_at        TEXT NOT NULL,
		created_by        TEXT NOT NULL,
		updated_at        TEXT,
		updated_by        TEXT
	)`,
}
