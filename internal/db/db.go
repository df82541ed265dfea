package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL backend a Database talks to.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// ParseDialect accepts the configured driver name.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Database bundles the connection pool with its dialect.
type Database struct {
	SQL     *sql.DB
	Dialect Dialect
}

// Conn returns a DBTX for non-transactional repository use.
func (d *Database) Conn() DBTX {
	return d.Dialect.Wrap(d.SQL)
}

// UnitOfWork returns a UnitOfWork over the pool.
func (d *Database) UnitOfWork() UnitOfWork {
	return NewUnitOfWork(d.SQL, d.Dialect)
}

func (d *Database) Close() error {
	return d.SQL.Close()
}

// Open connects to the configured backend and runs migrations.
func Open(driver, dsn string) (*Database, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}
	if dialect == SQLite {
		conn, err := OpenDB(dsn)
		if err != nil {
			return nil, err
		}
		return &Database{SQL: conn, Dialect: SQLite}, nil
	}

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := Migrate(conn, Postgres); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Database{SQL: conn, Dialect: Postgres}, nil
}

// OpenDB opens a SQLite database at the given path.
// If path is ":memory:", uses a single-connection in-memory database.
// File databases get WAL mode, foreign keys and a busy timeout on every
// pooled connection. Transactions begin IMMEDIATE so a guard read and the
// write that follows it hold the write lock together.
// Runs migrations automatically.
func OpenDB(path string) (*sql.DB, error) {
	memory := path == ":memory:"
	dsn := path
	if !memory {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
		dsn = "file:" + path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if memory {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling foreign keys: %w", err)
		}
	}

	if err := Migrate(db, SQLite); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}
