package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/masterplan/internal/db"
	"github.com/alexanderramin/masterplan/internal/domain"
	"github.com/alexanderramin/masterplan/internal/repository"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestDatabase wraps NewTestDB in a *db.Database for code that wants the
// dialect-aware handle.
func NewTestDatabase(t *testing.T) *db.Database {
	t.Helper()
	return &db.Database{SQL: NewTestDB(t), Dialect: db.SQLite}
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// SeedProject stores a project and its ROOT classification directly through
// the repositories, bypassing service validation.
func SeedProject(t *testing.T, conn db.DBTX, name string, opts ...ProjectOption) (*domain.Project, *domain.Classification) {
	t.Helper()
	ctx := context.Background()
	p := NewTestProject(name, opts...)
	if err := repository.NewSQLProjectRepo(conn).Create(ctx, p); err != nil {
		t.Fatalf("seeding project: %v", err)
	}
	root := NewTestClassification(p.ID, domain.RootName)
	if err := repository.NewSQLClassificationRepo(conn).Create(ctx, root); err != nil {
		t.Fatalf("seeding root classification: %v", err)
	}
	return p, root
}

// SeedNode stores a child classification under parent.
func SeedNode(t *testing.T, conn db.DBTX, parent *domain.Classification, name string, opts ...ClassificationOption) *domain.Classification {
	t.Helper()
	c := NewTestClassification(parent.ProjectID, name, append([]ClassificationOption{WithParent(parent.ID)}, opts...)...)
	if err := repository.NewSQLClassificationRepo(conn).Create(context.Background(), c); err != nil {
		t.Fatalf("seeding classification %q: %v", name, err)
	}
	return c
}

// SeedTask stores a task.
func SeedTask(t *testing.T, conn db.DBTX, projectID, classificationID int64, title string, opts ...TaskOption) *domain.Task {
	t.Helper()
	task := NewTestTask(projectID, classificationID, title, opts...)
	if err := repository.NewSQLTaskRepo(conn).Create(context.Background(), task); err != nil {
		t.Fatalf("seeding task %q: %v", title, err)
	}
	return task
}
