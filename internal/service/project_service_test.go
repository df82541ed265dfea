package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/masterplan/internal/domain"
	"github.com/alexanderramin/masterplan/internal/testutil"
)

func TestProjectCreate_NormalizesAndDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := testutil.NewTestProject("  Line 3 retrofit ", testutil.WithCode("HB-130X(#1035)"))
	p.Status = ""
	require.NoError(t, env.projects.Create(ctx, p))
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Line 3 retrofit", p.Name)
	assert.Equal(t, "HB-130X-1035", *p.Code)
	assert.Equal(t, domain.ProjectPending, p.Status)

	got, err := env.projects.Get(ctx, "HB-130X(#1035)")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	got, err = env.projects.Get(ctx, itoa(p.ID))
	require.NoError(t, err)
	assert.Equal(t, "HB-130X-1035", *got.Code)
}

func TestProjectCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		project *domain.Project
	}{
		{"empty name", testutil.NewTestProject(" ")},
		{"unknown status", testutil.NewTestProject("X", testutil.WithProjectStatus("archived"))},
		{"paused without paused_at", testutil.NewTestProject("X", testutil.WithProjectStatus(domain.ProjectPaused))},
		{"done without completed_at", testutil.NewTestProject("X", testutil.WithProjectStatus(domain.ProjectDone))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, env.projects.Create(ctx, tt.project), domain.ErrInvalidArgument)
		})
	}
}

func TestProjectCreate_DuplicateCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.projects.Create(ctx, testutil.NewTestProject("A", testutil.WithCode("DUP-1"))))
	err := env.projects.Create(ctx, testutil.NewTestProject("B", testutil.WithCode("DUP(#1)")))
	assert.ErrorIs(t, err, domain.ErrConflict, "legacy spelling normalizes onto the same code")
}

func TestProjectUpdate_ValidatesMergedRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, _ := testutil.SeedProject(t, env.db, "Merge")

	done := domain.ProjectDone
	_, err := env.projects.Update(ctx, itoa(p.ID), domain.ProjectPatch{Status: &done})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "done needs completed_at")

	_, err = env.projects.Update(ctx, itoa(p.ID), domain.ProjectPatch{})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "empty patch")

	completed := testutil.Date("2024-05-31")
	updated, err := env.projects.Update(ctx, itoa(p.ID), domain.ProjectPatch{
		Status:      &done,
		CompletedAt: domain.Some(completed),
		Code:        domain.Null[string](),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectDone, updated.Status)
	assert.True(t, updated.CompletedAt.Equal(completed))
	assert.Nil(t, updated.Code)

	// Reopening while completed_at stays set is rejected; clearing it works.
	pending := domain.ProjectPending
	_, err = env.projects.Update(ctx, itoa(p.ID), domain.ProjectPatch{Status: &pending})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	updated, err = env.projects.Update(ctx, itoa(p.ID), domain.ProjectPatch{
		Status:      &pending,
		CompletedAt: domain.Null[time.Time](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.CompletedAt)

	_, err = env.projects.Update(ctx, "missing", domain.ProjectPatch{Status: &pending})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectDelete_Guarded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, root := testutil.SeedProject(t, env.db, "Guarded")
	node := testutil.SeedNode(t, env.db, root, "Node")
	testutil.SeedTask(t, env.db, p.ID, node.ID, "Task")

	err := env.projects.Delete(ctx, itoa(p.ID))
	require.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, 3, domain.CountOf(err), "two classifications and one task")

	empty := testutil.NewTestProject("Empty")
	require.NoError(t, env.projects.Create(ctx, empty))
	require.NoError(t, env.projects.Delete(ctx, *empty.Code))
	_, err = env.projects.Get(ctx, itoa(empty.ID))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	testutil.SeedProject(t, env.db, "Alpha press", testutil.WithCustomer("C-1", "Acme"))
	testutil.SeedProject(t, env.db, "Beta lathe", testutil.WithProjectStatus(domain.ProjectInProgress))

	all, err := env.projects.List(ctx, ProjectQuery{Sort: "name asc"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha press", all[0].Name)

	byCustomer, err := env.projects.List(ctx, ProjectQuery{Q: "ACME"})
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)

	inProgress, err := env.projects.List(ctx, ProjectQuery{Status: "in_progress"})
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	assert.Equal(t, "Beta lathe", inProgress[0].Name)

	_, err = env.projects.List(ctx, ProjectQuery{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	page, err := env.projects.List(ctx, ProjectQuery{Sort: "name asc", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Beta lathe", page[0].Name)
}

func TestProjectWrites_ReportUseCases(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := testutil.NewTestProject("Observed")
	require.NoError(t, env.projects.Create(ctx, p))
	event := env.events.last(t)
	assert.Equal(t, "create-project", event.Name)
	assert.True(t, event.Success)

	_, err := env.projects.Update(ctx, itoa(p.ID), domain.ProjectPatch{})
	require.Error(t, err)
	event = env.events.last(t)
	assert.Equal(t, "update-project", event.Name)
	assert.False(t, event.Success)
	assert.ErrorIs(t, event.Err, domain.ErrInvalidArgument)

	require.NoError(t, env.projects.Delete(ctx, itoa(p.ID)))
	event = env.events.last(t)
	assert.Equal(t, "delete-project", event.Name)
	assert.Equal(t, itoa(p.ID), event.Fields["project"])
}
