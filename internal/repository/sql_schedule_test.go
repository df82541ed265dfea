package repository_test

import (
	"context"
	"testing"

	"github.com/alexanderramin/masterplan/internal/domain"
	"github.com/alexanderramin/masterplan/internal/repository"
	"github.com/alexanderramin/masterplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRepo_UpsertItemIsIdempotentPerClassification(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLScheduleRepo(db)
	p, root := testutil.SeedProject(t, db, "Host")
	node := testutil.SeedNode(t, db, root, "Assembly")
	ctx := context.Background()

	first := &domain.ScheduleItem{ProjectID: p.ID, ClassificationID: node.ID, CreatedBy: "u1"}
	require.NoError(t, repo.UpsertItem(ctx, first))
	require.NotZero(t, first.ID)
	assert.Equal(t, domain.ItemNotStarted, first.Status)

	second := &domain.ScheduleItem{ProjectID: p.ID, ClassificationID: node.ID, CreatedBy: "u2"}
	require.NoError(t, repo.UpsertItem(ctx, second))
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.UpdatedBy)
	assert.Equal(t, "u2", *second.UpdatedBy)
	assert.Equal(t, "u1", second.CreatedBy)
}

func TestScheduleRepo_PlansActualsAndView(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLScheduleRepo(db)
	p, root := testutil.SeedProject(t, db, "Host")
	early := testutil.SeedNode(t, db, root, "Early")
	late := testutil.SeedNode(t, db, root, "Late")
	bare := testutil.SeedNode(t, db, root, "Bare")
	ctx := context.Background()

	items := map[string]*domain.ScheduleItem{}
	for _, n := range []*domain.Classification{late, early, bare} {
		item := &domain.ScheduleItem{ProjectID: p.ID, ClassificationID: n.ID, CreatedBy: "u"}
		require.NoError(t, repo.UpsertItem(ctx, item))
		items[n.Name] = item
	}

	require.NoError(t, repo.UpsertPlan(ctx, &domain.SchedulePlan{ItemID: items["Early"].ID, Kind: domain.PlanBaseline,
		StartDate: testutil.Date("2024-01-01"), EndDate: testutil.Date("2024-01-10"), CreatedBy: "u"}))
	require.NoError(t, repo.UpsertPlan(ctx, &domain.SchedulePlan{ItemID: items["Late"].ID, Kind: domain.PlanBaseline,
		StartDate: testutil.Date("2024-03-01"), EndDate: testutil.Date("2024-03-10"), CreatedBy: "u"}))

	replan := &domain.SchedulePlan{ItemID: items["Early"].ID, Kind: domain.PlanBaseline,
		StartDate: testutil.Date("2024-01-02"), EndDate: testutil.Date("2024-01-12"), CreatedBy: "u"}
	require.NoError(t, repo.UpsertPlan(ctx, replan))

	actual := &domain.ScheduleActual{ItemID: items["Early"].ID, StartDate: testutil.DatePtr("2024-01-03"), CreatedBy: "u"}
	require.NoError(t, repo.UpsertActual(ctx, actual))
	require.NoError(t, repo.SetItemStatus(ctx, items["Early"].ID, domain.ItemInProgress, "u"))

	views, err := repo.ListItemViews(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "Early", views[0].ClassificationName)
	assert.Equal(t, "Late", views[1].ClassificationName)
	assert.Equal(t, "Bare", views[2].ClassificationName, "items without baseline sort last")

	assert.Equal(t, "2024-01-12", views[0].BaselineEnd.Format("2006-01-02"), "baseline upsert replaces")
	assert.Equal(t, "2024-01-03", views[0].ActualStart.Format("2006-01-02"))
	assert.Equal(t, domain.ItemInProgress, views[0].Status)
	assert.Nil(t, views[2].BaselineStart)

	assert.ErrorIs(t, repo.SetItemStatus(ctx, 9999, domain.ItemDone, "u"), domain.ErrNotFound)
	_, err = repo.GetItem(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
