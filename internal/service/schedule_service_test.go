package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/masterplan/internal/domain"
	"github.com/alexanderramin/masterplan/internal/testutil"
)

func baselineFor(ref string, classificationID int64, start, end string) NewScheduleItem {
	return NewScheduleItem{
		ProjectRef:       ref,
		ClassificationID: classificationID,
		BaselineStart:    testutil.Date(start),
		BaselineEnd:      testutil.Date(end),
	}
}

func TestScheduleCreateItem(t *testing.T) {
	env := newTestEnv(t)
	p, root := testutil.SeedProject(t, env.db, "Schedule", testutil.WithCode("SCH-1"))
	node := testutil.SeedNode(t, env.db, root, "Machining", testutil.WithOwnerDept(42))

	note := "kickoff"
	in := baselineFor("SCH-1", node.ID, "2024-01-01", "2024-01-10")
	in.PlanNote = &note
	got, err := env.schedules.CreateItem(asUser("planner"), in)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.Item.ProjectID)
	assert.Equal(t, int64(42), *got.Item.OwnerDeptID, "owner department is copied from the classification")
	assert.Equal(t, domain.ItemNotStarted, got.Item.Status)
	assert.Equal(t, "planner", got.Item.CreatedBy)
	assert.Equal(t, domain.PlanBaseline, got.Plan.Kind)
	assert.NotZero(t, got.Plan.ID)

	event := env.events.last(t)
	assert.Equal(t, "create-schedule-item", event.Name)
	assert.True(t, event.Success)
	assert.Equal(t, got.Item.ID, event.Fields["item_id"])

	// A second create for the same classification upserts in place.
	again, err := env.schedules.CreateItem(asUser("planner"), baselineFor("SCH-1", node.ID, "2024-02-01", "2024-02-03"))
	require.NoError(t, err)
	assert.Equal(t, got.Item.ID, again.Item.ID)
	assert.Equal(t, got.Plan.ID, again.Plan.ID)

	views, err := env.schedules.ListItems(context.Background(), "SCH-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].BaselineStart.Equal(testutil.Date("2024-02-01")))
}

func TestScheduleCreateItem_Rejections(t *testing.T) {
	env := newTestEnv(t)
	p, root := testutil.SeedProject(t, env.db, "Rejections")
	node := testutil.SeedNode(t, env.db, root, "Node")
	dormant := testutil.SeedNode(t, env.db, root, "Dormant", testutil.Inactive())
	ref := itoa(p.ID)

	_, err := env.schedules.CreateItem(context.Background(), baselineFor(ref, node.ID, "2024-01-01", "2024-01-10"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "caller id required")

	_, err = env.schedules.CreateItem(asUser("u"), baselineFor(ref, node.ID, "2024-01-10", "2024-01-01"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "end before start")

	_, err = env.schedules.CreateItem(asUser("u"), baselineFor(ref, dormant.ID, "2024-01-01", "2024-01-10"))
	assert.ErrorIs(t, err, domain.ErrNotFound, "inactive classification")

	_, err = env.schedules.CreateItem(asUser("u"), baselineFor("NOPE", node.ID, "2024-01-01", "2024-01-10"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.False(t, env.events.last(t).Success)
}

func TestScheduleCreateItem_RollbackOnPlanFailure(t *testing.T) {
	env := newTestEnv(t)
	p, root := testutil.SeedProject(t, env.db, "Rollback")
	node := testutil.SeedNode(t, env.db, root, "Node")

	// ExecContext #1 = item upsert, #2 = baseline plan upsert.
	failUoW := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 2, Err: fmt.Errorf("injected plan failure")}
	failing := newTestEnvWithUoW(env.db, failUoW, &recordingObserver{})

	_, err := failing.schedules.CreateItem(asUser("u"), baselineFor(itoa(p.ID), node.ID, "2024-01-01", "2024-01-10"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected plan failure")
	assert.Equal(t, int32(2), failUoW.Execs())

	views, err := env.schedules.ListItems(context.Background(), itoa(p.ID))
	require.NoError(t, err)
	assert.Empty(t, views, "item insert must roll back with the failed plan")
}

func TestScheduleUpsertActual_DerivesStatus(t *testing.T) {
	env := newTestEnv(t)
	p, root := testutil.SeedProject(t, env.db, "Actuals")
	node := testutil.SeedNode(t, env.db, root, "Node")
	created, err := env.schedules.CreateItem(asUser("u"), baselineFor(itoa(p.ID), node.ID, "2024-01-01", "2024-01-10"))
	require.NoError(t, err)
	itemID := created.Item.ID

	_, err = env.schedules.UpsertActual(asUser("u"), itemID, nil, testutil.DatePtr("2024-01-05"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "end without start")

	_, err = env.schedules.UpsertActual(asUser("u"), itemID, testutil.DatePtr("2024-01-05"), testutil.DatePtr("2024-01-04"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "end before start")

	_, err = env.schedules.UpsertActual(asUser("u"), itemID, testutil.DatePtr("2024-01-02"), nil, nil)
	require.NoError(t, err)
	views, err := env.schedules.ListItems(context.Background(), itoa(p.ID))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, domain.ItemInProgress, views[0].Status)

	actual, err := env.schedules.UpsertActual(asUser("u"), itemID, testutil.DatePtr("2024-01-02"), testutil.DatePtr("2024-01-09"), nil)
	require.NoError(t, err)
	assert.NotZero(t, actual.ID)
	views, err = env.schedules.ListItems(context.Background(), itoa(p.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.ItemDone, views[0].Status)
	assert.True(t, views[0].ActualEnd.Equal(testutil.Date("2024-01-09")))

	_, err = env.schedules.UpsertActual(asUser("u"), 9999, testutil.DatePtr("2024-01-02"), nil, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScheduleUpsertActual_RollbackOnStatusFailure(t *testing.T) {
	env := newTestEnv(t)
	p, root := testutil.SeedProject(t, env.db, "Actual rollback")
	node := testutil.SeedNode(t, env.db, root, "Node")
	created, err := env.schedules.CreateItem(asUser("u"), baselineFor(itoa(p.ID), node.ID, "2024-01-01", "2024-01-10"))
	require.NoError(t, err)

	// ExecContext #1 = actual upsert, #2 = item status update.
	failUoW := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 2, Err: fmt.Errorf("injected status failure")}
	failing := newTestEnvWithUoW(env.db, failUoW, &recordingObserver{})

	_, err = failing.schedules.UpsertActual(asUser("u"), created.Item.ID, testutil.DatePtr("2024-01-02"), testutil.DatePtr("2024-01-03"), nil)
	require.Error(t, err)

	views, err := env.schedules.ListItems(context.Background(), itoa(p.ID))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].ActualStart, "actual upsert rolled back")
	assert.Equal(t, domain.ItemNotStarted, views[0].Status)
}

func TestScheduleListItems_DerivedFields(t *testing.T) {
	env := newTestEnv(t)
	env.schedules.(*scheduleService).now = func() time.Time { return testutil.Date("2024-01-20") }
	p, root := testutil.SeedProject(t, env.db, "Derived")
	late := testutil.SeedNode(t, env.db, root, "Late")
	onTime := testutil.SeedNode(t, env.db, root, "On time")
	unplanned := testutil.SeedNode(t, env.db, root, "Unplanned")
	ref := itoa(p.ID)

	lateItem, err := env.schedules.CreateItem(asUser("u"), baselineFor(ref, late.ID, "2024-01-01", "2024-01-10"))
	require.NoError(t, err)
	_, err = env.schedules.UpsertCurrent(asUser("u"), lateItem.Item.ID, testutil.Date("2024-01-01"), testutil.Date("2024-01-15"), nil)
	require.NoError(t, err)

	onTimeItem, err := env.schedules.CreateItem(asUser("u"), baselineFor(ref, onTime.ID, "2024-01-05", "2024-01-31"))
	require.NoError(t, err)
	_, err = env.schedules.UpsertActual(asUser("u"), onTimeItem.Item.ID, testutil.DatePtr("2024-01-05"), testutil.DatePtr("2024-01-30"), nil)
	require.NoError(t, err)

	_, err = env.schedules.UpsertCurrent(asUser("u"), 9999, testutil.Date("2024-01-01"), testutil.Date("2024-01-02"), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_ = unplanned

	views, err := env.schedules.ListItems(context.Background(), ref)
	require.NoError(t, err)
	require.Len(t, views, 2)

	first := views[0]
	assert.Equal(t, lateItem.Item.ID, first.ItemID, "ordered by baseline start")
	require.NotNil(t, first.PlanShiftDays)
	assert.Equal(t, 5, *first.PlanShiftDays)
	assert.True(t, first.DueEndBasis.Equal(testutil.Date("2024-01-15")))
	assert.True(t, first.IsProgressDelayed, "today is past the current end")

	second := views[1]
	assert.Nil(t, second.PlanShiftDays)
	assert.True(t, second.DueEndBasis.Equal(testutil.Date("2024-01-31")))
	assert.False(t, second.IsProgressDelayed)
}
