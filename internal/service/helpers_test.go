package service

import (
	"context"
	"database/sql"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/masterplan/internal/db"
	"github.com/alexanderramin/masterplan/internal/domain"
	"github.com/alexanderramin/masterplan/internal/platform/ctxutil"
	"github.com/alexanderramin/masterplan/internal/platform/logger"
	"github.com/alexanderramin/masterplan/internal/repository"
	"github.com/alexanderramin/masterplan/internal/testutil"
)

// testEnv wires every service over one in-memory database.
type testEnv struct {
	db     *sql.DB
	uow    db.UnitOfWork
	events *recordingObserver

	projects        ProjectService
	classifications ClassificationService
	tasks           TaskService
	schedules       ScheduleService
	dashboard       DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	events := &recordingObserver{}
	return newTestEnvWithUoW(database, uow, events)
}

func newTestEnvWithUoW(database *sql.DB, uow db.UnitOfWork, events *recordingObserver) *testEnv {
	projRepo := repository.NewSQLProjectRepo(database)
	return &testEnv{
		db:              database,
		uow:             uow,
		events:          events,
		projects:        NewProjectService(projRepo, uow, events),
		classifications: NewClassificationService(repository.NewSQLClassificationRepo(database), projRepo, uow, logger.NewNop(), events),
		tasks:           NewTaskService(repository.NewSQLTaskRepo(database), uow, events),
		schedules:       NewScheduleService(repository.NewSQLScheduleRepo(database), projRepo, uow, events),
		dashboard:       NewDashboardService(repository.NewSQLDashboardRepo(database), events),
	}
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func asUser(id string) context.Context {
	return ctxutil.WithActor(context.Background(), id)
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) last(t *testing.T) UseCaseEvent {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.events, "expected a use-case event")
	return r.events[len(r.events)-1]
}

func TestNewPage(t *testing.T) {
	p, err := newPage(0, 0)
	require.NoError(t, err)
	assert.Equal(t, repository.DefaultPageLimit, p.Limit)

	p, err = newPage(repository.MaxPageLimit, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Offset)

	_, err = newPage(repository.MaxPageLimit+1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = newPage(-1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = newPage(10, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestResolveProject(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLProjectRepo(database)
	ctx := context.Background()

	p, _ := testutil.SeedProject(t, database, "Ref", testutil.WithCode("HB-130X-1035"))
	numeric, _ := testutil.SeedProject(t, database, "Numeric code", testutil.WithCode("777777"))

	got, err := resolveProject(ctx, repo, "HB-130X(#1035)")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID, "legacy code spelling resolves")

	got, err = resolveProject(ctx, repo, "  HB-130X-1035 ")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	got, err = resolveProject(ctx, repo, "777777")
	require.NoError(t, err)
	assert.Equal(t, numeric.ID, got.ID, "numeric miss falls back to code")

	_, err = resolveProject(ctx, repo, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = resolveProject(ctx, repo, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestLogUseCaseObserver_NilLoggerIsNoop(t *testing.T) {
	obs := NewLogUseCaseObserver(nil)
	_, ok := obs.(NoopUseCaseObserver)
	assert.True(t, ok)
}
