package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/masterplan/internal/config"
	"github.com/alexanderramin/masterplan/internal/db"
	apphttp "github.com/alexanderramin/masterplan/internal/http"
	httpH "github.com/alexanderramin/masterplan/internal/http/handlers"
	"github.com/alexanderramin/masterplan/internal/platform/logger"
	"github.com/alexanderramin/masterplan/internal/platform/tracing"
	"github.com/alexanderramin/masterplan/internal/repository"
	"github.com/alexanderramin/masterplan/internal/service"
)

const ServiceName = "masterplan"

// Version is stamped at build time with -ldflags.
var Version = "dev"

// App owns the process-wide dependencies shared by the HTTP server and the
// CLI commands.
type App struct {
	Config *config.Config
	Log    *logger.Logger
	DB     *db.Database

	Projects        service.ProjectService
	Classifications service.ClassificationService
	Tasks           service.TaskService
	Schedules       service.ScheduleService
	Dashboard       service.DashboardService

	shutdownTracing func(context.Context) error
}

// New opens the database (running migrations) and wires repositories and
// services. Callers must Close the returned App.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return NewWithLogger(ctx, cfg, log)
}

func NewWithLogger(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	shutdown, err := tracing.Init(ctx, log, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: ServiceName,
		Version:     Version,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}

	database, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	log.Info("database ready", "driver", string(database.Dialect))

	// Wire repositories
	conn := database.Conn()
	projectRepo := repository.NewSQLProjectRepo(conn)
	classRepo := repository.NewSQLClassificationRepo(conn)
	taskRepo := repository.NewSQLTaskRepo(conn)
	scheduleRepo := repository.NewSQLScheduleRepo(conn)
	dashboardRepo := repository.NewSQLDashboardRepo(conn)

	// Wire unit of work for transactional operations
	uow := database.UnitOfWork()
	observer := service.NewLogUseCaseObserver(log)

	return &App{
		Config:          cfg,
		Log:             log,
		DB:              database,
		Projects:        service.NewProjectService(projectRepo, uow, observer),
		Classifications: service.NewClassificationService(classRepo, projectRepo, uow, log, observer),
		Tasks:           service.NewTaskService(taskRepo, uow, observer),
		Schedules:       service.NewScheduleService(scheduleRepo, projectRepo, uow, observer),
		Dashboard:       service.NewDashboardService(dashboardRepo, observer),
		shutdownTracing: shutdown,
	}, nil
}

// RouterConfig builds the HTTP handlers over the App's services.
func (a *App) RouterConfig() apphttp.RouterConfig {
	cfg := apphttp.RouterConfig{
		ProjectHandler:        httpH.NewProjectHandler(a.Projects),
		ClassificationHandler: httpH.NewClassificationHandler(a.Classifications),
		TaskHandler:           httpH.NewTaskHandler(a.Tasks),
		ScheduleHandler:       httpH.NewScheduleHandler(a.Schedules),
		DashboardHandler:      httpH.NewDashboardHandler(a.Dashboard),
		HealthHandler:         httpH.NewHealthHandler(a.DB.SQL),
		Log:                   a.Log,
		CORSOrigins:           a.Config.HTTP.CORSOrigins,
	}
	if a.Config.Tracing.Enabled {
		cfg.ServiceName = ServiceName
	}
	return cfg
}

// Close flushes traces and closes the database.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down tracing: %w", err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing database: %w", err))
		}
	}
	a.Log.Sync()
	return errors.Join(errs...)
}
