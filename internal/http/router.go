package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/alexanderramin/masterplan/internal/http/handlers"
	httpMW "github.com/alexanderramin/masterplan/internal/http/middleware"
	"github.com/alexanderramin/masterplan/internal/platform/logger"
)

type RouterConfig struct {
	ProjectHandler        *httpH.ProjectHandler
	ClassificationHandler *httpH.ClassificationHandler
	TaskHandler           *httpH.TaskHandler
	ScheduleHandler       *httpH.ScheduleHandler
	DashboardHandler      *httpH.DashboardHandler
	HealthHandler         *httpH.HealthHandler

	Log         *logger.Logger
	CORSOrigins []string

	// ServiceName enables otelgin spans when non-empty.
	ServiceName string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.AttachCaller())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Projects
		if cfg.ProjectHandler != nil {
			api.GET("/projects", cfg.ProjectHandler.List)
			api.POST("/projects", cfg.ProjectHandler.Create)
			api.GET("/projects/:ref", cfg.ProjectHandler.Get)
			api.PATCH("/projects/:ref", cfg.ProjectHandler.Update)
			api.DELETE("/projects/:ref", cfg.ProjectHandler.Delete)
		}

		// Classifications
		if cfg.ClassificationHandler != nil {
			api.GET("/projects/:ref/classifications/tree", cfg.ClassificationHandler.ProjectTree)
			api.GET("/projects/:ref/classifications/flat", cfg.ClassificationHandler.ProjectFlat)
			api.GET("/classifications", cfg.ClassificationHandler.List)
			api.GET("/classifications/tree", cfg.ClassificationHandler.Tree)
			api.GET("/classifications/:id", cfg.ClassificationHandler.Get)
			api.POST("/classifications", cfg.ClassificationHandler.Create)
			api.PATCH("/classifications/:id", cfg.ClassificationHandler.Update)
			api.DELETE("/classifications/:id", cfg.ClassificationHandler.Delete)
		}

		// Schedule items (writes require a caller)
		if cfg.ScheduleHandler != nil {
			api.GET("/projects/:ref/items", cfg.ScheduleHandler.ListItems)
			writes := api.Group("/", httpMW.RequireCaller())
			writes.POST("/projects/:ref/items", cfg.ScheduleHandler.CreateItem)
			writes.PUT("/schedule-items/:id/current", cfg.ScheduleHandler.UpsertCurrent)
			writes.PUT("/schedule-items/:id/actual", cfg.ScheduleHandler.UpsertActual)
		}

		// Tasks
		if cfg.TaskHandler != nil {
			api.GET("/tasks", cfg.TaskHandler.List)
			api.POST("/tasks", cfg.TaskHandler.Create)
			api.GET("/tasks/:id", cfg.TaskHandler.Get)
			api.PATCH("/tasks/:id", cfg.TaskHandler.Update)
			api.DELETE("/tasks/:id", cfg.TaskHandler.Delete)
			api.POST("/tasks/:id/complete", cfg.TaskHandler.Complete)
			api.POST("/tasks/:id/reopen", cfg.TaskHandler.Reopen)
		}

		// Dashboard
		if cfg.DashboardHandler != nil {
			api.GET("/dashboard/status-counts", cfg.DashboardHandler.StatusCounts)
			api.GET("/dashboard/projects", cfg.DashboardHandler.Projects)
			api.GET("/dashboard/overview", cfg.DashboardHandler.Overview)
		}
	}

	return r
}
