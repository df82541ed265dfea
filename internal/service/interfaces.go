package service

import (
	"context"
	"time"

	"github.com/alexanderramin/masterplan/internal/domain"
)

// ProjectQuery carries the list filters accepted by ProjectService.List.
type ProjectQuery struct {
	Q      string
	Status string
	Sort   string
	Limit  int
	Offset int
}

type ProjectService interface {
	List(ctx context.Context, q ProjectQuery) ([]*domain.Project, error)
	Get(ctx context.Context, ref string) (*domain.Project, error)
	Create(ctx context.Context, p *domain.Project) error
	Update(ctx context.Context, ref string, patch domain.ProjectPatch) (*domain.Project, error)
	Delete(ctx context.Context, ref string) error
}

type ClassificationQuery struct {
	ProjectID *int64
	ParentID  *int64
	IsActive  *bool
	Sort      string
	Limit     int
	Offset    int
}

type ClassificationService interface {
	Get(ctx context.Context, id int64) (*domain.Classification, error)
	List(ctx context.Context, q ClassificationQuery) ([]*domain.Classification, error)
	Create(ctx context.Context, c *domain.Classification) error
	Update(ctx context.Context, id int64, patch domain.ClassificationPatch) (*domain.Classification, error)
	Delete(ctx context.Context, id int64) error
	Tree(ctx context.Context, projectID int64, activeOnly bool) ([]*domain.TreeNode, error)
	TreeByRef(ctx context.Context, ref string, activeOnly bool) ([]*domain.TreeNode, error)
	Flat(ctx context.Context, ref string) ([]domain.FlatRow, error)
}

type TaskQuery struct {
	Q                string
	Status           string
	ProjectID        *int64
	ClassificationID *int64
	Sort             string
	Limit            int
	Offset           int
}

type TaskService interface {
	List(ctx context.Context, q TaskQuery) ([]*domain.Task, error)
	Get(ctx context.Context, id int64) (*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
	Complete(ctx context.Context, id int64) (*domain.Task, error)
	Reopen(ctx context.Context, id int64) (*domain.Task, error)
}

// NewScheduleItem is the input of ScheduleService.CreateItem.
type NewScheduleItem struct {
	ProjectRef       string
	ClassificationID int64
	BaselineStart    time.Time
	BaselineEnd      time.Time
	PlanNote         *string
}

// ScheduledItem is a schedule item together with the plan written with it.
type ScheduledItem struct {
	Item *domain.ScheduleItem
	Plan *domain.SchedulePlan
}

type ScheduleService interface {
	ListItems(ctx context.Context, projectRef string) ([]*domain.ScheduleItemView, error)
	CreateItem(ctx context.Context, in NewScheduleItem) (*ScheduledItem, error)
	UpsertCurrent(ctx context.Context, itemID int64, start, end time.Time, note *string) (*domain.SchedulePlan, error)
	UpsertActual(ctx context.Context, itemID int64, start, end *time.Time, memo *string) (*domain.ScheduleActual, error)
}

// DashboardOverview bundles both dashboard reads.
type DashboardOverview struct {
	Buckets  []domain.StatusBucket
	Projects []*domain.ProjectProgress
}

type DashboardService interface {
	StatusCounts(ctx context.Context) ([]domain.StatusBucket, error)
	Projects(ctx context.Context, statusID *int64) ([]*domain.ProjectProgress, error)
	Overview(ctx context.Context, statusID *int64) (*DashboardOverview, error)
}
