package repository

import (
	"context"

	"github.com/alexanderramin/masterplan/internal/domain"
)

type ProjectFilter struct {
	Query  string
	Status *domain.ProjectStatus
	Sort   string
	Page   Page
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	GetByCode(ctx context.Context, code string) (*domain.Project, error)
	List(ctx context.Context, f ProjectFilter) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id int64) error
	CountDependents(ctx context.Context, id int64) (ProjectDependents, error)
}

// ProjectDependents counts the rows that keep a project from being deleted.
type ProjectDependents struct {
	Classifications int
	Tasks           int
	ScheduleItems   int
}

func (d ProjectDependents) Total() int {
	return d.Classifications + d.Tasks + d.ScheduleItems
}

type ClassificationFilter struct {
	ProjectID *int64
	ParentID  *int64 // 0 selects roots
	IsActive  *bool
	Sort      string
	Page      Page
}

type ClassificationRepo interface {
	Create(ctx context.Context, c *domain.Classification) error
	GetByID(ctx context.Context, id int64) (*domain.Classification, error)
	GetRoot(ctx context.Context, projectID int64) (*domain.Classification, error)
	List(ctx context.Context, f ClassificationFilter) ([]*domain.Classification, error)
	ListTreeRows(ctx context.Context, projectID int64, activeOnly bool) ([]domain.Classification, error)
	SiblingNameExists(ctx context.Context, projectID int64, parentID *int64, name string, excludeID int64) (bool, error)
	Update(ctx context.Context, c *domain.Classification) error
	Delete(ctx context.Context, id int64) error
	CountChildren(ctx context.Context, id int64) (int, error)
	CountTasks(ctx context.Context, id int64) (int, error)
	CountScheduleItems(ctx context.Context, id int64) (int, error)
}

type TaskFilter struct {
	Query            string
	Status           string
	ProjectID        *int64
	ClassificationID *int64
	Sort             string
	Page             Page
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	List(ctx context.Context, f TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id int64) error
}

type ScheduleRepo interface {
	UpsertItem(ctx context.Context, item *domain.ScheduleItem) error
	GetItem(ctx context.Context, id int64) (*domain.ScheduleItem, error)
	UpsertPlan(ctx context.Context, plan *domain.SchedulePlan) error
	UpsertActual(ctx context.Context, actual *domain.ScheduleActual) error
	SetItemStatus(ctx context.Context, itemID int64, status domain.ScheduleItemStatus, by string) error
	ListItemViews(ctx context.Context, projectID int64) ([]*domain.ScheduleItemView, error)
}

type DashboardRepo interface {
	StatusBuckets(ctx context.Context) ([]domain.StatusBucket, error)
	ProjectProgress(ctx context.Context, statusID *int64) ([]*domain.ProjectProgress, error)
}
