package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/masterplan/internal/db"
	"github.com/alexanderramin/masterplan/internal/domain"
	"github.com/alexanderramin/masterplan/internal/repository"
)

type taskService struct {
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TaskService {
	return &taskService{tasks: tasks, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *taskService) List(ctx context.Context, q TaskQuery) ([]*domain.Task, error) {
	page, err := newPage(q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	return s.tasks.List(ctx, repository.TaskFilter{
		Query:            strings.TrimSpace(q.Q),
		Status:           strings.TrimSpace(q.Status),
		ProjectID:        q.ProjectID,
		ClassificationID: q.ClassificationID,
		Sort:             q.Sort,
		Page:             page,
	})
}

func (s *taskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) (created *domain.Task, err error) {
	defer observe(ctx, s.observer, "create-task", time.Now().UTC(), &err,
		map[string]any{"project_id": t.ProjectID, "classification_id": t.ClassificationID})

	t.Title = strings.TrimSpace(t.Title)
	if t.Status == "" {
		t.Status = domain.TaskOpen
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLProjectRepo(tx).GetByID(ctx, t.ProjectID); err != nil {
			return err
		}
		classes := repository.NewSQLClassificationRepo(tx)
		if _, err := activeClassificationIn(ctx, classes, t.ClassificationID, t.ProjectID); err != nil {
			return err
		}
		tasks := repository.NewSQLTaskRepo(tx)
		if err := tasks.Create(ctx, t); err != nil {
			return err
		}
		var getErr error
		created, getErr = tasks.GetByID(ctx, t.ID)
		return getErr
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies patch to the stored task and validates the merged record.
func (s *taskService) Update(ctx context.Context, id int64, patch domain.TaskPatch) (_ *domain.Task, err error) {
	defer observe(ctx, s.observer, "update-task", time.Now().UTC(), &err, map[string]any{"task_id": id})

	if patch.IsEmpty() {
		return nil, domain.InvalidArgument("no fields to update")
	}
	return s.mutate(ctx, id, func(ctx context.Context, tx db.DBTX, current *domain.Task) (*domain.Task, error) {
		next := patch.Apply(*current)
		next.Title = strings.TrimSpace(next.Title)
		if next.ClassificationID != current.ClassificationID {
			classes := repository.NewSQLClassificationRepo(tx)
			if _, err := activeClassificationIn(ctx, classes, next.ClassificationID, next.ProjectID); err != nil {
				return nil, err
			}
		}
		if err := next.Validate(); err != nil {
			return nil, err
		}
		return &next, nil
	})
}

func (s *taskService) Delete(ctx context.Context, id int64) (err error) {
	defer observe(ctx, s.observer, "delete-task", time.Now().UTC(), &err, map[string]any{"task_id": id})
	return s.tasks.Delete(ctx, id)
}

func (s *taskService) Complete(ctx context.Context, id int64) (_ *domain.Task, err error) {
	defer observe(ctx, s.observer, "complete-task", time.Now().UTC(), &err, map[string]any{"task_id": id})
	return s.setStatus(ctx, id, domain.TaskClosed)
}

func (s *taskService) Reopen(ctx context.Context, id int64) (_ *domain.Task, err error) {
	defer observe(ctx, s.observer, "reopen-task", time.Now().UTC(), &err, map[string]any{"task_id": id})
	return s.setStatus(ctx, id, domain.TaskOpen)
}

func (s *taskService) setStatus(ctx context.Context, id int64, status string) (*domain.Task, error) {
	return s.mutate(ctx, id, func(_ context.Context, _ db.DBTX, current *domain.Task) (*domain.Task, error) {
		next := *current
		next.Status = status
		return &next, nil
	})
}

// mutate loads a task, lets change derive the new record and stores it, all
// in one transaction. The stored row is re-read so joined fields stay current.
func (s *taskService) mutate(ctx context.Context, id int64, change func(ctx context.Context, tx db.DBTX, current *domain.Task) (*domain.Task, error)) (*domain.Task, error) {
	var result *domain.Task
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks := repository.NewSQLTaskRepo(tx)
		current, err := tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next, err := change(ctx, tx, current)
		if err != nil {
			return err
		}
		if err := tasks.Update(ctx, next); err != nil {
			return err
		}
		result, err = tasks.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
