package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/masterplan/internal/db"
	"github.com/alexanderramin/masterplan/internal/domain"
	"github.com/alexanderramin/masterplan/internal/platform/logger"
	"github.com/alexanderramin/masterplan/internal/repository"
)

// classificationService guards every structural change to a project's
// classification tree. Writes re-read state inside their transaction.
type classificationService struct {
	classes  repository.ClassificationRepo
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	log      *logger.Logger
	observer UseCaseObserver
}

func NewClassificationService(
	classes repository.ClassificationRepo,
	projects repository.ProjectRepo,
	uow db.UnitOfWork,
	log *logger.Logger,
	observers ...UseCaseObserver,
) ClassificationService {
	if log == nil {
		log = logger.NewNop()
	}
	return &classificationService{
		classes:  classes,
		projects: projects,
		uow:      uow,
		log:      log,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *classificationService) Get(ctx context.Context, id int64) (*domain.Classification, error) {
	return s.classes.GetByID(ctx, id)
}

func (s *classificationService) List(ctx context.Context, q ClassificationQuery) ([]*domain.Classification, error) {
	page, err := newPage(q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	if q.ParentID != nil && *q.ParentID < 0 {
		return nil, domain.InvalidArgument("parent_id must not be negative")
	}
	return s.classes.List(ctx, repository.ClassificationFilter{
		ProjectID: q.ProjectID,
		ParentID:  q.ParentID,
		IsActive:  q.IsActive,
		Sort:      q.Sort,
		Page:      page,
	})
}

func (s *classificationService) Create(ctx context.Context, c *domain.Classification) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": c.ProjectID}
	defer observe(ctx, s.observer, "create-classification", startedAt, &err, fields)

	c.Name = strings.TrimSpace(c.Name)
	if err = domain.ValidateClassificationName(c.Name); err != nil {
		return err
	}
	if c.ParentID != nil && *c.ParentID <= 0 {
		return domain.InvalidArgument("parent_id must be a positive id; omit it to create the ROOT node")
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLProjectRepo(tx)
		classes := repository.NewSQLClassificationRepo(tx)

		if _, err := projects.GetByID(ctx, c.ProjectID); err != nil {
			return err
		}

		if c.ParentID == nil {
			if !domain.IsRootName(c.Name) {
				return domain.InvalidArgument("a classification without parent must be named %s", domain.RootName)
			}
			c.Name = domain.RootName
			_, err := classes.GetRoot(ctx, c.ProjectID)
			if err == nil {
				return domain.Conflict("project %d already has a %s classification", c.ProjectID, domain.RootName)
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			return classes.Create(ctx, c)
		}

		if _, err := activeClassificationIn(ctx, classes, *c.ParentID, c.ProjectID); err != nil {
			return err
		}
		if err := s.requireUniqueSibling(ctx, classes, c, 0); err != nil {
			return err
		}
		return classes.Create(ctx, c)
	})
	if err == nil {
		fields["classification_id"] = c.ID
	}
	return err
}

func (s *classificationService) Update(ctx context.Context, id int64, patch domain.ClassificationPatch) (updated *domain.Classification, err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.observer, "update-classification", startedAt, &err, map[string]any{"classification_id": id})

	if patch.IsEmpty() {
		return nil, domain.InvalidArgument("no fields to update")
	}
	if patch.Name != nil {
		if err = domain.ValidateClassificationName(*patch.Name); err != nil {
			return nil, err
		}
	}
	if patch.ParentID != nil && *patch.ParentID <= 0 {
		return nil, domain.InvalidArgument("parent_id must be a positive id")
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		classes := repository.NewSQLClassificationRepo(tx)
		current, err := classes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next := patch.Apply(*current)

		if current.IsRoot() {
			if patch.ParentID != nil {
				return domain.InvalidArgument("the %s classification cannot be given a parent", domain.RootName)
			}
			if !domain.IsRootName(next.Name) {
				return domain.InvalidArgument("the %s classification cannot be renamed", domain.RootName)
			}
			next.Name = domain.RootName
		}

		moved := patch.ParentID != nil && (current.ParentID == nil || *current.ParentID != *patch.ParentID)
		if moved {
			parent, err := activeClassificationIn(ctx, classes, *patch.ParentID, current.ProjectID)
			if err != nil {
				return err
			}
			if domain.IsDescendantPath(current.Path, parent.Path) {
				return domain.InvalidOperation("classification %d cannot be moved under itself or its descendant %d", id, parent.ID)
			}
		}
		if (moved || next.Name != current.Name) && !current.IsRoot() {
			if err := s.requireUniqueSibling(ctx, classes, &next, id); err != nil {
				return err
			}
		}

		if err := classes.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete hard-deletes a leaf classification that no task or schedule item
// references. Each blocking reason reports its own count.
func (s *classificationService) Delete(ctx context.Context, id int64) (err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.observer, "delete-classification", startedAt, &err, map[string]any{"classification_id": id})

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		classes := repository.NewSQLClassificationRepo(tx)
		if _, err := classes.GetByID(ctx, id); err != nil {
			return err
		}

		children, err := classes.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return domain.Blocked(children, "classification %d has %d child classifications", id, children)
		}

		tasks, err := classes.CountTasks(ctx, id)
		if err != nil {
			return err
		}
		if tasks > 0 {
			return domain.Blocked(tasks, "classification %d is referenced by %d tasks", id, tasks)
		}

		items, err := classes.CountScheduleItems(ctx, id)
		if err != nil {
			return err
		}
		if items > 0 {
			return domain.Blocked(items, "classification %d is referenced by %d schedule items", id, items)
		}

		return classes.Delete(ctx, id)
	})
}

func (s *classificationService) Tree(ctx context.Context, projectID int64, activeOnly bool) ([]*domain.TreeNode, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.buildTree(ctx, projectID, activeOnly)
}

func (s *classificationService) TreeByRef(ctx context.Context, ref string, activeOnly bool) ([]*domain.TreeNode, error) {
	p, err := resolveProject(ctx, s.projects, ref)
	if err != nil {
		return nil, err
	}
	return s.buildTree(ctx, p.ID, activeOnly)
}

// Flat lists the three-level breakdown of every depth-3 node under ROOT.
func (s *classificationService) Flat(ctx context.Context, ref string) ([]domain.FlatRow, error) {
	forest, err := s.TreeByRef(ctx, ref, false)
	if err != nil {
		return nil, err
	}
	return domain.FlattenLevels(forest), nil
}

func (s *classificationService) buildTree(ctx context.Context, projectID int64, activeOnly bool) ([]*domain.TreeNode, error) {
	rows, err := s.classes.ListTreeRows(ctx, projectID, activeOnly)
	if err != nil {
		return nil, err
	}
	forest, orphans := domain.BuildTree(rows)
	if len(orphans) > 0 {
		ids := make([]int64, len(orphans))
		for i, o := range orphans {
			ids[i] = o.ID
		}
		s.log.Debug("classification tree dropped orphaned rows",
			"project_id", projectID,
			"active_only", activeOnly,
			"orphan_ids", ids,
		)
	}
	return forest, nil
}

func (s *classificationService) requireUniqueSibling(ctx context.Context, classes repository.ClassificationRepo, c *domain.Classification, excludeID int64) error {
	exists, err := classes.SiblingNameExists(ctx, c.ProjectID, c.ParentID, c.Name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.Conflict("a sibling classification named %q already exists", c.Name)
	}
	return nil
}
