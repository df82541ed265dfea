package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/masterplan/internal/db"
	"github.com/alexanderramin/masterplan/internal/domain"
	"github.com/alexanderramin/masterplan/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) List(ctx context.Context, q ProjectQuery) ([]*domain.Project, error) {
	page, err := newPage(q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	f := repository.ProjectFilter{Query: strings.TrimSpace(q.Q), Sort: q.Sort, Page: page}
	if q.Status != "" {
		st := domain.ProjectStatus(q.Status)
		if !domain.ValidProjectStatuses[st] {
			return nil, domain.InvalidArgument("invalid project status %q", q.Status)
		}
		f.Status = &st
	}
	return s.projects.List(ctx, f)
}

func (s *projectService) Get(ctx context.Context, ref string) (*domain.Project, error) {
	return resolveProject(ctx, s.projects, ref)
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "create-project", time.Now().UTC(), &err, map[string]any{"name": p.Name})

	p.Name = strings.TrimSpace(p.Name)
	p.Code = normalizeCode(p.Code)
	if p.Status == "" {
		p.Status = domain.ProjectPending
	}
	if err := p.Validate(); err != nil {
		return err
	}
	return s.projects.Create(ctx, p)
}

func (s *projectService) Update(ctx context.Context, ref string, patch domain.ProjectPatch) (updated *domain.Project, err error) {
	defer observe(ctx, s.observer, "update-project", time.Now().UTC(), &err, map[string]any{"project": ref})

	if patch.IsEmpty() {
		return nil, domain.InvalidArgument("no fields to update")
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLProjectRepo(tx)
		current, err := resolveProject(ctx, projects, ref)
		if err != nil {
			return err
		}
		next := patch.Apply(*current)
		next.Name = strings.TrimSpace(next.Name)
		next.Code = normalizeCode(next.Code)
		if err := next.Validate(); err != nil {
			return err
		}
		if err := projects.Update(ctx, &next); err != nil {
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

// Delete removes a project that nothing references any more.
func (s *projectService) Delete(ctx context.Context, ref string) (err error) {
	defer observe(ctx, s.observer, "delete-project", time.Now().UTC(), &err, map[string]any{"project": ref})

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLProjectRepo(tx)
		p, err := resolveProject(ctx, projects, ref)
		if err != nil {
			return err
		}
		deps, err := projects.CountDependents(ctx, p.ID)
		if err != nil {
			return err
		}
		if n := deps.Total(); n > 0 {
			return domain.Blocked(n,
				"project %d is still referenced by %d classifications, %d tasks and %d schedule items",
				p.ID, deps.Classifications, deps.Tasks, deps.ScheduleItems)
		}
		return projects.Delete(ctx, p.ID)
	})
}

func normalizeCode(code *string) *string {
	if code == nil {
		return nil
	}
	return domain.StrPtr(domain.NormalizeProjectCode(*code))
}
