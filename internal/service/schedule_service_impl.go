package service

import (
	"context"
	"time"

	"github.com/alexanderramin/masterplan/internal/db"
	"github.com/alexanderramin/masterplan/internal/domain"
	"github.com/alexanderramin/masterplan/internal/repository"
)

type scheduleService struct {
	schedules repository.ScheduleRepo
	projects  repository.ProjectRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	now       func() time.Time
}

func NewScheduleService(
	schedules repository.ScheduleRepo,
	projects repository.ProjectRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ScheduleService {
	return &scheduleService{
		schedules: schedules,
		projects:  projects,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		now:       time.Now,
	}
}

// ListItems returns a project's schedule items with their derived due basis,
// plan shift and delay flag evaluated against today.
func (s *scheduleService) ListItems(ctx context.Context, projectRef string) ([]*domain.ScheduleItemView, error) {
	p, err := resolveProject(ctx, s.projects, projectRef)
	if err != nil {
		return nil, err
	}
	views, err := s.schedules.ListItemViews(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	today := s.now().UTC()
	for _, v := range views {
		v.Derive(today)
	}
	return views, nil
}

// CreateItem upserts the item for (project, classification) and its baseline
// plan in one transaction.
func (s *scheduleService) CreateItem(ctx context.Context, in NewScheduleItem) (result *ScheduledItem, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": in.ProjectRef, "classification_id": in.ClassificationID}
	defer observe(ctx, s.observer, "create-schedule-item", startedAt, &err, fields)

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	plan := &domain.SchedulePlan{
		Kind:      domain.PlanBaseline,
		StartDate: in.BaselineStart,
		EndDate:   in.BaselineEnd,
		Note:      in.PlanNote,
		CreatedBy: actor,
	}
	if err = plan.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := resolveProject(ctx, repository.NewSQLProjectRepo(tx), in.ProjectRef)
		if err != nil {
			return err
		}
		c, err := activeClassificationIn(ctx, repository.NewSQLClassificationRepo(tx), in.ClassificationID, p.ID)
		if err != nil {
			return err
		}

		schedules := repository.NewSQLScheduleRepo(tx)
		item := &domain.ScheduleItem{
			ProjectID:        p.ID,
			ClassificationID: c.ID,
			OwnerDeptID:      c.OwnerDeptID,
			CreatedBy:        actor,
		}
		if err := schedules.UpsertItem(ctx, item); err != nil {
			return err
		}
		plan.ItemID = item.ID
		if err := schedules.UpsertPlan(ctx, plan); err != nil {
			return err
		}
		result = &ScheduledItem{Item: item, Plan: plan}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["item_id"] = result.Item.ID
	return result, nil
}

func (s *scheduleService) UpsertCurrent(ctx context.Context, itemID int64, start, end time.Time, note *string) (plan *domain.SchedulePlan, err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.observer, "upsert-current-plan", startedAt, &err, map[string]any{"item_id": itemID})

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	plan = &domain.SchedulePlan{
		ItemID:    itemID,
		Kind:      domain.PlanCurrent,
		StartDate: start,
		EndDate:   end,
		Note:      note,
		CreatedBy: actor,
	}
	if err = plan.Validate(); err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		schedules := repository.NewSQLScheduleRepo(tx)
		if _, err := schedules.GetItem(ctx, itemID); err != nil {
			return err
		}
		return schedules.UpsertPlan(ctx, plan)
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// UpsertActual records the realized dates of an item and moves its status to
// in_progress or done accordingly, in one transaction.
func (s *scheduleService) UpsertActual(ctx context.Context, itemID int64, start, end *time.Time, memo *string) (actual *domain.ScheduleActual, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"item_id": itemID}
	defer observe(ctx, s.observer, "upsert-actual", startedAt, &err, fields)

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	actual = &domain.ScheduleActual{
		ItemID:    itemID,
		StartDate: start,
		EndDate:   end,
		Memo:      memo,
		CreatedBy: actor,
	}
	if err = actual.Validate(); err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		schedules := repository.NewSQLScheduleRepo(tx)
		if _, err := schedules.GetItem(ctx, itemID); err != nil {
			return err
		}
		if err := schedules.UpsertActual(ctx, actual); err != nil {
			return err
		}
		status, ok := actual.DerivedStatus()
		if !ok {
			return nil
		}
		fields["status"] = string(status)
		return schedules.SetItemStatus(ctx, itemID, status, actor)
	})
	if err != nil {
		return nil, err
	}
	return actual, nil
}
