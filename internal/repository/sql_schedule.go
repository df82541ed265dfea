package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/masterplan/internal/db"
	"github.com/alexanderramin/masterplan/internal/domain"
)

// SQLScheduleRepo implements ScheduleRepo. Every write is a single ExecContext
// so callers composing several of them inside one transaction see each as
// one statement.
type SQLScheduleRepo struct {
	db db.DBTX
}

func NewSQLScheduleRepo(conn db.DBTX) *SQLScheduleRepo {
	return &SQLScheduleRepo{db: conn}
}

// UpsertItem inserts or revives the item keyed by (project, classification)
// and fills in its id and status.
func (r *SQLScheduleRepo) UpsertItem(ctx context.Context, item *domain.ScheduleItem) error {
	now := nowUTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO schedule_items
			(project_id, classification_id, owner_dept_id, status, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (project_id, classification_id) DO UPDATE SET
			owner_dept_id = excluded.owner_dept_id,
			updated_at    = excluded.created_at,
			updated_by    = excluded.created_by,
			deleted_at    = NULL`,
		item.ProjectID,
		item.ClassificationID,
		nullableInt64ToValue(item.OwnerDeptID),
		string(domain.ItemNotStarted),
		now,
		item.CreatedBy,
	)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return domain.NotFound("project or classification not found")
		}
		return fmt.Errorf("upserting schedule item: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM schedule_items
		WHERE project_id = ? AND classification_id = ?`, item.ProjectID, item.ClassificationID)
	stored, err := scanItem(row)
	if err != nil {
		return fmt.Errorf("reading upserted schedule item: %w", err)
	}
	*item = *stored
	return nil
}

const itemColumns = `id, project_id, classification_id, owner_dept_id, status,
	created_at, created_by, updated_at, updated_by, deleted_at`

func (r *SQLScheduleRepo) GetItem(ctx context.Context, id int64) (*domain.ScheduleItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM schedule_items WHERE id = ? AND deleted_at IS NULL`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("schedule item %d not found", id)
	}
	return item, err
}

func (r *SQLScheduleRepo) UpsertPlan(ctx context.Context, plan *domain.SchedulePlan) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO schedule_plans
			(item_id, plan_kind, start_date, end_date, plan_note, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (item_id, plan_kind) DO UPDATE SET
			start_date = excluded.start_date,
			end_date   = excluded.end_date,
			plan_note  = excluded.plan_note,
			updated_at = excluded.created_at,
			updated_by = excluded.created_by`,
		plan.ItemID,
		string(plan.Kind),
		plan.StartDate.Format(dateLayout),
		plan.EndDate.Format(dateLayout),
		nullableStringToValue(plan.Note),
		nowUTC(),
		plan.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("upserting %s plan: %w", plan.Kind, err)
	}
	err = r.db.QueryRowContext(ctx, `SELECT id FROM schedule_plans WHERE item_id = ? AND plan_kind = ?`,
		plan.ItemID, string(plan.Kind)).Scan(&plan.ID)
	if err != nil {
		return fmt.Errorf("reading %s plan id: %w", plan.Kind, err)
	}
	return nil
}

func (r *SQLScheduleRepo) UpsertActual(ctx context.Context, a *domain.ScheduleActual) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO schedule_actuals
			(item_id, actual_start_date, actual_end_date, memo, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (item_id) DO UPDATE SET
			actual_start_date = excluded.actual_start_date,
			actual_end_date   = excluded.actual_end_date,
			memo              = excluded.memo,
			updated_at        = excluded.created_at,
			updated_by        = excluded.created_by`,
		a.ItemID,
		nullableTimeToString(a.StartDate, dateLayout),
		nullableTimeToString(a.EndDate, dateLayout),
		nullableStringToValue(a.Memo),
		nowUTC(),
		a.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("upserting actual: %w", err)
	}
	err = r.db.QueryRowContext(ctx, `SELECT id FROM schedule_actuals WHERE item_id = ?`, a.ItemID).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("reading actual id: %w", err)
	}
	return nil
}

func (r *SQLScheduleRepo) SetItemStatus(ctx context.Context, itemID int64, status domain.ScheduleItemStatus, by string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedule_items SET status = ?, updated_at = ?, updated_by = ? WHERE id = ?`,
		string(status), nowUTC(), by, itemID)
	if err != nil {
		return fmt.Errorf("updating schedule item status: %w", err)
	}
	return requireAffected(res, "schedule item", itemID)
}

func (r *SQLScheduleRepo) ListItemViews(ctx context.Context, projectID int64) ([]*domain.ScheduleItemView, error) {
	query := `SELECT i.id, i.project_id, i.classification_id, c.name, c.path, i.owner_dept_id, i.status,
			b.start_date, b.end_date, cu.start_date, cu.end_date, a.actual_start_date, a.actual_end_date
		FROM schedule_items i
		JOIN classifications c ON c.id = i.classification_id
		LEFT JOIN schedule_plans b ON b.item_id = i.id AND b.plan_kind = 'baseline'
		LEFT JOIN schedule_plans cu ON cu.item_id = i.id AND cu.plan_kind = 'current'
		LEFT JOIN schedule_actuals a ON a.item_id = i.id
		WHERE i.project_id = ? AND i.deleted_at IS NULL
		ORDER BY CASE WHEN b.start_date IS NULL THEN 1 ELSE 0 END, b.start_date, i.id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing schedule items: %w", err)
	}
	defer rows.Close()

	views := []*domain.ScheduleItemView{}
	for rows.Next() {
		var v domain.ScheduleItemView
		var ownerDeptID sql.NullInt64
		var status string
		var bs, be, cs, ce, as, ae sql.NullString
		if err := rows.Scan(
			&v.ItemID, &v.ProjectID, &v.ClassificationID, &v.ClassificationName, &v.ClassificationPath,
			&ownerDeptID, &status, &bs, &be, &cs, &ce, &as, &ae,
		); err != nil {
			return nil, fmt.Errorf("scanning schedule item: %w", err)
		}
		v.OwnerDeptID = nullInt64Ptr(ownerDeptID)
		v.Status = domain.ScheduleItemStatus(status)
		v.BaselineStart = parseNullableTime(bs, dateLayout)
		v.BaselineEnd = parseNullableTime(be, dateLayout)
		v.CurrentStart = parseNullableTime(cs, dateLayout)
		v.CurrentEnd = parseNullableTime(ce, dateLayout)
		v.ActualStart = parseNullableTime(as, dateLayout)
		v.ActualEnd = parseNullableTime(ae, dateLayout)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule items: %w", err)
	}
	return views, nil
}

func scanItem(s scanner) (*domain.ScheduleItem, error) {
	var item domain.ScheduleItem
	var ownerDeptID sql.NullInt64
	var status, createdAt string
	var updatedAt, updatedBy, deletedAt sql.NullString

	err := s.Scan(
		&item.ID, &item.ProjectID, &item.ClassificationID, &ownerDeptID, &status,
		&createdAt, &item.CreatedBy, &updatedAt, &updatedBy, &deletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning schedule item: %w", err)
	}
	item.OwnerDeptID = nullInt64Ptr(ownerDeptID)
	item.Status = domain.ScheduleItemStatus(status)
	item.UpdatedBy = nullStringPtr(updatedBy)
	item.UpdatedAt = parseNullableTime(updatedAt, time.RFC3339)
	item.DeletedAt = parseNullableTime(deletedAt, time.RFC3339)
	if item.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	return &item, nil
}
