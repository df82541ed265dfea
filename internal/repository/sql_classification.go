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

// SQLClassificationRepo implements ClassificationRepo over a DBTX. It never
// writes depth or path; the store's triggers own those columns.
type SQLClassificationRepo struct {
	db db.DBTX
}

func NewSQLClassificationRepo(conn db.DBTX) *SQLClassificationRepo {
	return &SQLClassificationRepo{db: conn}
}

const classificationColumns = `id, project_id, parent_id, name, depth, path, sort_no, is_active,
	owner_dept_id, created_at, updated_at`

func (r *SQLClassificationRepo) Create(ctx context.Context, c *domain.Classification) error {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `INSERT INTO classifications (project_id, parent_id, name, sort_no, is_active, owner_dept_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		c.ProjectID,
		nullableInt64ToValue(c.ParentID),
		c.Name,
		c.SortNo,
		boolToInt(c.IsActive),
		nullableInt64ToValue(c.OwnerDeptID),
		now, now,
	).Scan(&id)
	if err != nil {
		return classifyWriteErr("inserting classification", c, err)
	}

	// Re-read so the trigger-computed depth and path come back.
	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*c = *stored
	return nil
}

func (r *SQLClassificationRepo) GetByID(ctx context.Context, id int64) (*domain.Classification, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+classificationColumns+` FROM classifications WHERE id = ?`, id)
	c, err := scanClassification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("classification %d not found", id)
	}
	return c, err
}

func (r *SQLClassificationRepo) GetRoot(ctx context.Context, projectID int64) (*domain.Classification, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+classificationColumns+` FROM classifications WHERE project_id = ? AND parent_id IS NULL`, projectID)
	c, err := scanClassification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("project %d has no root classification", projectID)
	}
	return c, err
}

func (r *SQLClassificationRepo) List(ctx context.Context, f ClassificationFilter) ([]*domain.Classification, error) {
	var w where
	if f.ProjectID != nil {
		w.add(`project_id = ?`, *f.ProjectID)
	}
	if f.ParentID != nil {
		if *f.ParentID == 0 {
			w.add(`parent_id IS NULL`)
		} else {
			w.add(`parent_id = ?`, *f.ParentID)
		}
	}
	if f.IsActive != nil {
		w.add(`is_active = ?`, boolToInt(*f.IsActive))
	}
	query := `SELECT ` + classificationColumns + ` FROM classifications` + w.String() +
		` ORDER BY ` + ClassificationSort.OrderBy(f.Sort) + ` LIMIT ? OFFSET ?`
	args := append(w.args, f.Page.Limit, f.Page.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing classifications: %w", err)
	}
	defer rows.Close()

	out := []*domain.Classification{}
	for rows.Next() {
		c, err := scanClassification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating classifications: %w", err)
	}
	return out, nil
}

// ListTreeRows returns a project's nodes in tree-builder order. With
// activeOnly, inactive nodes are filtered out, which orphans their subtrees.
func (r *SQLClassificationRepo) ListTreeRows(ctx context.Context, projectID int64, activeOnly bool) ([]domain.Classification, error) {
	query := `SELECT ` + classificationColumns + ` FROM classifications WHERE project_id = ?`
	args := []any{projectID}
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY depth, sort_no, name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing classification tree: %w", err)
	}
	defer rows.Close()

	var out []domain.Classification
	for rows.Next() {
		c, err := scanClassification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating classification tree: %w", err)
	}
	return out, nil
}

func (r *SQLClassificationRepo) SiblingNameExists(ctx context.Context, projectID int64, parentID *int64, name string, excludeID int64) (bool, error) {
	query := `SELECT COUNT(*) FROM classifications
		WHERE project_id = ? AND COALESCE(parent_id, 0) = ? AND name = ? AND id <> ?`
	var parent int64
	if parentID != nil {
		parent = *parentID
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, projectID, parent, name, excludeID).Scan(&n); err != nil {
		return false, fmt.Errorf("checking sibling names: %w", err)
	}
	return n > 0, nil
}

func (r *SQLClassificationRepo) Update(ctx context.Context, c *domain.Classification) error {
	query := `UPDATE classifications SET parent_id = ?, name = ?, sort_no = ?, is_active = ?, owner_dept_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableInt64ToValue(c.ParentID),
		c.Name,
		c.SortNo,
		boolToInt(c.IsActive),
		nullableInt64ToValue(c.OwnerDeptID),
		nowUTC(),
		c.ID,
	)
	if err != nil {
		return classifyWriteErr("updating classification", c, err)
	}
	if err := requireAffected(res, "classification", c.ID); err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *stored
	return nil
}

func (r *SQLClassificationRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM classifications WHERE id = ?`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return domain.InvalidOperation("classification %d is still referenced", id)
		}
		return fmt.Errorf("deleting classification: %w", err)
	}
	return requireAffected(res, "classification", id)
}

func (r *SQLClassificationRepo) CountChildren(ctx context.Context, id int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM classifications WHERE parent_id = ?`, id)
}

func (r *SQLClassificationRepo) CountTasks(ctx context.Context, id int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM tasks WHERE classification_id = ?`, id)
}

func (r *SQLClassificationRepo) CountScheduleItems(ctx context.Context, id int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM schedule_items WHERE classification_id = ? AND deleted_at IS NULL`, id)
}

func (r *SQLClassificationRepo) count(ctx context.Context, query string, id int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting classification dependents: %w", err)
	}
	return n, nil
}

// classifyWriteErr maps store constraint failures onto domain errors so a
// concurrent writer that slips past the guard still gets a typed answer.
func classifyWriteErr(op string, c *domain.Classification, err error) error {
	switch {
	case db.IsUniqueViolation(err):
		if c.ParentID == nil {
			return domain.Conflict("project %d already has a root classification", c.ProjectID)
		}
		return domain.Conflict("classification %q already exists under parent %d", c.Name, *c.ParentID)
	case db.IsCycleViolation(err):
		return domain.InvalidOperation("classification cannot be moved under its own subtree")
	case db.IsForeignKeyViolation(err):
		return domain.NotFound("referenced project or parent classification not found")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func scanClassification(s scanner) (*domain.Classification, error) {
	var c domain.Classification
	var parentID, ownerDeptID sql.NullInt64
	var isActive int
	var createdAt, updatedAt string

	err := s.Scan(
		&c.ID, &c.ProjectID, &parentID, &c.Name, &c.Depth, &c.Path, &c.SortNo, &isActive,
		&ownerDeptID, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning classification: %w", err)
	}
	c.ParentID = nullInt64Ptr(parentID)
	c.OwnerDeptID = nullInt64Ptr(ownerDeptID)
	c.IsActive = intToBool(isActive)
	if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
