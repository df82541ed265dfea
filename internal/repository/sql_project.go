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

// SQLProjectRepo implements ProjectRepo over a DBTX.
type SQLProjectRepo struct {
	db db.DBTX
}

// NewSQLProjectRepo creates a new SQLProjectRepo.
func NewSQLProjectRepo(conn db.DBTX) *SQLProjectRepo {
	return &SQLProjectRepo{db: conn}
}

const projectColumns = `id, code, name, customer_code, customer_name, status,
	ordered_at, paused_at, completed_at, due_at, created_at, updated_at`

func (r *SQLProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	now := time.Now().UTC().Truncate(time.Second)
	p.CreatedAt, p.UpdatedAt = now, now
	query := `INSERT INTO projects (code, name, customer_code, customer_name, status,
			ordered_at, paused_at, completed_at, due_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		nullableStringToValue(p.Code),
		p.Name,
		nullableStringToValue(p.CustomerCode),
		nullableStringToValue(p.CustomerName),
		string(p.Status),
		nullableTimeToString(p.OrderedAt, dateLayout),
		nullableTimeToString(p.PausedAt, dateLayout),
		nullableTimeToString(p.CompletedAt, dateLayout),
		nullableTimeToString(p.DueAt, dateLayout),
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	).Scan(&p.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return domain.Conflict("project code %q already exists", derefOr(p.Code, ""))
		}
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("project %d not found", id)
	}
	return p, err
}

func (r *SQLProjectRepo) GetByCode(ctx context.Context, code string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE code = ?`, code)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("project %q not found", code)
	}
	return p, err
}

func (r *SQLProjectRepo) List(ctx context.Context, f ProjectFilter) ([]*domain.Project, error) {
	var w where
	if f.Query != "" {
		pat := likePattern(f.Query)
		w.add(`(LOWER(name) LIKE ? OR LOWER(COALESCE(code, '')) LIKE ?
			OR LOWER(COALESCE(customer_name, '')) LIKE ? OR LOWER(COALESCE(customer_code, '')) LIKE ?)`,
			pat, pat, pat, pat)
	}
	if f.Status != nil {
		w.add(`status = ?`, string(*f.Status))
	}
	query := `SELECT ` + projectColumns + ` FROM projects` + w.String() +
		` ORDER BY ` + ProjectSort.OrderBy(f.Sort) + ` LIMIT ? OFFSET ?`
	args := append(w.args, f.Page.Limit, f.Page.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := []*domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	p.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	query := `UPDATE projects SET code = ?, name = ?, customer_code = ?, customer_name = ?, status = ?,
			ordered_at = ?, paused_at = ?, completed_at = ?, due_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableStringToValue(p.Code),
		p.Name,
		nullableStringToValue(p.CustomerCode),
		nullableStringToValue(p.CustomerName),
		string(p.Status),
		nullableTimeToString(p.OrderedAt, dateLayout),
		nullableTimeToString(p.PausedAt, dateLayout),
		nullableTimeToString(p.CompletedAt, dateLayout),
		nullableTimeToString(p.DueAt, dateLayout),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return domain.Conflict("project code %q already exists", derefOr(p.Code, ""))
		}
		return fmt.Errorf("updating project: %w", err)
	}
	return requireAffected(res, "project", p.ID)
}

func (r *SQLProjectRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return domain.InvalidOperation("project %d is still referenced", id)
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	return requireAffected(res, "project", id)
}

func (r *SQLProjectRepo) CountDependents(ctx context.Context, id int64) (ProjectDependents, error) {
	var d ProjectDependents
	err := r.db.QueryRowContext(ctx, `SELECT
			(SELECT COUNT(*) FROM classifications WHERE project_id = ?),
			(SELECT COUNT(*) FROM tasks WHERE project_id = ?),
			(SELECT COUNT(*) FROM schedule_items WHERE project_id = ?)`,
		id, id, id,
	).Scan(&d.Classifications, &d.Tasks, &d.ScheduleItems)
	if err != nil {
		return d, fmt.Errorf("counting project dependents: %w", err)
	}
	return d, nil
}

func scanProject(s scanner) (*domain.Project, error) {
	var p domain.Project
	var status, createdAt, updatedAt string
	var code, customerCode, customerName sql.NullString
	var orderedAt, pausedAt, completedAt, dueAt sql.NullString

	err := s.Scan(
		&p.ID, &code, &p.Name, &customerCode, &customerName, &status,
		&orderedAt, &pausedAt, &completedAt, &dueAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	p.Code = nullStringPtr(code)
	p.CustomerCode = nullStringPtr(customerCode)
	p.CustomerName = nullStringPtr(customerName)
	p.Status = domain.ProjectStatus(status)
	p.OrderedAt = parseNullableTime(orderedAt, dateLayout)
	p.PausedAt = parseNullableTime(pausedAt, dateLayout)
	p.CompletedAt = parseNullableTime(completedAt, dateLayout)
	p.DueAt = parseNullableTime(dueAt, dateLayout)

	if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func requireAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s rows affected: %w", entity, err)
	}
	if n == 0 {
		return domain.NotFound("%s %d not found", entity, id)
	}
	return nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
