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

type SQLTaskRepo struct {
	db db.DBTX
}

func NewSQLTaskRepo(conn db.DBTX) *SQLTaskRepo {
	return &SQLTaskRepo{db: conn}
}

const taskSelect = `SELECT t.id, t.project_id, p.name, t.classification_id, t.title, t.description, t.status,
		t.baseline_start, t.baseline_end, t.actual_start_date, t.actual_end_date, t.created_at, t.updated_at
	FROM tasks t
	JOIN projects p ON p.id = t.project_id`

func (r *SQLTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	now := time.Now().UTC().Truncate(time.Second)
	t.CreatedAt, t.UpdatedAt = now, now
	query := `INSERT INTO tasks (project_id, classification_id, title, description, status,
			baseline_start, baseline_end, actual_start_date, actual_end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		t.ProjectID,
		t.ClassificationID,
		t.Title,
		nullableStringToValue(t.Description),
		t.Status,
		nullableTimeToString(t.BaselineStart, dateLayout),
		nullableTimeToString(t.BaselineEnd, dateLayout),
		nullableTimeToString(t.ActualStartDate, dateLayout),
		nullableTimeToString(t.ActualEndDate, dateLayout),
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	).Scan(&t.ID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return domain.NotFound("project or classification not found")
		}
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLTaskRepo) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, taskSelect+` WHERE t.id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("task %d not found", id)
	}
	return t, err
}

func (r *SQLTaskRepo) List(ctx context.Context, f TaskFilter) ([]*domain.Task, error) {
	var w where
	if f.Query != "" {
		pat := likePattern(f.Query)
		w.add(`(LOWER(t.title) LIKE ? OR LOWER(COALESCE(t.description, '')) LIKE ?)`, pat, pat)
	}
	if f.Status != "" {
		w.add(`t.status = ?`, f.Status)
	}
	if f.ProjectID != nil {
		w.add(`t.project_id = ?`, *f.ProjectID)
	}
	if f.ClassificationID != nil {
		w.add(`t.classification_id = ?`, *f.ClassificationID)
	}
	query := taskSelect + w.String() + ` ORDER BY t.` + TaskSort.OrderBy(f.Sort) + ` LIMIT ? OFFSET ?`
	args := append(w.args, f.Page.Limit, f.Page.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	t.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	query := `UPDATE tasks SET classification_id = ?, title = ?, description = ?, status = ?,
			baseline_start = ?, baseline_end = ?, actual_start_date = ?, actual_end_date = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.ClassificationID,
		t.Title,
		nullableStringToValue(t.Description),
		t.Status,
		nullableTimeToString(t.BaselineStart, dateLayout),
		nullableTimeToString(t.BaselineEnd, dateLayout),
		nullableTimeToString(t.ActualStartDate, dateLayout),
		nullableTimeToString(t.ActualEndDate, dateLayout),
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return domain.NotFound("classification %d not found", t.ClassificationID)
		}
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res, "task", t.ID)
}

func (r *SQLTaskRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res, "task", id)
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var description sql.NullString
	var baselineStart, baselineEnd, actualStart, actualEnd sql.NullString
	var createdAt, updatedAt string

	err := s.Scan(
		&t.ID, &t.ProjectID, &t.ProjectName, &t.ClassificationID, &t.Title, &description, &t.Status,
		&baselineStart, &baselineEnd, &actualStart, &actualEnd, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	t.Description = nullStringPtr(description)
	t.BaselineStart = parseNullableTime(baselineStart, dateLayout)
	t.BaselineEnd = parseNullableTime(baselineEnd, dateLayout)
	t.ActualStartDate = parseNullableTime(actualStart, dateLayout)
	t.ActualEndDate = parseNullableTime(actualEnd, dateLayout)
	if t.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
