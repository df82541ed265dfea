package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/masterplan/internal/db"
	"github.com/alexanderramin/masterplan/internal/domain"
)

// SQLDashboardRepo runs the read-only aggregate queries behind the dashboard.
type SQLDashboardRepo struct {
	db db.DBTX
}

func NewSQLDashboardRepo(conn db.DBTX) *SQLDashboardRepo {
	return &SQLDashboardRepo{db: conn}
}

// StatusBuckets returns one row per catalog status, including empty ones.
func (r *SQLDashboardRepo) StatusBuckets(ctx context.Context) ([]domain.StatusBucket, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT s.id, s.code, s.name, s.display_order, COUNT(p.id)
		FROM project_statuses s
		LEFT JOIN projects p ON p.status = s.code
		GROUP BY s.id, s.code, s.name, s.display_order
		ORDER BY s.display_order`)
	if err != nil {
		return nil, fmt.Errorf("counting projects by status: %w", err)
	}
	defer rows.Close()

	buckets := []domain.StatusBucket{}
	for rows.Next() {
		var b domain.StatusBucket
		var code string
		if err := rows.Scan(&b.StatusID, &code, &b.StatusName, &b.DisplayOrder, &b.Count); err != nil {
			return nil, fmt.Errorf("scanning status bucket: %w", err)
		}
		b.StatusCode = domain.ProjectStatus(code)
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status buckets: %w", err)
	}
	return buckets, nil
}

// progressQuery gathers baseline and actual bounds from tasks and from
// schedule items together, then joins them onto every project.
const progressQuery = `WITH spans AS (
		SELECT project_id, baseline_start AS b_start, baseline_end AS b_end, actual_end_date AS a_end
		FROM tasks
		UNION ALL
		SELECT i.project_id, b.start_date, b.end_date, a.actual_end_date
		FROM schedule_items i
		LEFT JOIN schedule_plans b ON b.item_id = i.id AND b.plan_kind = 'baseline'
		LEFT JOIN schedule_actuals a ON a.item_id = i.id
		WHERE i.deleted_at IS NULL
	), agg AS (
		SELECT project_id, MIN(b_start) AS b_start, MAX(b_end) AS b_end, MAX(a_end) AS a_end
		FROM spans
		GROUP BY project_id
	)
	SELECT p.id, p.code, p.name, s.id, p.status, s.name, p.due_at, agg.b_start, agg.b_end, agg.a_end
	FROM projects p
	LEFT JOIN project_statuses s ON s.code = p.status
	LEFT JOIN agg ON agg.project_id = p.id`

// ProjectProgress returns the per-project date bounds, optionally filtered by
// status catalog id. ProgressPct is left for the caller to compute.
func (r *SQLDashboardRepo) ProjectProgress(ctx context.Context, statusID *int64) ([]*domain.ProjectProgress, error) {
	query := progressQuery
	var args []any
	if statusID != nil {
		query += ` WHERE s.id = ?`
		args = append(args, *statusID)
	}
	query += ` ORDER BY p.name, p.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying project progress: %w", err)
	}
	defer rows.Close()

	out := []*domain.ProjectProgress{}
	for rows.Next() {
		var pp domain.ProjectProgress
		var code, statusName, dueAt, bStart, bEnd, aEnd sql.NullString
		var sid sql.NullInt64
		var status string
		if err := rows.Scan(&pp.ProjectID, &code, &pp.Name, &sid, &status, &statusName, &dueAt, &bStart, &bEnd, &aEnd); err != nil {
			return nil, fmt.Errorf("scanning project progress: %w", err)
		}
		pp.Code = nullStringPtr(code)
		pp.StatusID = nullInt64Ptr(sid)
		pp.StatusCode = domain.ProjectStatus(status)
		pp.StatusName = nullStringPtr(statusName)
		pp.DueAt = parseNullableTime(dueAt, dateLayout)
		pp.Bounds = domain.ProgressBounds{
			BaselineStart: parseNullableTime(bStart, dateLayout),
			BaselineEnd:   parseNullableTime(bEnd, dateLayout),
			ActualEnd:     parseNullableTime(aEnd, dateLayout),
		}
		out = append(out, &pp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project progress: %w", err)
	}
	return out, nil
}
