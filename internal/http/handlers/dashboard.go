package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/masterplan/internal/domain"
	"github.com/alexanderramin/masterplan/internal/http/response"
	"github.com/alexanderramin/masterplan/internal/service"
)

type DashboardHandler struct {
	dashboard service.DashboardService
}

func NewDashboardHandler(dashboard service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

type statusCountResponse struct {
	StatusID     int64  `json:"status_id"`
	StatusCode   string `json:"status_code"`
	StatusName   string `json:"status_name"`
	DisplayOrder int    `json:"display_order"`
	Count        int    `json:"count"`
}

func toStatusCountResponses(buckets []domain.StatusBucket) []statusCountResponse {
	out := make([]statusCountResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, statusCountResponse{
			StatusID:     b.StatusID,
			StatusCode:   string(b.StatusCode),
			StatusName:   b.StatusName,
			DisplayOrder: b.DisplayOrder,
			Count:        b.Count,
		})
	}
	return out
}

type projectProgressResponse struct {
	ProjectID     int64   `json:"project_id"`
	Code          *string `json:"code"`
	Name          string  `json:"name"`
	StatusID      *int64  `json:"status_id"`
	StatusCode    string  `json:"status_code"`
	StatusName    *string `json:"status_name"`
	DueAt         *string `json:"due_at"`
	BaselineStart *string `json:"baseline_start"`
	BaselineEnd   *string `json:"baseline_end"`
	ActualEnd     *string `json:"actual_end"`
	ProgressPct   int     `json:"progress_pct"`
}

func toProjectProgressResponse(p *domain.ProjectProgress) projectProgressResponse {
	return projectProgressResponse{
		ProjectID:     p.ProjectID,
		Code:          p.Code,
		Name:          p.Name,
		StatusID:      p.StatusID,
		StatusCode:    string(p.StatusCode),
		StatusName:    p.StatusName,
		DueAt:         formatDate(p.DueAt),
		BaselineStart: formatDate(p.Bounds.BaselineStart),
		BaselineEnd:   formatDate(p.Bounds.BaselineEnd),
		ActualEnd:     formatDate(p.Bounds.ActualEnd),
		ProgressPct:   p.ProgressPct,
	}
}

// GET /api/dashboard/status-counts
func (h *DashboardHandler) StatusCounts(c *gin.Context) {
	buckets, err := h.dashboard.StatusCounts(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, toStatusCountResponses(buckets))
}

// GET /api/dashboard/projects?status_id=
func (h *DashboardHandler) Projects(c *gin.Context) {
	statusID, err := queryInt64Ptr(c, "status_id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	rows, err := h.dashboard.Projects(c.Request.Context(), statusID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	out := make([]projectProgressResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toProjectProgressResponse(r))
	}
	response.RespondOK(c, out)
}

type overviewResponse struct {
	StatusCounts []statusCountResponse     `json:"status_counts"`
	Projects     []projectProgressResponse `json:"projects"`
}

// GET /api/dashboard/overview?status_id=
func (h *DashboardHandler) Overview(c *gin.Context) {
	statusID, err := queryInt64Ptr(c, "status_id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	ov, err := h.dashboard.Overview(c.Request.Context(), statusID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	out := overviewResponse{
		StatusCounts: toStatusCountResponses(ov.Buckets),
		Projects:     make([]projectProgressResponse, 0, len(ov.Projects)),
	}
	for _, r := range ov.Projects {
		out.Projects = append(out.Projects, toProjectProgressResponse(r))
	}
	response.RespondOK(c, out)
}
