package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/masterplan/internal/domain"
	"github.com/alexanderramin/masterplan/internal/http/response"
	"github.com/alexanderramin/masterplan/internal/service"
)

type ProjectHandler struct {
	projects service.ProjectService
}

func NewProjectHandler(projects service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type projectResponse struct {
	ID           int64   `json:"id"`
	Code         *string `json:"code"`
	Name         string  `json:"name"`
	CustomerCode *string `json:"customer_code"`
	CustomerName *string `json:"customer_name"`
	Status       string  `json:"status"`
	OrderedAt    *string `json:"ordered_at"`
	PausedAt     *string `json:"paused_at"`
	CompletedAt  *string `json:"completed_at"`
	DueAt        *string `json:"due_at"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		CustomerCode: p.CustomerCode,
		CustomerName: p.CustomerName,
		Status:       string(p.Status),
		OrderedAt:    formatDate(p.OrderedAt),
		PausedAt:     formatDate(p.PausedAt),
		CompletedAt:  formatDate(p.CompletedAt),
		DueAt:        formatDate(p.DueAt),
		CreatedAt:    formatTimestamp(p.CreatedAt),
		UpdatedAt:    formatTimestamp(p.UpdatedAt),
	}
}

type createProjectRequest struct {
	Code         *string `json:"code"`
	Name         string  `json:"name"`
	CustomerCode *string `json:"customer_code"`
	CustomerName *string `json:"customer_name"`
	Status       string  `json:"status"`
	OrderedAt    *Date   `json:"ordered_at"`
	PausedAt     *Date   `json:"paused_at"`
	CompletedAt  *Date   `json:"completed_at"`
	DueAt        *Date   `json:"due_at"`
}

type updateProjectRequest struct {
	Code         Field[string] `json:"code"`
	Name         Field[string] `json:"name"`
	CustomerCode Field[string] `json:"customer_code"`
	CustomerName Field[string] `json:"customer_name"`
	Status       Field[string] `json:"status"`
	OrderedAt    Field[Date]   `json:"ordered_at"`
	PausedAt     Field[Date]   `json:"paused_at"`
	CompletedAt  Field[Date]   `json:"completed_at"`
	DueAt        Field[Date]   `json:"due_at"`
}

func (r updateProjectRequest) patch() (domain.ProjectPatch, error) {
	name, err := r.Name.ptr("name")
	if err != nil {
		return domain.ProjectPatch{}, err
	}
	status, err := r.Status.ptr("status")
	if err != nil {
		return domain.ProjectPatch{}, err
	}
	p := domain.ProjectPatch{
		Code:         optional(r.Code),
		Name:         name,
		CustomerCode: optional(r.CustomerCode),
		CustomerName: optional(r.CustomerName),
		OrderedAt:    optionalDate(r.OrderedAt),
		PausedAt:     optionalDate(r.PausedAt),
		CompletedAt:  optionalDate(r.CompletedAt),
		DueAt:        optionalDate(r.DueAt),
	}
	if status != nil {
		st := domain.ProjectStatus(*status)
		p.Status = &st
	}
	return p, nil
}

// GET /api/projects?q=&status=&sort=&limit=&offset=
func (h *ProjectHandler) List(c *gin.Context) {
	limit, offset, err := paging(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	projects, err := h.projects.List(c.Request.Context(), service.ProjectQuery{
		Q:      c.Query("q"),
		Status: c.Query("status"),
		Sort:   c.Query("sort"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	response.RespondOK(c, out)
}

// GET /api/projects/:ref
func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := h.projects.Get(c.Request.Context(), c.Param("ref"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, toProjectResponse(p))
}

// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := bindJSON(c, &req); err != nil {
		response.Fail(c, err)
		return
	}
	p := &domain.Project{
		Code:         req.Code,
		Name:         req.Name,
		CustomerCode: req.CustomerCode,
		CustomerName: req.CustomerName,
		Status:       domain.ProjectStatus(req.Status),
		OrderedAt:    req.OrderedAt.ptr(),
		PausedAt:     req.PausedAt.ptr(),
		CompletedAt:  req.CompletedAt.ptr(),
		DueAt:        req.DueAt.ptr(),
	}
	if err := h.projects.Create(c.Request.Context(), p); err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondCreated(c, toProjectResponse(p))
}

// PATCH /api/projects/:ref
func (h *ProjectHandler) Update(c *gin.Context) {
	var req updateProjectRequest
	if err := bindJSON(c, &req); err != nil {
		response.Fail(c, err)
		return
	}
	patch, err := req.patch()
	if err != nil {
		response.Fail(c, err)
		return
	}
	p, err := h.projects.Update(c.Request.Context(), c.Param("ref"), patch)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, toProjectResponse(p))
}

// DELETE /api/projects/:ref
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), c.Param("ref")); err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondNoContent(c)
}
