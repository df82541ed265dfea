package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/masterplan/internal/domain"
	"github.com/alexanderramin/masterplan/internal/http/response"
	"github.com/alexanderramin/masterplan/internal/service"
)

type TaskHandler struct {
	tasks service.TaskService
}

func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type taskResponse struct {
	ID               int64   `json:"id"`
	ProjectID        int64   `json:"project_id"`
	ProjectName      string  `json:"project_name"`
	ClassificationID int64   `json:"classification_id"`
	Title            string  `json:"title"`
	Description      *string `json:"description"`
	Status           string  `json:"status"`
	BaselineStart    *string `json:"baseline_start"`
	BaselineEnd      *string `json:"baseline_end"`
	ActualStartDate  *string `json:"actual_start_date"`
	ActualEndDate    *string `json:"actual_end_date"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:               t.ID,
		ProjectID:        t.ProjectID,
		ProjectName:      t.ProjectName,
		ClassificationID: t.ClassificationID,
		Title:            t.Title,
		Description:      t.Description,
		Status:           t.Status,
		BaselineStart:    formatDate(t.BaselineStart),
		BaselineEnd:      formatDate(t.BaselineEnd),
		ActualStartDate:  formatDate(t.ActualStartDate),
		ActualEndDate:    formatDate(t.ActualEndDate),
		CreatedAt:        formatTimestamp(t.CreatedAt),
		UpdatedAt:        formatTimestamp(t.UpdatedAt),
	}
}

type createTaskRequest struct {
	ProjectID        int64   `json:"project_id"`
	ClassificationID int64   `json:"classification_id"`
	Title            string  `json:"title"`
	Description      *string `json:"description"`
	Status           string  `json:"status"`
	BaselineStart    *Date   `json:"baseline_start"`
	BaselineEnd      *Date   `json:"baseline_end"`
	ActualStartDate  *Date   `json:"actual_start_date"`
	ActualEndDate    *Date   `json:"actual_end_date"`
}

type updateTaskRequest struct {
	ClassificationID Field[int64]  `json:"classification_id"`
	Title            Field[string] `json:"title"`
	Description      Field[string] `json:"description"`
	Status           Field[string] `json:"status"`
	BaselineStart    Field[Date]   `json:"baseline_start"`
	BaselineEnd      Field[Date]   `json:"baseline_end"`
	ActualStartDate  Field[Date]   `json:"actual_start_date"`
	ActualEndDate    Field[Date]   `json:"actual_end_date"`
}

func (r updateTaskRequest) patch() (domain.TaskPatch, error) {
	var p domain.TaskPatch
	var err error
	if p.ClassificationID, err = r.ClassificationID.ptr("classification_id"); err != nil {
		return p, err
	}
	if p.Title, err = r.Title.ptr("title"); err != nil {
		return p, err
	}
	if p.Status, err = r.Status.ptr("status"); err != nil {
		return p, err
	}
	p.Description = optional(r.Description)
	p.BaselineStart = optionalDate(r.BaselineStart)
	p.BaselineEnd = optionalDate(r.BaselineEnd)
	p.ActualStartDate = optionalDate(r.ActualStartDate)
	p.ActualEndDate = optionalDate(r.ActualEndDate)
	return p, nil
}

// GET /api/tasks?q=&status=&project_id=&classification_id=&sort=&limit=&offset=
func (h *TaskHandler) List(c *gin.Context) {
	q := service.TaskQuery{Q: c.Query("q"), Status: c.Query("status"), Sort: c.Query("sort")}
	var err error
	if q.ProjectID, err = queryInt64Ptr(c, "project_id"); err != nil {
		response.Fail(c, err)
		return
	}
	if q.ClassificationID, err = queryInt64Ptr(c, "classification_id"); err != nil {
		response.Fail(c, err)
		return
	}
	if q.Limit, q.Offset, err = paging(c); err != nil {
		response.Fail(c, err)
		return
	}
	tasks, err := h.tasks.List(c.Request.Context(), q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	response.RespondOK(c, out)
}

// GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	h.withID(c, h.tasks.Get)
}

// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := bindJSON(c, &req); err != nil {
		response.Fail(c, err)
		return
	}
	t, err := h.tasks.Create(c.Request.Context(), &domain.Task{
		ProjectID:        req.ProjectID,
		ClassificationID: req.ClassificationID,
		Title:            req.Title,
		Description:      req.Description,
		Status:           req.Status,
		BaselineStart:    req.BaselineStart.ptr(),
		BaselineEnd:      req.BaselineEnd.ptr(),
		ActualStartDate:  req.ActualStartDate.ptr(),
		ActualEndDate:    req.ActualEndDate.ptr(),
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondCreated(c, toTaskResponse(t))
}

// PATCH /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	var req updateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		response.Fail(c, err)
		return
	}
	patch, err := req.patch()
	if err != nil {
		response.Fail(c, err)
		return
	}
	t, err := h.tasks.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, toTaskResponse(t))
}

// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	h.withID(c, h.tasks.Complete)
}

// POST /api/tasks/:id/reopen
func (h *TaskHandler) Reopen(c *gin.Context) {
	h.withID(c, h.tasks.Reopen)
}

func (h *TaskHandler) withID(c *gin.Context, fn func(ctx context.Context, id int64) (*domain.Task, error)) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	t, err := fn(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, toTaskResponse(t))
}
