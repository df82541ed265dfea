package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/masterplan/internal/domain"
	"github.com/alexanderramin/masterplan/internal/http/response"
	"github.com/alexanderramin/masterplan/internal/service"
)

type ClassificationHandler struct {
	classifications service.ClassificationService
}

func NewClassificationHandler(classifications service.ClassificationService) *ClassificationHandler {
	return &ClassificationHandler{classifications: classifications}
}

type classificationResponse struct {
	ID          int64   `json:"id"`
	ProjectID   int64   `json:"project_id"`
	ParentID    *int64  `json:"parent_id"`
	Name        string  `json:"name"`
	Depth       int     `json:"depth"`
	Path        string  `json:"path"`
	SortNo      int     `json:"sort_no"`
	IsActive    bool    `json:"is_active"`
	OwnerDeptID *int64  `json:"owner_dept_id"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   *string `json:"updated_at"`
}

func toClassificationResponse(c *domain.Classification) classificationResponse {
	out := classificationResponse{
		ID:          c.ID,
		ProjectID:   c.ProjectID,
		ParentID:    c.ParentID,
		Name:        c.Name,
		Depth:       c.Depth,
		Path:        c.Path,
		SortNo:      c.SortNo,
		IsActive:    c.IsActive,
		OwnerDeptID: c.OwnerDeptID,
		CreatedAt:   formatTimestamp(c.CreatedAt),
	}
	if !c.UpdatedAt.IsZero() {
		out.UpdatedAt = formatTimestampPtr(&c.UpdatedAt)
	}
	return out
}

type treeNodeResponse struct {
	classificationResponse
	Children []treeNodeResponse `json:"children"`
}

func toTreeResponse(nodes []*domain.TreeNode) []treeNodeResponse {
	out := make([]treeNodeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, treeNodeResponse{
			classificationResponse: toClassificationResponse(&n.Classification),
			Children:               toTreeResponse(n.Children),
		})
	}
	return out
}

type flatRowResponse struct {
	ID     int64  `json:"id"`
	L1     string `json:"l1"`
	L2     string `json:"l2"`
	L3     string `json:"l3"`
	Path   string `json:"path"`
	SortNo int    `json:"sort_no"`
}

type createClassificationRequest struct {
	ProjectID   int64  `json:"project_id"`
	ParentID    *int64 `json:"parent_id"`
	Name        string `json:"name"`
	SortNo      int    `json:"sort_no"`
	IsActive    *bool  `json:"is_active"`
	OwnerDeptID *int64 `json:"owner_dept_id"`
}

type updateClassificationRequest struct {
	Name        Field[string] `json:"name"`
	ParentID    Field[int64]  `json:"parent_id"`
	SortNo      Field[int]    `json:"sort_no"`
	IsActive    Field[bool]   `json:"is_active"`
	OwnerDeptID Field[int64]  `json:"owner_dept_id"`
}

func (r updateClassificationRequest) patch() (domain.ClassificationPatch, error) {
	var p domain.ClassificationPatch
	var err error
	if p.Name, err = r.Name.ptr("name"); err != nil {
		return p, err
	}
	if r.ParentID.Set && r.ParentID.Null {
		return p, domain.InvalidArgument("parent_id cannot be cleared; only %s has no parent", domain.RootName)
	}
	if p.ParentID, err = r.ParentID.ptr("parent_id"); err != nil {
		return p, err
	}
	if p.SortNo, err = r.SortNo.ptr("sort_no"); err != nil {
		return p, err
	}
	if p.IsActive, err = r.IsActive.ptr("is_active"); err != nil {
		return p, err
	}
	p.OwnerDeptID = optional(r.OwnerDeptID)
	return p, nil
}

// GET /api/classifications?project_id=&parent_id=&is_active=&sort=&limit=&offset=
func (h *ClassificationHandler) List(c *gin.Context) {
	var q service.ClassificationQuery
	var err error
	if q.ProjectID, err = queryInt64Ptr(c, "project_id"); err != nil {
		response.Fail(c, err)
		return
	}
	if q.ParentID, err = queryInt64Ptr(c, "parent_id"); err != nil {
		response.Fail(c, err)
		return
	}
	if q.IsActive, err = queryBoolPtr(c, "is_active"); err != nil {
		response.Fail(c, err)
		return
	}
	if q.Limit, q.Offset, err = paging(c); err != nil {
		response.Fail(c, err)
		return
	}
	q.Sort = c.Query("sort")

	rows, err := h.classifications.List(c.Request.Context(), q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	out := make([]classificationResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toClassificationResponse(r))
	}
	response.RespondOK(c, out)
}

// GET /api/classifications/:id
func (h *ClassificationHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	node, err := h.classifications.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, toClassificationResponse(node))
}

// POST /api/classifications
func (h *ClassificationHandler) Create(c *gin.Context) {
	var req createClassificationRequest
	if err := bindJSON(c, &req); err != nil {
		response.Fail(c, err)
		return
	}
	node := &domain.Classification{
		ProjectID:   req.ProjectID,
		ParentID:    req.ParentID,
		Name:        req.Name,
		SortNo:      req.SortNo,
		IsActive:    req.IsActive == nil || *req.IsActive,
		OwnerDeptID: req.OwnerDeptID,
	}
	if err := h.classifications.Create(c.Request.Context(), node); err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondCreated(c, toClassificationResponse(node))
}

// PATCH /api/classifications/:id
func (h *ClassificationHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	var req updateClassificationRequest
	if err := bindJSON(c, &req); err != nil {
		response.Fail(c, err)
		return
	}
	patch, err := req.patch()
	if err != nil {
		response.Fail(c, err)
		return
	}
	node, err := h.classifications.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, toClassificationResponse(node))
}

// DELETE /api/classifications/:id
func (h *ClassificationHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	if err := h.classifications.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /api/classifications/tree?project_id=&active_only=
func (h *ClassificationHandler) Tree(c *gin.Context) {
	projectID, err := queryInt64Ptr(c, "project_id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	if projectID == nil {
		response.Fail(c, domain.InvalidArgument("project_id is required"))
		return
	}
	activeOnly, err := queryBoolPtr(c, "active_only")
	if err != nil {
		response.Fail(c, err)
		return
	}
	forest, err := h.classifications.Tree(c.Request.Context(), *projectID, activeOnly != nil && *activeOnly)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, toTreeResponse(forest))
}

// GET /api/projects/:ref/classifications/tree?active_only=
func (h *ClassificationHandler) ProjectTree(c *gin.Context) {
	activeOnly, err := queryBoolPtr(c, "active_only")
	if err != nil {
		response.Fail(c, err)
		return
	}
	forest, err := h.classifications.TreeByRef(c.Request.Context(), c.Param("ref"), activeOnly != nil && *activeOnly)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, toTreeResponse(forest))
}

// GET /api/projects/:ref/classifications/flat
func (h *ClassificationHandler) ProjectFlat(c *gin.Context) {
	rows, err := h.classifications.Flat(c.Request.Context(), c.Param("ref"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	out := make([]flatRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, flatRowResponse(r))
	}
	response.RespondOK(c, out)
}
