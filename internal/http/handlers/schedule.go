package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/masterplan/internal/domain"
	"github.com/alexanderramin/masterplan/internal/http/response"
	"github.com/alexanderramin/masterplan/internal/service"
)

type ScheduleHandler struct {
	schedules service.ScheduleService
}

func NewScheduleHandler(schedules service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

type scheduleItemResponse struct {
	ItemID             int64   `json:"item_id"`
	ProjectID          int64   `json:"project_id"`
	ClassificationID   int64   `json:"classification_id"`
	ClassificationName string  `json:"classification_name"`
	ClassificationPath string  `json:"classification_path"`
	OwnerDeptID        *int64  `json:"owner_dept_id"`
	Status             string  `json:"status"`
	BaselineStart      *string `json:"baseline_start"`
	BaselineEnd        *string `json:"baseline_end"`
	CurrentStart       *string `json:"current_start"`
	CurrentEnd         *string `json:"current_end"`
	ActualStart        *string `json:"actual_start"`
	ActualEnd          *string `json:"actual_end"`
	DueEndBasis        *string `json:"due_end_basis"`
	PlanShiftDays      *int    `json:"plan_shift_days"`
	IsProgressDelayed  bool    `json:"is_progress_delayed"`
}

func toScheduleItemResponse(v *domain.ScheduleItemView) scheduleItemResponse {
	return scheduleItemResponse{
		ItemID:             v.ItemID,
		ProjectID:          v.ProjectID,
		ClassificationID:   v.ClassificationID,
		ClassificationName: v.ClassificationName,
		ClassificationPath: v.ClassificationPath,
		OwnerDeptID:        v.OwnerDeptID,
		Status:             string(v.Status),
		BaselineStart:      formatDate(v.BaselineStart),
		BaselineEnd:        formatDate(v.BaselineEnd),
		CurrentStart:       formatDate(v.CurrentStart),
		CurrentEnd:         formatDate(v.CurrentEnd),
		ActualStart:        formatDate(v.ActualStart),
		ActualEnd:          formatDate(v.ActualEnd),
		DueEndBasis:        formatDate(v.DueEndBasis),
		PlanShiftDays:      v.PlanShiftDays,
		IsProgressDelayed:  v.IsProgressDelayed,
	}
}

type planResponse struct {
	ID        int64   `json:"id"`
	ItemID    int64   `json:"item_id"`
	PlanKind  string  `json:"plan_kind"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	PlanNote  *string `json:"plan_note"`
}

func toPlanResponse(p *domain.SchedulePlan) planResponse {
	return planResponse{
		ID:        p.ID,
		ItemID:    p.ItemID,
		PlanKind:  string(p.Kind),
		StartDate: p.StartDate.Format(dateLayout),
		EndDate:   p.EndDate.Format(dateLayout),
		PlanNote:  p.Note,
	}
}

type createItemRequest struct {
	ClassificationID int64   `json:"classification_id"`
	BaselineStart    *Date   `json:"baseline_start"`
	BaselineEnd      *Date   `json:"baseline_end"`
	PlanNote         *string `json:"plan_note"`
}

type createItemResponse struct {
	ItemID           int64        `json:"item_id"`
	ProjectID        int64        `json:"project_id"`
	ClassificationID int64        `json:"classification_id"`
	OwnerDeptID      *int64       `json:"owner_dept_id"`
	Status           string       `json:"status"`
	Baseline         planResponse `json:"baseline"`
}

type planRequest struct {
	StartDate *Date   `json:"start_date"`
	EndDate   *Date   `json:"end_date"`
	PlanNote  *string `json:"plan_note"`
}

type actualRequest struct {
	ActualStartDate *Date   `json:"actual_start_date"`
	ActualEndDate   *Date   `json:"actual_end_date"`
	Memo            *string `json:"memo"`
}

type actualResponse struct {
	ID              int64   `json:"id"`
	ItemID          int64   `json:"item_id"`
	ActualStartDate *string `json:"actual_start_date"`
	ActualEndDate   *string `json:"actual_end_date"`
	Memo            *string `json:"memo"`
	Status          *string `json:"status"`
}

// GET /api/projects/:ref/items
func (h *ScheduleHandler) ListItems(c *gin.Context) {
	views, err := h.schedules.ListItems(c.Request.Context(), c.Param("ref"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	out := make([]scheduleItemResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toScheduleItemResponse(v))
	}
	response.RespondOK(c, out)
}

// POST /api/projects/:ref/items
func (h *ScheduleHandler) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := bindJSON(c, &req); err != nil {
		response.Fail(c, err)
		return
	}
	if req.BaselineStart == nil || req.BaselineEnd == nil {
		response.Fail(c, domain.InvalidArgument("baseline_start and baseline_end are required"))
		return
	}
	res, err := h.schedules.CreateItem(c.Request.Context(), service.NewScheduleItem{
		ProjectRef:       c.Param("ref"),
		ClassificationID: req.ClassificationID,
		BaselineStart:    req.BaselineStart.Time,
		BaselineEnd:      req.BaselineEnd.Time,
		PlanNote:         req.PlanNote,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondCreated(c, createItemResponse{
		ItemID:           res.Item.ID,
		ProjectID:        res.Item.ProjectID,
		ClassificationID: res.Item.ClassificationID,
		OwnerDeptID:      res.Item.OwnerDeptID,
		Status:           string(res.Item.Status),
		Baseline:         toPlanResponse(res.Plan),
	})
}

// PUT /api/schedule-items/:id/current
func (h *ScheduleHandler) UpsertCurrent(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	var req planRequest
	if err := bindJSON(c, &req); err != nil {
		response.Fail(c, err)
		return
	}
	if req.StartDate == nil || req.EndDate == nil {
		response.Fail(c, domain.InvalidArgument("start_date and end_date are required"))
		return
	}
	plan, err := h.schedules.UpsertCurrent(c.Request.Context(), id, req.StartDate.Time, req.EndDate.Time, req.PlanNote)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, toPlanResponse(plan))
}

// PUT /api/schedule-items/:id/actual
func (h *ScheduleHandler) UpsertActual(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	var req actualRequest
	if err := bindJSON(c, &req); err != nil {
		response.Fail(c, err)
		return
	}
	actual, err := h.schedules.UpsertActual(c.Request.Context(), id, req.ActualStartDate.ptr(), req.ActualEndDate.ptr(), req.Memo)
	if err != nil {
		response.Fail(c, err)
		return
	}
	out := actualResponse{
		ID:              actual.ID,
		ItemID:          actual.ItemID,
		ActualStartDate: formatDate(actual.StartDate),
		ActualEndDate:   formatDate(actual.EndDate),
		Memo:            actual.Memo,
	}
	if st, ok := actual.DerivedStatus(); ok {
		s := string(st)
		out.Status = &s
	}
	response.RespondOK(c, out)
}
