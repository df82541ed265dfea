package domain

import "time"

// ScheduleItem is the legacy per-classification schedule record of a project.
type ScheduleItem struct {
	ID               int64
	ProjectID        int64
	ClassificationID int64
	OwnerDeptID      *int64
	Status           ScheduleItemStatus
	CreatedBy        string
	UpdatedBy        *string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
}

type SchedulePlan struct {
	ID        int64
	ItemID    int64
	Kind      PlanKind
	StartDate time.Time
	EndDate   time.Time
	Note      *string
	CreatedBy string
	UpdatedBy *string
}

// Validate rejects an end date before the start date.
func (p *SchedulePlan) Validate() error {
	if p.Kind != PlanBaseline && p.Kind != PlanCurrent {
		return InvalidArgument("invalid plan kind %q", p.Kind)
	}
	return ValidateRange(string(p.Kind), &p.StartDate, &p.EndDate)
}

type ScheduleActual struct {
	ID        int64
	ItemID    int64
	StartDate *time.Time
	EndDate   *time.Time
	Memo      *string
	CreatedBy string
	UpdatedBy *string
}

func (a *ScheduleActual) Validate() error {
	if a.EndDate != nil && a.StartDate == nil {
		return InvalidArgument("actual start is required when actual end is set")
	}
	return ValidateRange("actual", a.StartDate, a.EndDate)
}

// DerivedStatus returns the item status implied by the actual dates, and
// false when the actual carries no dates at all.
func (a *ScheduleActual) DerivedStatus() (ScheduleItemStatus, bool) {
	switch {
	case a.EndDate != nil:
		return ItemDone, true
	case a.StartDate != nil:
		return ItemInProgress, true
	default:
		return "", false
	}
}

// ScheduleItemView is the read model of a schedule item joined with its
// classification, plans and actual.
type ScheduleItemView struct {
	ItemID             int64
	ProjectID          int64
	ClassificationID   int64
	ClassificationName string
	ClassificationPath string
	OwnerDeptID        *int64
	Status             ScheduleItemStatus
	BaselineStart      *time.Time
	BaselineEnd        *time.Time
	CurrentStart       *time.Time
	CurrentEnd         *time.Time
	ActualStart        *time.Time
	ActualEnd          *time.Time
	DueEndBasis        *time.Time
	PlanShiftDays      *int
	IsProgressDelayed  bool
}

// Derive fills DueEndBasis, PlanShiftDays and IsProgressDelayed relative to
// today. The due basis is the current plan's end, falling back to baseline.
func (v *ScheduleItemView) Derive(today time.Time) {
	v.DueEndBasis = CoalesceDate(v.CurrentEnd, v.BaselineEnd)
	v.PlanShiftDays = nil
	if v.CurrentEnd != nil && v.BaselineEnd != nil {
		d := DaysBetween(*v.BaselineEnd, *v.CurrentEnd)
		v.PlanShiftDays = &d
	}
	v.IsProgressDelayed = false
	if v.DueEndBasis == nil {
		return
	}
	if v.ActualEnd != nil {
		v.IsProgressDelayed = DaysBetween(*v.DueEndBasis, *v.ActualEnd) > 0
		return
	}
	v.IsProgressDelayed = DaysBetween(*v.DueEndBasis, today) > 0
}
