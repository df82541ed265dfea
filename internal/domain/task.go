package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

type Task struct {
	ID               int64
	ProjectID        int64
	ProjectName      string
	ClassificationID int64
	Title            string
	Description      *string
	Status           string
	BaselineStart    *time.Time
	BaselineEnd      *time.Time
	ActualStartDate  *time.Time
	ActualEndDate    *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate checks field limits and that each end date is not before its start.
func (t *Task) Validate() error {
	n := utf8.RuneCountInString(strings.TrimSpace(t.Title))
	if n == 0 || n > 500 {
		return InvalidArgument("task title must be 1-500 characters")
	}
	if t.Description != nil && utf8.RuneCountInString(*t.Description) > 2000 {
		return InvalidArgument("task description must be at most 2000 characters")
	}
	if err := ValidateRange("baseline", t.BaselineStart, t.BaselineEnd); err != nil {
		return err
	}
	return ValidateRange("actual", t.ActualStartDate, t.ActualEndDate)
}

// ValidateRange fails when both bounds are present and end precedes start.
func ValidateRange(label string, start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return InvalidArgument("%s end must be on or after %s start", label, label)
	}
	return nil
}

type TaskPatch struct {
	Title            *string
	Description      Optional[string]
	Status           *string
	ClassificationID *int64
	BaselineStart    Optional[time.Time]
	BaselineEnd      Optional[time.Time]
	ActualStartDate  Optional[time.Time]
	ActualEndDate    Optional[time.Time]
}

func (tp TaskPatch) IsEmpty() bool {
	return tp.Title == nil && !tp.Description.Set && tp.Status == nil && tp.ClassificationID == nil &&
		!tp.BaselineStart.Set && !tp.BaselineEnd.Set && !tp.ActualStartDate.Set && !tp.ActualEndDate.Set
}

// Apply returns a copy of t with the patch merged in.
func (tp TaskPatch) Apply(t Task) Task {
	if tp.Title != nil {
		t.Title = *tp.Title
	}
	t.Description = tp.Description.Merge(t.Description)
	if tp.Status != nil {
		t.Status = *tp.Status
	}
	if tp.ClassificationID != nil {
		t.ClassificationID = *tp.ClassificationID
	}
	t.BaselineStart = tp.BaselineStart.Merge(t.BaselineStart)
	t.BaselineEnd = tp.BaselineEnd.Merge(t.BaselineEnd)
	t.ActualStartDate = tp.ActualStartDate.Merge(t.ActualStartDate)
	t.ActualEndDate = tp.ActualEndDate.Merge(t.ActualEndDate)
	return t
}
