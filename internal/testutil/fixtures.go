package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/masterplan/internal/domain"
)

var testCodeCounter atomic.Int64

// Date parses a YYYY-MM-DD literal and panics on malformed input.
func Date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// DatePtr is Date returning a pointer.
func DatePtr(s string) *time.Time {
	t := Date(s)
	return &t
}

// Project options
type ProjectOption func(*domain.Project)

func WithCode(code string) ProjectOption {
	return func(p *domain.Project) {
		p.Code = &code
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithCustomer(code, name string) ProjectOption {
	return func(p *domain.Project) {
		p.CustomerCode = &code
		p.CustomerName = &name
	}
}

func WithDueAt(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.DueAt = &d
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	code := fmt.Sprintf("TP-%03d", testCodeCounter.Add(1))
	p := &domain.Project{
		Code:   &code,
		Name:   name,
		Status: domain.ProjectPending,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Classification options
type ClassificationOption func(*domain.Classification)

func WithParent(id int64) ClassificationOption {
	return func(c *domain.Classification) {
		c.ParentID = &id
	}
}

func WithSortNo(n int) ClassificationOption {
	return func(c *domain.Classification) {
		c.SortNo = n
	}
}

func Inactive() ClassificationOption {
	return func(c *domain.Classification) {
		c.IsActive = false
	}
}

func WithOwnerDept(id int64) ClassificationOption {
	return func(c *domain.Classification) {
		c.OwnerDeptID = &id
	}
}

// NewTestClassification builds an active node; without WithParent it is a
// root candidate.
func NewTestClassification(projectID int64, name string, opts ...ClassificationOption) *domain.Classification {
	c := &domain.Classification{
		ProjectID: projectID,
		Name:      name,
		IsActive:  true,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Task options
type TaskOption func(*domain.Task)

func WithBaseline(start, end string) TaskOption {
	return func(t *domain.Task) {
		t.BaselineStart = DatePtr(start)
		t.BaselineEnd = DatePtr(end)
	}
}

func WithActual(start, end string) TaskOption {
	return func(t *domain.Task) {
		if start != "" {
			t.ActualStartDate = DatePtr(start)
		}
		if end != "" {
			t.ActualEndDate = DatePtr(end)
		}
	}
}

func WithTaskStatus(s string) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithDescription(d string) TaskOption {
	return func(t *domain.Task) {
		t.Description = &d
	}
}

func NewTestTask(projectID, classificationID int64, title string, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		ProjectID:        projectID,
		ClassificationID: classificationID,
		Title:            title,
		Status:           domain.TaskOpen,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}
