package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

type Project struct {
	ID           int64
	Code         *string
	Name         string
	CustomerCode *string
	CustomerName *string
	Status       ProjectStatus
	OrderedAt    *time.Time
	PausedAt     *time.Time
	CompletedAt  *time.Time
	DueAt        *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks field limits and the status/date coupling: a paused project
// carries paused_at, and completed_at is set exactly when the project is done.
func (p *Project) Validate() error {
	n := utf8.RuneCountInString(strings.TrimSpace(p.Name))
	if n == 0 || n > 500 {
		return InvalidArgument("project name must be 1-500 characters")
	}
	if p.Code != nil && utf8.RuneCountInString(*p.Code) > 100 {
		return InvalidArgument("project code must be at most 100 characters")
	}
	if p.CustomerCode != nil && utf8.RuneCountInString(*p.CustomerCode) > 100 {
		return InvalidArgument("customer code must be at most 100 characters")
	}
	if p.CustomerName != nil && utf8.RuneCountInString(*p.CustomerName) > 200 {
		return InvalidArgument("customer name must be at most 200 characters")
	}
	if !ValidProjectStatuses[p.Status] {
		return InvalidArgument("invalid project status %q", p.Status)
	}
	if p.Status == ProjectPaused && p.PausedAt == nil {
		return InvalidArgument("paused_at is required when status is paused")
	}
	if p.Status == ProjectDone && p.CompletedAt == nil {
		return InvalidArgument("completed_at is required when status is done")
	}
	if p.CompletedAt != nil && p.Status != ProjectDone {
		return InvalidArgument("completed_at may only be set when status is done")
	}
	return nil
}

// ProjectPatch is a partial update; nil/unset fields are left untouched.
type ProjectPatch struct {
	Code         Optional[string]
	Name         *string
	CustomerCode Optional[string]
	CustomerName Optional[string]
	Status       *ProjectStatus
	OrderedAt    Optional[time.Time]
	PausedAt     Optional[time.Time]
	CompletedAt  Optional[time.Time]
	DueAt        Optional[time.Time]
}

func (pp ProjectPatch) IsEmpty() bool {
	return !pp.Code.Set && pp.Name == nil && !pp.CustomerCode.Set && !pp.CustomerName.Set &&
		pp.Status == nil && !pp.OrderedAt.Set && !pp.PausedAt.Set && !pp.CompletedAt.Set && !pp.DueAt.Set
}

// Apply returns a copy of p with the patch merged in.
func (pp ProjectPatch) Apply(p Project) Project {
	p.Code = pp.Code.Merge(p.Code)
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	p.CustomerCode = pp.CustomerCode.Merge(p.CustomerCode)
	p.CustomerName = pp.CustomerName.Merge(p.CustomerName)
	if pp.Status != nil {
		p.Status = *pp.Status
	}
	p.OrderedAt = pp.OrderedAt.Merge(p.OrderedAt)
	p.PausedAt = pp.PausedAt.Merge(p.PausedAt)
	p.CompletedAt = pp.CompletedAt.Merge(p.CompletedAt)
	p.DueAt = pp.DueAt.Merge(p.DueAt)
	return p
}

var legacyCodePattern = regexp.MustCompile(`^(.+)\(#(\d+)\)$`)

// NormalizeProjectCode maps the legacy "HB-130X(#1035)" spelling to
// "HB-130X-1035" and trims whitespace.
func NormalizeProjectCode(code string) string {
	code = strings.TrimSpace(code)
	if m := legacyCodePattern.FindStringSubmatch(code); m != nil {
		return strings.TrimRight(m[1], "-") + "-" + m[2]
	}
	return code
}

// DisplayCode returns the project code, or its numeric id when unset.
func (p *Project) DisplayCode() string {
	if p.Code != nil && *p.Code != "" {
		return *p.Code
	}
	return "#" + strconv.FormatInt(p.ID, 10)
}
