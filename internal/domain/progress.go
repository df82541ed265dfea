package domain

import (
	"math"
	"time"
)

// ProgressBounds are the date aggregates a project's progress is computed from.
type ProgressBounds struct {
	BaselineStart *time.Time
	BaselineEnd   *time.Time
	ActualEnd     *time.Time
}

// Progress is the outcome of ComputeProgress.
type Progress struct {
	TotalDays int
	DoneDays  int
	Percent   int
}

// ComputeProgress derives percent-complete from the baseline window and the
// latest actual end:
//
//	total = max(1, end-start+1) when both baseline bounds exist, else 0
//	done  = max(0, actual_end-start+1) when start and actual end exist, else 0
//	pct   = floor(min(100, done/total*100)), or 0 when total or done is 0
func ComputeProgress(b ProgressBounds) Progress {
	var p Progress
	if b.BaselineStart != nil && b.BaselineEnd != nil {
		p.TotalDays = max(1, DaysBetween(*b.BaselineStart, *b.BaselineEnd)+1)
	}
	if b.BaselineStart != nil && b.ActualEnd != nil {
		p.DoneDays = max(0, DaysBetween(*b.BaselineStart, *b.ActualEnd)+1)
	}
	if p.TotalDays <= 0 || p.DoneDays <= 0 {
		return p
	}
	pct := math.Min(100, float64(p.DoneDays)/float64(p.TotalDays)*100)
	p.Percent = int(math.Floor(pct))
	return p
}

// StatusBucket is the project count of one status catalog entry.
type StatusBucket struct {
	StatusID     int64
	StatusCode   ProjectStatus
	StatusName   string
	DisplayOrder int
	Count        int
}

// ProjectProgress is one dashboard row.
type ProjectProgress struct {
	ProjectID   int64
	Code        *string
	Name        string
	StatusID    *int64
	StatusCode  ProjectStatus
	StatusName  *string
	DueAt       *time.Time
	Bounds      ProgressBounds
	ProgressPct int
}
