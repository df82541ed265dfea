package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/masterplan/internal/domain"
)

const progressWidth = 20

// FormatStatusCounts renders the per-status project counts.
func FormatStatusCounts(buckets []domain.StatusBucket) string {
	rows := make([][]string, 0, len(buckets))
	total := 0
	for _, b := range buckets {
		rows = append(rows, []string{StatusPill(b.StatusCode), b.StatusName, fmt.Sprintf("%d", b.Count)})
		total += b.Count
	}
	return RenderTable([]string{"STATUS", "NAME", "PROJECTS"}, rows) +
		Dim(fmt.Sprintf("%d projects", total)) + "\n"
}

// FormatProjectProgress renders one row per project with its progress bar.
func FormatProjectProgress(projects []*domain.ProjectProgress) string {
	if len(projects) == 0 {
		return Dim("No projects.") + "\n"
	}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		code := Dim("-")
		if p.Code != nil && *p.Code != "" {
			code = *p.Code
		}
		rows = append(rows, []string{
			code,
			p.Name,
			StatusPill(p.StatusCode),
			FormatDate(p.DueAt),
			FormatDate(p.Bounds.BaselineEnd),
			RenderProgress(p.ProgressPct, progressWidth),
		})
	}
	return RenderTable([]string{"CODE", "PROJECT", "STATUS", "DUE", "BASELINE END", "PROGRESS"}, rows)
}

// FormatDashboard renders both dashboard sections.
func FormatDashboard(buckets []domain.StatusBucket, projects []*domain.ProjectProgress) string {
	var b strings.Builder
	b.WriteString(Header("Projects by status") + "\n")
	b.WriteString(FormatStatusCounts(buckets))
	b.WriteString("\n")
	b.WriteString(Header("Progress") + "\n")
	b.WriteString(FormatProjectProgress(projects))
	return b.String()
}
