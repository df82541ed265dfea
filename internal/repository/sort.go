package repository

import "strings"

// SortRules is a closed allow-list of sortable columns with a fallback order.
type SortRules struct {
	Allowed  []string
	Default  string
	MaxTerms int // 0 means unlimited
}

var (
	ProjectSort        = SortRules{Allowed: []string{"id", "code", "name", "status", "ordered_at", "paused_at", "completed_at", "due_at", "created_at", "updated_at"}, Default: "updated_at desc", MaxTerms: 1}
	ClassificationSort = SortRules{Allowed: []string{"id", "name", "depth", "path", "sort_no", "is_active", "created_at", "updated_at"}, Default: "sort_no asc, name asc"}
	TaskSort           = SortRules{Allowed: []string{"id", "title", "status", "created_at", "updated_at", "baseline_start", "baseline_end"}, Default: "updated_at desc", MaxTerms: 1}
)

// OrderBy turns a user-supplied "col dir, col dir" string into a safe ORDER BY
// body. Terms naming unknown columns are dropped; a missing or unknown
// direction becomes asc. When nothing valid remains the default applies.
// Column names only ever come from the allow-list, never from raw.
func (s SortRules) OrderBy(raw string) string {
	var terms []string
	for _, part := range strings.Split(strings.ToLower(raw), ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		col, ok := s.column(fields[0])
		if !ok {
			continue
		}
		dir := "asc"
		if len(fields) > 1 && fields[1] == "desc" {
			dir = "desc"
		}
		terms = append(terms, col+" "+dir)
		if s.MaxTerms > 0 && len(terms) == s.MaxTerms {
			break
		}
	}
	if len(terms) == 0 {
		return s.Default
	}
	return strings.Join(terms, ", ")
}

func (s SortRules) column(name string) (string, bool) {
	for _, c := range s.Allowed {
		if c == name {
			return c, true
		}
	}
	return "", false
}

// Page is a validated limit/offset pair.
type Page struct {
	Limit  int
	Offset int
}

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)
