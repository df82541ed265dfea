package formatter

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/masterplan/internal/domain"
)

func TestMain(m *testing.M) {
	SetColorEnabled(false)
	os.Exit(m.Run())
}

func node(id int64, name string, active bool, children ...*domain.TreeNode) *domain.TreeNode {
	if children == nil {
		children = []*domain.TreeNode{}
	}
	return &domain.TreeNode{
		Classification: domain.Classification{ID: id, Name: name, IsActive: active},
		Children:       children,
	}
}

func TestRenderTree_Connectors(t *testing.T) {
	forest := []*domain.TreeNode{
		node(1, "ROOT", true,
			node(2, "Design", true,
				node(4, "Frame", true),
			),
			node(3, "Build", false),
		),
	}

	lines := strings.Split(strings.TrimRight(RenderTree(ClassificationItems(forest)), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "#1 ROOT", lines[0])
	assert.Equal(t, "├─ #2 Design", lines[1])
	assert.Equal(t, "│  └─ #4 Frame", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "└─ #3 Build"))
	assert.Contains(t, lines[3], "[ inactive ]")
}

func TestRenderTree_LastBranchHasNoRail(t *testing.T) {
	forest := []*domain.TreeNode{
		node(1, "ROOT", true,
			node(2, "Only", true,
				node(3, "Leaf", true),
			),
		),
	}
	out := RenderTree(ClassificationItems(forest))
	assert.Contains(t, out, "   └─ #3 Leaf")
	assert.NotContains(t, out, "│")
}

func TestRenderTree_Empty(t *testing.T) {
	assert.Empty(t, RenderTree(nil))
}

func TestFormatClassificationTree(t *testing.T) {
	code := "P-1"
	p := &domain.Project{ID: 1, Code: &code, Name: "Alpha"}

	out := FormatClassificationTree(p, []*domain.TreeNode{node(1, "ROOT", true, node(2, "Design", true))})
	assert.Contains(t, out, "P-1  ALPHA")
	assert.Contains(t, out, "2 nodes")

	assert.Contains(t, FormatClassificationTree(p, nil), "No classifications.")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"A", "LONG"}, [][]string{{"xyz", "1"}, {"q"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "A    LONG", lines[0])
	assert.Equal(t, "───  ────", lines[1])
	assert.Equal(t, "xyz  1", lines[2])
	assert.Equal(t, "q    ", lines[3])
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name  string
		pct   int
		width int
		want  string
	}{
		{"zero", 0, 4, "[░░░░]   0%"},
		{"half", 50, 4, "[██░░]  50%"},
		{"full", 100, 4, "[████] 100%"},
		{"clamps high", 150, 4, "[████] 100%"},
		{"clamps low", -5, 4, "[░░░░]   0%"},
		{"tiny width", 50, 1, "[█░]  50%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderProgress(tt.pct, tt.width))
		})
	}
}

func TestFormatDashboard(t *testing.T) {
	code := "P-1"
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	buckets := []domain.StatusBucket{
		{StatusID: 1, StatusCode: domain.ProjectPending, StatusName: "Pending", DisplayOrder: 1, Count: 2},
		{StatusID: 2, StatusCode: domain.ProjectInProgress, StatusName: "In progress", DisplayOrder: 2, Count: 1},
	}
	projects := []*domain.ProjectProgress{
		{ProjectID: 1, Code: &code, Name: "Alpha", StatusCode: domain.ProjectInProgress, DueAt: &due, ProgressPct: 50},
		{ProjectID: 2, Name: "Beta", StatusCode: domain.ProjectPending},
	}

	out := FormatDashboard(buckets, projects)
	assert.Contains(t, out, "PROJECTS BY STATUS")
	assert.Contains(t, out, "3 projects")
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, " 50%")
	assert.Contains(t, out, "Beta")

	assert.Contains(t, FormatProjectProgress(nil), "No projects.")
}
