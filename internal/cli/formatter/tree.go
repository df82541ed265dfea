package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/masterplan/internal/domain"
)

// TreeItem is one line of a rendered tree.
type TreeItem struct {
	ID     int64 // 0 means don't display
	Title  string
	Depth  int
	IsLast bool
	// Rails[i] reports whether the ancestor at depth i+1 has later siblings,
	// which keeps its vertical connector running past this line.
	Rails []bool
	Muted bool
	Badge string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeGap    = "   "
)

// ClassificationItems walks forest depth-first into TreeItems.
func ClassificationItems(forest []*domain.TreeNode) []TreeItem {
	var items []TreeItem
	var walk func(nodes []*domain.TreeNode, depth int, rails []bool)
	walk = func(nodes []*domain.TreeNode, depth int, rails []bool) {
		for i, n := range nodes {
			last := i == len(nodes)-1
			item := TreeItem{
				ID:     n.ID,
				Title:  n.Name,
				Depth:  depth,
				IsLast: last,
				Rails:  append([]bool(nil), rails...),
				Muted:  !n.IsActive,
			}
			if !n.IsActive {
				item.Badge = "inactive"
			}
			items = append(items, item)

			next := rails
			if depth > 0 {
				next = append(append([]bool(nil), rails...), !last)
			}
			walk(n.Children, depth+1, next)
		}
	}
	walk(forest, 0, nil)
	return items
}

// RenderTree renders items with box-drawing connectors. Badges are
// right-aligned in a column after the widest line.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	widest := 0
	for i, item := range items {
		var prefix strings.Builder
		if item.Depth > 0 {
			for _, rail := range item.Rails {
				if rail {
					prefix.WriteString(treePipe)
				} else {
					prefix.WriteString(treeGap)
				}
			}
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}

		title := item.Title
		if item.Muted {
			title = Dim(title)
		} else if item.Depth == 0 {
			title = Bold(title)
		}
		if item.ID > 0 {
			title = StyleDim.Render(fmt.Sprintf("#%d ", item.ID)) + title
		}

		contents[i] = StyleDim.Render(prefix.String()) + title
		if w := lipgloss.Width(contents[i]); w > widest {
			widest = w
		}
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(contents[i])
		if item.Badge != "" {
			pad := max(0, widest-lipgloss.Width(contents[i]))
			b.WriteString(strings.Repeat(" ", pad) + "  " + StyleYellow.Render("[ "+item.Badge+" ]"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatClassificationTree renders a project's tree under a header.
func FormatClassificationTree(p *domain.Project, forest []*domain.TreeNode) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s  %s", p.DisplayCode(), p.Name)))
	b.WriteString("\n")
	if len(forest) == 0 {
		b.WriteString(Dim("No classifications.") + "\n")
		return b.String()
	}
	b.WriteString(RenderTree(ClassificationItems(forest)))
	b.WriteString(Dim(fmt.Sprintf("%d nodes", domain.CountNodes(forest))) + "\n")
	return b.String()
}
