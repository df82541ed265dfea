package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// RootName is the reserved name of every project's single parentless node.
const RootName = "ROOT"

// Classification is one node of a project's classification tree. Depth and
// Path are maintained by the store and never written by the application.
type Classification struct {
	ID          int64
	ProjectID   int64
	ParentID    *int64
	Name        string
	Depth       int
	Path        string
	SortNo      int
	IsActive    bool
	OwnerDeptID *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Classification) IsRoot() bool { return c.ParentID == nil }

// IsRootName reports whether name spells ROOT, ignoring case and padding.
func IsRootName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), RootName)
}

// ValidateClassificationName enforces the 1..200 character limit.
func ValidateClassificationName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n == 0 || n > 200 {
		return InvalidArgument("classification name must be 1-200 characters")
	}
	return nil
}

// ClassificationPatch is a partial update of a classification node.
type ClassificationPatch struct {
	Name        *string
	ParentID    *int64
	SortNo      *int
	IsActive    *bool
	OwnerDeptID Optional[int64]
}

func (cp ClassificationPatch) IsEmpty() bool {
	return cp.Name == nil && cp.ParentID == nil && cp.SortNo == nil && cp.IsActive == nil && !cp.OwnerDeptID.Set
}

// Apply returns a copy of c with the patch merged in.
func (cp ClassificationPatch) Apply(c Classification) Classification {
	if cp.Name != nil {
		c.Name = strings.TrimSpace(*cp.Name)
	}
	if cp.ParentID != nil {
		pid := *cp.ParentID
		c.ParentID = &pid
	}
	if cp.SortNo != nil {
		c.SortNo = *cp.SortNo
	}
	if cp.IsActive != nil {
		c.IsActive = *cp.IsActive
	}
	c.OwnerDeptID = cp.OwnerDeptID.Merge(c.OwnerDeptID)
	return c
}

// TreeNode is a classification with its children attached.
type TreeNode struct {
	Classification
	Children []*TreeNode
}

// BuildTree assembles a forest from flat rows ordered by depth, sort_no, name.
// Rows with a NULL parent become forest roots; rows whose parent is absent
// from the input are left out of the forest and returned as orphans. Child
// order follows input order.
func BuildTree(rows []Classification) (forest []*TreeNode, orphans []Classification) {
	forest = []*TreeNode{}
	byID := make(map[int64]*TreeNode, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &TreeNode{Classification: rows[i], Children: []*TreeNode{}}
	}
	for i := range rows {
		node := byID[rows[i].ID]
		if rows[i].ParentID == nil {
			forest = append(forest, node)
			continue
		}
		parent, ok := byID[*rows[i].ParentID]
		if !ok {
			orphans = append(orphans, rows[i])
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return forest, orphans
}

// CountNodes returns the number of nodes reachable from forest.
func CountNodes(forest []*TreeNode) int {
	n := 0
	for _, node := range forest {
		n += 1 + CountNodes(node.Children)
	}
	return n
}

// FlatRow is one depth-3 leaf path of a project tree, L1 > L2 > L3.
type FlatRow struct {
	ID     int64
	L1     string
	L2     string
	L3     string
	Path   string
	SortNo int
}

// FlattenLevels lists every node three levels below a root, with the names
// of its level-1 and level-2 ancestors, in tree order.
func FlattenLevels(forest []*TreeNode) []FlatRow {
	rows := []FlatRow{}
	for _, root := range forest {
		for _, l1 := range root.Children {
			for _, l2 := range l1.Children {
				for _, l3 := range l2.Children {
					rows = append(rows, FlatRow{
						ID:     l3.ID,
						L1:     l1.Name,
						L2:     l2.Name,
						L3:     l3.Name,
						Path:   l3.Path,
						SortNo: l3.SortNo,
					})
				}
			}
		}
	}
	return rows
}

// IsDescendantPath reports whether candidate lies in the subtree rooted at
// the node whose materialized path is ancestor (the node itself included).
func IsDescendantPath(ancestor, candidate string) bool {
	return candidate == ancestor || strings.HasPrefix(candidate, ancestor+"/")
}
