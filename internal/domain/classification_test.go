package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id int64, parent int64, name string) Classification {
	c := Classification{ID: id, ProjectID: 1, Name: name, IsActive: true}
	if parent != 0 {
		p := parent
		c.ParentID = &p
	}
	return c
}

func TestBuildTree_Empty(t *testing.T) {
	forest, orphans := BuildTree(nil)
	assert.NotNil(t, forest)
	assert.Empty(t, forest)
	assert.Empty(t, orphans)
}

func TestBuildTree_NestsChildrenInInputOrder(t *testing.T) {
	rows := []Classification{
		node(1, 0, "ROOT"),
		node(2, 1, "Design"),
		node(3, 1, "Build"),
		node(4, 2, "Drawings"),
		node(5, 2, "Review"),
	}
	forest, orphans := BuildTree(rows)
	require.Len(t, forest, 1)
	assert.Empty(t, orphans)

	root := forest[0]
	require.Len(t, root.Children, 2)
	assert.Equal(t, "Design", root.Children[0].Name)
	assert.Equal(t, "Build", root.Children[1].Name)
	require.Len(t, root.Children[0].Children, 2)
	assert.Equal(t, "Drawings", root.Children[0].Children[0].Name)
	assert.Equal(t, "Review", root.Children[0].Children[1].Name)
	assert.Empty(t, root.Children[1].Children)
	assert.Equal(t, len(rows), CountNodes(forest))
}

func TestBuildTree_MultipleRoots(t *testing.T) {
	forest, _ := BuildTree([]Classification{node(1, 0, "ROOT"), node(7, 0, "ROOT")})
	assert.Len(t, forest, 2)
}

func TestBuildTree_DropsOrphans(t *testing.T) {
	rows := []Classification{
		node(1, 0, "ROOT"),
		node(2, 1, "Design"),
		node(9, 42, "Lost"),
	}
	forest, orphans := BuildTree(rows)
	require.Len(t, orphans, 1)
	assert.Equal(t, int64(9), orphans[0].ID)
	assert.Equal(t, 2, CountNodes(forest))
}

func TestFlattenLevels(t *testing.T) {
	rows := []Classification{
		node(1, 0, "ROOT"),
		node(2, 1, "Mechanical"),
		node(3, 2, "Frame"),
		node(4, 3, "Welding"),
		node(5, 3, "Painting"),
		node(6, 1, "Electrical"),
	}
	forest, _ := BuildTree(rows)
	flat := FlattenLevels(forest)
	require.Len(t, flat, 2)
	assert.Equal(t, FlatRow{ID: 4, L1: "Mechanical", L2: "Frame", L3: "Welding"}, flat[0])
	assert.Equal(t, "Painting", flat[1].L3)
}

func TestIsRootName(t *testing.T) {
	assert.True(t, IsRootName("ROOT"))
	assert.True(t, IsRootName(" root "))
	assert.False(t, IsRootName("Roots"))
}

func TestIsDescendantPath(t *testing.T) {
	assert.True(t, IsDescendantPath("1/2", "1/2"))
	assert.True(t, IsDescendantPath("1/2", "1/2/5"))
	assert.False(t, IsDescendantPath("1/2", "1/25"))
	assert.False(t, IsDescendantPath("1/2", "1"))
}

func TestClassificationPatch_Apply(t *testing.T) {
	c := node(3, 1, "Old")
	name := "  New "
	sortNo := 4
	patched := ClassificationPatch{Name: &name, SortNo: &sortNo, OwnerDeptID: Some(int64(12))}.Apply(c)
	assert.Equal(t, "New", patched.Name)
	assert.Equal(t, 4, patched.SortNo)
	require.NotNil(t, patched.OwnerDeptID)
	assert.Equal(t, int64(12), *patched.OwnerDeptID)
	assert.Equal(t, "Old", c.Name, "original must be untouched")

	assert.True(t, ClassificationPatch{}.IsEmpty())
}
