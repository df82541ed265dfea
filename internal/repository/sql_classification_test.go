package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alexanderramin/masterplan/internal/domain"
	"github.com/alexanderramin/masterplan/internal/repository"
	"github.com/alexanderramin/masterplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupClassificationRepo(t *testing.T) (*repository.SQLClassificationRepo, *domain.Project, *domain.Classification) {
	t.Helper()
	db := testutil.NewTestDB(t)
	p, root := testutil.SeedProject(t, db, "Classification Host")
	return repository.NewSQLClassificationRepo(db), p, root
}

func TestClassificationRepo_CreateReturnsStoreComputedPath(t *testing.T) {
	repo, p, root := setupClassificationRepo(t)
	ctx := context.Background()

	assert.Equal(t, 0, root.Depth)
	assert.Equal(t, fmt.Sprint(root.ID), root.Path)

	child := testutil.NewTestClassification(p.ID, "Design", testutil.WithParent(root.ID), testutil.WithSortNo(3), testutil.WithOwnerDept(7))
	require.NoError(t, repo.Create(ctx, child))
	assert.Equal(t, 1, child.Depth)
	assert.Equal(t, fmt.Sprintf("%d/%d", root.ID, child.ID), child.Path)
	assert.Equal(t, 3, child.SortNo)
	require.NotNil(t, child.OwnerDeptID)
	assert.Equal(t, int64(7), *child.OwnerDeptID)
	assert.False(t, child.CreatedAt.IsZero())
}

func TestClassificationRepo_DuplicateSiblingIsConflict(t *testing.T) {
	repo, p, root := setupClassificationRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestClassification(p.ID, "Design", testutil.WithParent(root.ID))))
	err := repo.Create(ctx, testutil.NewTestClassification(p.ID, "Design", testutil.WithParent(root.ID)))
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = repo.Create(ctx, testutil.NewTestClassification(p.ID, "ROOT"))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestClassificationRepo_GetByIDNotFound(t *testing.T) {
	repo, _, _ := setupClassificationRepo(t)
	_, err := repo.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClassificationRepo_ListFiltersAndSorts(t *testing.T) {
	db := testutil.NewTestDB(t)
	p, root := testutil.SeedProject(t, db, "List Host")
	repo := repository.NewSQLClassificationRepo(db)
	ctx := context.Background()

	testutil.SeedNode(t, db, root, "Charlie", testutil.WithSortNo(1))
	testutil.SeedNode(t, db, root, "Alpha", testutil.WithSortNo(2))
	testutil.SeedNode(t, db, root, "Bravo", testutil.WithSortNo(1), testutil.Inactive())

	parent := root.ID
	got, err := repo.List(ctx, repository.ClassificationFilter{
		ProjectID: &p.ID,
		ParentID:  &parent,
		Page:      repository.Page{Limit: 50},
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Bravo", "Charlie", "Alpha"}, names(got))

	active := true
	got, err = repo.List(ctx, repository.ClassificationFilter{ProjectID: &p.ID, ParentID: &parent, IsActive: &active, Sort: "name desc", Page: repository.Page{Limit: 50}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Charlie", "Alpha"}, names(got))

	roots := int64(0)
	got, err = repo.List(ctx, repository.ClassificationFilter{ParentID: &roots, Page: repository.Page{Limit: 50}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ROOT"}, names(got))

	got, err = repo.List(ctx, repository.ClassificationFilter{ProjectID: &p.ID, Sort: "id asc", Page: repository.Page{Limit: 2, Offset: 1}})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestClassificationRepo_TreeRowsOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	p, root := testutil.SeedProject(t, db, "Tree Host")
	repo := repository.NewSQLClassificationRepo(db)

	b := testutil.SeedNode(t, db, root, "B", testutil.WithSortNo(2))
	a := testutil.SeedNode(t, db, root, "A", testutil.WithSortNo(2))
	testutil.SeedNode(t, db, a, "A1", testutil.Inactive())
	testutil.SeedNode(t, db, b, "B1")

	rows, err := repo.ListTreeRows(context.Background(), p.ID, false)
	require.NoError(t, err)
	var got []string
	for _, r := range rows {
		got = append(got, r.Name)
	}
	assert.Equal(t, []string{"ROOT", "A", "B", "A1", "B1"}, got)

	rows, err = repo.ListTreeRows(context.Background(), p.ID, true)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestClassificationRepo_UpdateReparentsSubtree(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, root := testutil.SeedProject(t, db, "Move Host")
	repo := repository.NewSQLClassificationRepo(db)
	ctx := context.Background()

	a := testutil.SeedNode(t, db, root, "A")
	b := testutil.SeedNode(t, db, root, "B")
	a1 := testutil.SeedNode(t, db, a, "A1")

	a.ParentID = &b.ID
	require.NoError(t, repo.Update(ctx, a))
	assert.Equal(t, 2, a.Depth)

	moved, err := repo.GetByID(ctx, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, moved.Depth)
	assert.Equal(t, fmt.Sprintf("%d/%d/%d/%d", root.ID, b.ID, a.ID, a1.ID), moved.Path)
}

func TestClassificationRepo_CountsAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	p, root := testutil.SeedProject(t, db, "Count Host")
	repo := repository.NewSQLClassificationRepo(db)
	ctx := context.Background()

	a := testutil.SeedNode(t, db, root, "A")
	testutil.SeedNode(t, db, a, "A1")
	testutil.SeedTask(t, db, p.ID, a.ID, "T1")
	testutil.SeedTask(t, db, p.ID, a.ID, "T2")

	n, err := repo.CountChildren(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = repo.CountTasks(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	leaf := testutil.SeedNode(t, db, root, "Leaf")
	require.NoError(t, repo.Delete(ctx, leaf.ID))
	assert.ErrorIs(t, repo.Delete(ctx, leaf.ID), domain.ErrNotFound)

	exists, err := repo.SiblingNameExists(ctx, p.ID, &root.ID, "A", 0)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.SiblingNameExists(ctx, p.ID, &root.ID, "A", a.ID)
	require.NoError(t, err)
	assert.False(t, exists, "a node is not its own sibling")
}

func names(cs []*domain.Classification) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}
