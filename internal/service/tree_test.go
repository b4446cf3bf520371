package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktmouk/minute-sub000/internal/domain"
	"github.com/ktmouk/minute-sub000/internal/domain/models"
)

func TestGetFolderTree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	work := f.createFolder(t, userA, "work", nil)
	home := f.createFolder(t, userA, "home", nil)
	f.createFolder(t, userA, "meetings", work)
	coding := f.createFolder(t, userA, "coding", work)
	f.createFolder(t, userA, "reviews", coding)
	f.createFolder(t, userB, "other", nil)

	// put home first and coding before meetings
	require.NoError(t, f.move(userA, home, nil, nil))
	require.NoError(t, f.move(userA, coding, work, nil))

	tree, err := f.tree.GetFolderTree(ctx, userA)
	require.NoError(t, err)

	assert.Equal(t, []string{"home", "work"}, nodeNames(f, tree))
	assert.Empty(t, tree[0].Folders)
	assert.Equal(t, []string{"coding", "meetings"}, nodeNames(f, tree[1].Folders))
	assert.Equal(t, []string{"reviews"}, nodeNames(f, tree[1].Folders[0].Folders))
}

func TestGetFolderTree_Empty(t *testing.T) {
	f := newFixture(t)

	tree, err := f.tree.GetFolderTree(context.Background(), userA)
	require.NoError(t, err)
	assert.NotNil(t, tree)
	assert.Empty(t, tree)
}

func TestGetAncestors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := f.createFolder(t, userA, "root", nil)
	mid := f.createFolder(t, userA, "mid", root)
	leaf := f.createFolder(t, userA, "leaf", mid)

	ancestors, err := f.tree.GetAncestors(ctx, userA, leaf.ID)
	require.NoError(t, err)

	names := make([]string, len(ancestors))
	for i, folder := range ancestors {
		names[i] = f.name(folder.ID)
	}
	assert.Equal(t, []string{"root", "mid", "leaf"}, names)

	ancestors, err = f.tree.GetAncestors(ctx, userA, root.ID)
	require.NoError(t, err)
	require.Len(t, ancestors, 1)
	assert.Equal(t, root.ID, ancestors[0].ID)
}

func TestGetAncestors_NotFound(t *testing.T) {
	f := newFixture(t)
	foreign := f.createFolder(t, userB, "foreign", nil)

	for _, id := range []string{uuid.NewString(), foreign.ID} {
		_, err := f.tree.GetAncestors(context.Background(), userA, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
}

func nodeNames(f *fixture, nodes []*models.FolderTreeNode) []string {
	names := make([]string, len(nodes))
	for i, node := range nodes {
		names[i] = f.name(node.ID)
	}
	return names
}
