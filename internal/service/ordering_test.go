package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktmouk/minute-sub000/internal/domain"
	"github.com/ktmouk/minute-sub000/internal/domain/models"
)

func siblingGroup(ids ...string) []models.Folder {
	folders := make([]models.Folder, len(ids))
	for i, id := range ids {
		folders[i] = models.Folder{ID: id, Order: i}
	}
	return folders
}

func folderIDsOf(folders []models.Folder) []string {
	result := make([]string, len(folders))
	for i, folder := range folders {
		result[i] = folder.ID
	}
	return result
}

func TestInsertIndex(t *testing.T) {
	group := siblingGroup("a", "b", "c")
	a, c, x := "a", "c", "x"

	tests := []struct {
		name    string
		after   *string
		want    int
		wantErr bool
	}{
		{name: "first when no after folder", after: nil, want: 0},
		{name: "after first sibling", after: &a, want: 1},
		{name: "after last sibling", after: &c, want: 3},
		{name: "unknown sibling", after: &x, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := insertIndex(group, tt.after)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpliceSiblings(t *testing.T) {
	parent := "p"

	tests := []struct {
		name  string
		index int
		want  []string
	}{
		{name: "front", index: 0, want: []string{"m", "a", "b"}},
		{name: "middle", index: 1, want: []string{"a", "m", "b"}},
		{name: "end", index: 2, want: []string{"a", "b", "m"}},
		{name: "clamped high", index: 9, want: []string{"a", "b", "m"}},
		{name: "clamped low", index: -1, want: []string{"m", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := spliceSiblings(siblingGroup("a", "b"), models.Folder{ID: "m", Order: 7}, tt.index, &parent)

			assert.Equal(t, tt.want, folderIDsOf(result))
			for i, folder := range result {
				assert.Equal(t, i, folder.Order)
				require.NotNil(t, folder.ParentID)
				assert.Equal(t, "p", *folder.ParentID)
			}
		})
	}
}

func TestResequence_ToRoot(t *testing.T) {
	group := []models.Folder{{ID: "a", Order: 3}, {ID: "b", Order: 9}}

	result := resequence(group, nil)

	assert.Equal(t, 0, result[0].Order)
	assert.Equal(t, 1, result[1].Order)
	assert.Nil(t, result[0].ParentID)
	assert.Nil(t, result[1].ParentID)
}

func TestWithoutFolder(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, folderIDsOf(withoutFolder(siblingGroup("a", "b", "c"), "b")))
	assert.Equal(t, []string{"a"}, folderIDsOf(withoutFolder(siblingGroup("a"), "z")))
}

func TestSameID(t *testing.T) {
	a1, a2, b := "a", "a", "b"

	assert.True(t, sameID(nil, nil))
	assert.True(t, sameID(&a1, &a2))
	assert.False(t, sameID(&a1, &b))
	assert.False(t, sameID(&a1, nil))
	assert.False(t, sameID(nil, &b))
}
