package service

import (
	"github.com/ktmouk/minute-sub000/internal/domain"
	"github.com/ktmouk/minute-sub000/internal/domain/models"
)

// insertIndex resolves where a folder goes in siblings (ordered, mover excluded):
// directly after afterFolderID, or first when afterFolderID is nil.
func insertIndex(siblings []models.Folder, afterFolderID *string) (int, error) {
	if afterFolderID == nil {
		return 0, nil
	}
	for i, sibling := range siblings {
		if sibling.ID == *afterFolderID {
			return i + 1, nil
		}
	}
	return 0, &domain.ReferenceNotFoundError{Message: "after folder does not exist"}
}

// spliceSiblings inserts folder at index and re-sequences the whole group:
// every element gets order = position and the common parentID.
func spliceSiblings(siblings []models.Folder, folder models.Folder, index int, parentID *string) []models.Folder {
	if index < 0 {
		index = 0
	}
	if index > len(siblings) {
		index = len(siblings)
	}

	result := make([]models.Folder, 0, len(siblings)+1)
	result = append(result, siblings[:index]...)
	result = append(result, folder)
	result = append(result, siblings[index:]...)

	return resequence(result, parentID)
}

// resequence assigns dense orders 0..n-1 in slice order
func resequence(folders []models.Folder, parentID *string) []models.Folder {
	for i := range folders {
		folders[i].Order = i
		folders[i].ParentID = copyID(parentID)
	}
	return folders
}

// withoutFolder drops folderID from an ordered sibling list
func withoutFolder(folders []models.Folder, folderID string) []models.Folder {
	result := make([]models.Folder, 0, len(folders))
	for _, f := range folders {
		if f.ID != folderID {
			result = append(result, f)
		}
	}
	return result
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
