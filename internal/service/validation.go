package service

import (
	"context"
	"fmt"

	"github.com/ktmouk/minute-sub000/internal/domain"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
)

// ResourceValidator checks that referenced resources exist and belong to the requesting user
// before an operation touches them
type ResourceValidator struct {
	folderRepo   repositories.FolderRepository
	categoryRepo repositories.CategoryRepository
}

// NewResourceValidator creates a new resource validator
func NewResourceValidator(
	folderRepo repositories.FolderRepository,
	categoryRepo repositories.CategoryRepository,
) *ResourceValidator {
	return &ResourceValidator{
		folderRepo:   folderRepo,
		categoryRepo: categoryRepo,
	}
}

// ValidateFolder ensures a folder exists for userID.
// A missing folder is reported as a NotFoundError carrying message.
func (v *ResourceValidator) ValidateFolder(ctx context.Context, folderID, userID, message string) error {
	if _, err := v.folderRepo.GetByID(ctx, folderID, userID); err != nil {
		return notFoundAs(err, message)
	}
	return nil
}

// ValidateFolders ensures every folder ID exists for userID
func (v *ResourceValidator) ValidateFolders(ctx context.Context, folderIDs []string, userID string) error {
	if len(folderIDs) == 0 {
		return nil
	}

	folders, err := v.folderRepo.ListByIDs(ctx, userID, folderIDs)
	if err != nil {
		return fmt.Errorf("list folders: %w", err)
	}
	if len(folders) != len(uniqueIDs(folderIDs)) {
		return &domain.NotFoundError{Message: "folder does not exist"}
	}
	return nil
}

// ValidateCategories ensures every category ID exists for userID
func (v *ResourceValidator) ValidateCategories(ctx context.Context, categoryIDs []string, userID string) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	categories, err := v.categoryRepo.ListByIDs(ctx, userID, categoryIDs)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if len(categories) != len(uniqueIDs(categoryIDs)) {
		return &domain.NotFoundError{Message: "category does not exist"}
	}
	return nil
}

// uniqueIDs removes duplicates, keeping first occurrences in order
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
