package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ktmouk/minute-sub000/internal/domain"
	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
	"github.com/ktmouk/minute-sub000/internal/domain/services"
)

// treeService implements the TreeService interface
type treeService struct {
	folderRepo    repositories.FolderRepository
	hierarchyRepo repositories.FolderHierarchyRepository
	logger        *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folderRepo repositories.FolderRepository,
	hierarchyRepo repositories.FolderHierarchyRepository,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		folderRepo:    folderRepo,
		hierarchyRepo: hierarchyRepo,
		logger:        logger,
	}
}

// GetFolderTree builds the nested forest from one flat folder query
func (s *treeService) GetFolderTree(ctx context.Context, userID string) ([]*models.FolderTreeNode, error) {
	allFolders, err := s.folderRepo.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Orders are dense per parent, so sorting once keeps every child list ordered
	sort.SliceStable(allFolders, func(i, j int) bool {
		return allFolders[i].Order < allFolders[j].Order
	})

	// First pass: create all folder nodes
	folderMap := make(map[string]*models.FolderTreeNode, len(allFolders))
	for _, folder := range allFolders {
		folderMap[folder.ID] = &models.FolderTreeNode{
			ID:       folder.ID,
			Name:     folder.Name,
			Emoji:    folder.Emoji,
			Color:    folder.Color,
			ParentID: folder.ParentID,
			Order:    folder.Order,
			Folders:  []*models.FolderTreeNode{},
		}
	}

	// Second pass: attach children to parents
	roots := make([]*models.FolderTreeNode, 0)
	for _, folder := range allFolders {
		node := folderMap[folder.ID]
		if folder.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, exists := folderMap[*folder.ParentID]; exists {
			parent.Folders = append(parent.Folders, node)
		}
	}

	s.logger.Debug("folder tree built",
		"user_id", userID,
		"folder_count", len(allFolders),
	)

	return roots, nil
}

// GetAncestors reads the precomputed ancestor chain from the closure table in a single
// query and returns it root first, ending with the folder itself
func (s *treeService) GetAncestors(ctx context.Context, userID, folderID string) ([]models.Folder, error) {
	if err := validateFolderID(userID, folderID); err != nil {
		return nil, err
	}

	rows, err := s.hierarchyRepo.ListAncestors(ctx, userID, folderID)
	if err != nil {
		return nil, fmt.Errorf("list ancestors: %w", err)
	}

	depthByID := make(map[string]int, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.IsRootReachability() {
			continue
		}
		depthByID[*row.AncestorID] = row.Depth
		ids = append(ids, *row.AncestorID)
	}

	folders, err := s.folderRepo.ListByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return nil, &domain.NotFoundError{Message: "folder does not exist"}
	}

	sort.Slice(folders, func(i, j int) bool {
		return depthByID[folders[i].ID] > depthByID[folders[j].ID]
	})

	return folders, nil
}
