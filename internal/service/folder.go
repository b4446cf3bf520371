package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/ktmouk/minute-sub000/internal/config"
	"github.com/ktmouk/minute-sub000/internal/domain"
	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
	"github.com/ktmouk/minute-sub000/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type folderService struct {
	folderRepo    repositories.FolderRepository
	hierarchyRepo repositories.FolderHierarchyRepository
	txManager     repositories.TransactionManager
	validator     *ResourceValidator
	logger        *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	hierarchyRepo repositories.FolderHierarchyRepository,
	txManager repositories.TransactionManager,
	validator *ResourceValidator,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo:    folderRepo,
		hierarchyRepo: hierarchyRepo,
		txManager:     txManager,
		validator:     validator,
		logger:        logger,
	}
}

// CreateFolder creates a folder as the last child of req.AncestorID (or as the last root)
// and inherits the ancestor's whole closure chain one level deeper.
func (s *folderService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	folder := &models.Folder{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		ParentID:  copyID(req.AncestorID),
		Name:      strings.TrimSpace(req.Name),
		Emoji:     req.Emoji,
		Color:     req.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.hierarchyRepo.LockUser(ctx, req.UserID); err != nil {
			return err
		}

		var ancestorRows []models.FolderHierarchy
		if req.AncestorID != nil {
			if err := s.validator.ValidateFolder(ctx, *req.AncestorID, req.UserID, "ancestor folder does not exist"); err != nil {
				return err
			}
			rows, err := s.hierarchyRepo.ListAncestors(ctx, req.UserID, *req.AncestorID)
			if err != nil {
				return fmt.Errorf("list ancestor hierarchy: %w", err)
			}
			ancestorRows = rows
		}

		order, err := s.folderRepo.NextOrder(ctx, folder.ParentID, req.UserID)
		if err != nil {
			return err
		}
		folder.Order = order

		if err := s.folderRepo.Create(ctx, folder); err != nil {
			return err
		}

		return s.hierarchyRepo.CreateMany(ctx, newFolderHierarchies(folder, ancestorRows))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"user_id", req.UserID,
		"parent_id", folder.ParentID,
		"order", folder.Order,
	)

	return folder, nil
}

// GetFolder retrieves a folder
func (s *folderService) GetFolder(ctx context.Context, userID, folderID string) (*models.Folder, error) {
	if err := validateFolderID(userID, folderID); err != nil {
		return nil, err
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID, userID)
	if err != nil {
		return nil, notFoundAs(err, "folder does not exist")
	}
	return folder, nil
}

// UpdateFolder updates descriptive fields. Position changes go through MoveFolder.
func (s *folderService) UpdateFolder(ctx context.Context, userID, folderID string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.GetFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		folder.Name = strings.TrimSpace(*req.Name)
	}
	if req.Emoji != nil {
		folder.Emoji = *req.Emoji
	}
	if req.Color != nil {
		folder.Color = *req.Color
	}
	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, notFoundAs(err, "folder does not exist")
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"user_id", userID,
	)

	return folder, nil
}

// MoveFolder re-parents req.FolderID under req.AncestorID and places it right after
// req.AfterFolderID (first when nil). The sibling group is fully re-sequenced and the
// closure rows of the whole moving subtree are re-anchored, all in one transaction.
func (s *folderService) MoveFolder(ctx context.Context, req *services.MoveFolderRequest) error {
	if err := s.validateMoveRequest(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var folder *models.Folder
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.hierarchyRepo.LockUser(ctx, req.UserID); err != nil {
			return err
		}

		if req.AncestorID != nil {
			if err := s.validator.ValidateFolder(ctx, *req.AncestorID, req.UserID, "ancestor folder does not exist"); err != nil {
				return err
			}

			// The self row makes a move onto the folder itself fail here too
			cycle, err := s.hierarchyRepo.IsDescendant(ctx, req.UserID, req.FolderID, *req.AncestorID)
			if err != nil {
				return fmt.Errorf("check descendant: %w", err)
			}
			if cycle {
				return &domain.InvalidTopologyError{Message: "folder cannot move to the descendant folder"}
			}
		}

		var err error
		folder, err = s.folderRepo.GetByID(ctx, req.FolderID, req.UserID)
		if err != nil {
			return notFoundAs(err, "folder does not exist")
		}

		if err := s.reorderSiblings(ctx, folder, req.AncestorID, req.AfterFolderID); err != nil {
			return err
		}

		return s.reanchorSubtree(ctx, req.UserID, folder.ID, req.AncestorID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder moved",
		"id", req.FolderID,
		"user_id", req.UserID,
		"from_parent_id", folder.ParentID,
		"to_parent_id", req.AncestorID,
		"after_folder_id", req.AfterFolderID,
	)

	return nil
}

// reorderSiblings splices folder into the sibling list of parentID and rewrites
// parent_id/order for that group. When the parent changes the old group is
// re-sequenced too, so no gap is left behind.
func (s *folderService) reorderSiblings(ctx context.Context, folder *models.Folder, parentID, afterFolderID *string) error {
	siblings, err := s.folderRepo.ListChildren(ctx, parentID, folder.UserID)
	if err != nil {
		return fmt.Errorf("list siblings: %w", err)
	}
	siblings = withoutFolder(siblings, folder.ID)

	index, err := insertIndex(siblings, afterFolderID)
	if err != nil {
		return err
	}

	positions := spliceSiblings(siblings, *folder, index, parentID)

	if !sameID(folder.ParentID, parentID) {
		previous, err := s.folderRepo.ListChildren(ctx, folder.ParentID, folder.UserID)
		if err != nil {
			return fmt.Errorf("list previous siblings: %w", err)
		}
		positions = append(positions, resequence(withoutFolder(previous, folder.ID), folder.ParentID)...)
	}

	return s.folderRepo.UpdatePositions(ctx, folder.UserID, positions)
}

// reanchorSubtree strips every external closure row of the subtree rooted at folderID
// and links the subtree under its new parent. Rows internal to the subtree keep their
// relative depths and are left untouched.
func (s *folderService) reanchorSubtree(ctx context.Context, userID, folderID string, parentID *string) error {
	subtree, err := s.hierarchyRepo.ListDescendants(ctx, userID, folderID)
	if err != nil {
		return fmt.Errorf("list subtree hierarchy: %w", err)
	}

	var parentChain []models.FolderHierarchy
	if parentID != nil {
		parentChain, err = s.hierarchyRepo.ListAncestors(ctx, userID, *parentID)
		if err != nil {
			return fmt.Errorf("list parent hierarchy: %w", err)
		}
	}

	memberIDs := make([]string, 0, len(subtree))
	for _, row := range subtree {
		memberIDs = append(memberIDs, row.DescendantID)
	}

	if err := s.hierarchyRepo.DeleteExternal(ctx, userID, memberIDs); err != nil {
		return err
	}

	return s.hierarchyRepo.CreateMany(ctx, linkSubtree(userID, subtree, parentChain, parentID == nil))
}

// DeleteFolder deletes a folder; the store cascades to descendants, their tasks,
// time entries and closure rows. The remaining siblings are re-sequenced.
func (s *folderService) DeleteFolder(ctx context.Context, userID, folderID string) error {
	if err := validateFolderID(userID, folderID); err != nil {
		return err
	}

	var folder *models.Folder
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.hierarchyRepo.LockUser(ctx, userID); err != nil {
			return err
		}

		var err error
		folder, err = s.folderRepo.GetByID(ctx, folderID, userID)
		if err != nil {
			return notFoundAs(err, "folder does not exist")
		}

		if err := s.folderRepo.Delete(ctx, folderID, userID); err != nil {
			return notFoundAs(err, "folder does not exist")
		}

		siblings, err := s.folderRepo.ListChildren(ctx, folder.ParentID, userID)
		if err != nil {
			return fmt.Errorf("list siblings: %w", err)
		}
		return s.folderRepo.UpdatePositions(ctx, userID, resequence(siblings, folder.ParentID))
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", folderID,
		"name", folder.Name,
		"user_id", userID,
	)

	return nil
}

// newFolderHierarchies builds the closure rows of a freshly created folder:
// its self row plus either the root-reachability row or a copy of every
// ancestor row shifted one level down.
func newFolderHierarchies(folder *models.Folder, ancestorRows []models.FolderHierarchy) []models.FolderHierarchy {
	rows := []models.FolderHierarchy{
		newHierarchy(folder.UserID, &folder.ID, folder.ID, 0),
	}

	if folder.ParentID == nil {
		return append(rows, newHierarchy(folder.UserID, nil, folder.ID, 1))
	}

	for _, ancestor := range ancestorRows {
		rows = append(rows, newHierarchy(folder.UserID, ancestor.AncestorID, folder.ID, ancestor.Depth+1))
	}
	return rows
}

// linkSubtree crosses the new parent's ancestor chain with the subtree rows.
// Moving to the forest root gives every member a fresh root-reachability row.
func linkSubtree(userID string, subtree, parentChain []models.FolderHierarchy, toRoot bool) []models.FolderHierarchy {
	if toRoot {
		rows := make([]models.FolderHierarchy, 0, len(subtree))
		for _, member := range subtree {
			rows = append(rows, newHierarchy(userID, nil, member.DescendantID, member.Depth+1))
		}
		return rows
	}

	rows := make([]models.FolderHierarchy, 0, len(subtree)*len(parentChain))
	for _, ancestor := range parentChain {
		for _, member := range subtree {
			rows = append(rows, newHierarchy(userID, ancestor.AncestorID, member.DescendantID, ancestor.Depth+member.Depth+1))
		}
	}
	return rows
}

func newHierarchy(userID string, ancestorID *string, descendantID string, depth int) models.FolderHierarchy {
	return models.FolderHierarchy{
		ID:           uuid.NewString(),
		UserID:       userID,
		AncestorID:   copyID(ancestorID),
		DescendantID: descendantID,
		Depth:        depth,
	}
}

// notFoundAs replaces a repository not-found error with a user-facing message
func notFoundAs(err error, message string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.NotFoundError{Message: message}
	}
	return err
}

// validateCreateRequest validates a folder creation request
func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.RuneLength(1, config.MaxFolderNameLength)),
		validation.Field(&req.Emoji, validation.Required, validation.RuneLength(1, config.MaxEmojiLength)),
		validation.Field(&req.Color, validation.Required, validation.Match(colorPattern).Error("color must be a #RRGGBB hex value")),
		validation.Field(&req.AncestorID, is.UUID),
	)
}

// validateUpdateRequest validates a folder update request
func (s *folderService) validateUpdateRequest(req *services.UpdateFolderRequest) error {
	if req.Name == nil && req.Emoji == nil && req.Color == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.RuneLength(1, config.MaxFolderNameLength)),
		validation.Field(&req.Emoji, validation.NilOrNotEmpty, validation.RuneLength(1, config.MaxEmojiLength)),
		validation.Field(&req.Color, validation.NilOrNotEmpty, validation.Match(colorPattern).Error("color must be a #RRGGBB hex value")),
	)
}

// validateFolderID rejects folder IDs that are not UUIDs before they reach the store
func validateFolderID(userID, folderID string) error {
	err := validation.Errors{
		"user_id":   validation.Validate(userID, validation.Required),
		"folder_id": validation.Validate(folderID, validation.Required, is.UUID),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// validateMoveRequest validates a folder move request
func (s *folderService) validateMoveRequest(req *services.MoveFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.FolderID, validation.Required, is.UUID),
		validation.Field(&req.AncestorID, is.UUID),
		validation.Field(&req.AfterFolderID, is.UUID),
	)
}
