package service

import (
	"context"
	"fmt"
	"log/slog"
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

type chartService struct {
	chartRepo    repositories.ChartRepository
	categoryRepo repositories.CategoryRepository
	txManager    repositories.TransactionManager
	validator    *ResourceValidator
	logger       *slog.Logger
}

// NewChartService creates a new chart service
func NewChartService(
	chartRepo repositories.ChartRepository,
	categoryRepo repositories.CategoryRepository,
	txManager repositories.TransactionManager,
	validator *ResourceValidator,
	logger *slog.Logger,
) services.ChartService {
	return &chartService{
		chartRepo:    chartRepo,
		categoryRepo: categoryRepo,
		txManager:    txManager,
		validator:    validator,
		logger:       logger,
	}
}

// CreateCategory creates a category mapped to folders of the same user
func (s *chartService) CreateCategory(ctx context.Context, req *services.CreateCategoryRequest) (*models.Category, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.RuneLength(1, config.MaxCategoryNameLength)),
		validation.Field(&req.Emoji, validation.Required, validation.RuneLength(1, config.MaxEmojiLength)),
		validation.Field(&req.Color, validation.Required, validation.Match(colorPattern).Error("color must be a #RRGGBB hex value")),
		validation.Field(&req.FolderIDs, validation.Each(is.UUID)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folderIDs := uniqueIDs(req.FolderIDs)

	now := time.Now()
	category := &models.Category{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Name:      strings.TrimSpace(req.Name),
		Emoji:     req.Emoji,
		Color:     req.Color,
		FolderIDs: folderIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.validator.ValidateFolders(ctx, folderIDs, req.UserID); err != nil {
			return err
		}
		return s.categoryRepo.Create(ctx, category)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("category created",
		"id", category.ID,
		"user_id", req.UserID,
		"folder_count", len(folderIDs),
	)

	return category, nil
}

// CreateChart creates a chart whose folders and categories all belong to the same user
func (s *chartService) CreateChart(ctx context.Context, req *services.CreateChartRequest) (*models.Chart, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.RuneLength(1, config.MaxChartNameLength)),
		validation.Field(&req.FolderIDs, validation.Each(is.UUID)),
		validation.Field(&req.CategoryIDs, validation.Each(is.UUID)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folderIDs := uniqueIDs(req.FolderIDs)
	categoryIDs := uniqueIDs(req.CategoryIDs)
	if len(folderIDs)+len(categoryIDs) > config.MaxChartItems {
		return nil, fmt.Errorf("%w: a chart can show at most %d folders and categories", domain.ErrValidation, config.MaxChartItems)
	}

	now := time.Now()
	chart := &models.Chart{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		Name:        strings.TrimSpace(req.Name),
		FolderIDs:   folderIDs,
		CategoryIDs: categoryIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.validator.ValidateFolders(ctx, folderIDs, req.UserID); err != nil {
			return err
		}
		if err := s.validator.ValidateCategories(ctx, categoryIDs, req.UserID); err != nil {
			return err
		}
		return s.chartRepo.Create(ctx, chart)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("chart created",
		"id", chart.ID,
		"user_id", req.UserID,
		"folder_count", len(folderIDs),
		"category_count", len(categoryIDs),
	)

	return chart, nil
}
