// Package app wires repositories and services for the binaries under cmd/.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ktmouk/minute-sub000/internal/config"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
	"github.com/ktmouk/minute-sub000/internal/domain/services"
	"github.com/ktmouk/minute-sub000/internal/repository/memory"
	"github.com/ktmouk/minute-sub000/internal/repository/postgres"
	"github.com/ktmouk/minute-sub000/internal/service"
)

// Stores bundles every repository behind one backend
type Stores struct {
	Folders     repositories.FolderRepository
	Hierarchies repositories.FolderHierarchyRepository
	Categories  repositories.CategoryRepository
	Charts      repositories.ChartRepository
	Tasks       repositories.TaskRepository
	TimeEntries repositories.TimeEntryRepository
	TxManager   repositories.TransactionManager

	// Ping reports backend reachability; nil for the memory store
	Ping  func(ctx context.Context) error
	Close func()
}

// OpenStores connects the backend selected by cfg.Store
func OpenStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return NewMemoryStores(), nil
	case config.StorePostgres:
		return openPostgres(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// NewMemoryStores returns repositories over a fresh in-process store
func NewMemoryStores() *Stores {
	store := memory.NewStore()
	return &Stores{
		Folders:     memory.NewFolderRepository(store),
		Hierarchies: memory.NewHierarchyRepository(store),
		Categories:  memory.NewCategoryRepository(store),
		Charts:      memory.NewChartRepository(store),
		Tasks:       memory.NewTaskRepository(store),
		TimeEntries: memory.NewTimeEntryRepository(store),
		TxManager:   memory.NewTransactionManager(store),
		Close:       func() {},
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the postgres store")
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	logger.Info("database connected",
		"table_prefix", cfg.TablePrefix,
		"max_conns", pool.Config().MaxConns,
	)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}

	return &Stores{
		Folders:     postgres.NewFolderRepository(repoConfig),
		Hierarchies: postgres.NewHierarchyRepository(repoConfig),
		Categories:  postgres.NewCategoryRepository(repoConfig),
		Charts:      postgres.NewChartRepository(repoConfig),
		Tasks:       postgres.NewTaskRepository(repoConfig),
		TimeEntries: postgres.NewTimeEntryRepository(repoConfig),
		TxManager:   postgres.NewTransactionManager(repoConfig),
		Ping:        pool.Ping,
		Close:       pool.Close,
	}, nil
}

// Services groups the application services
type Services struct {
	Folders   services.FolderService
	Tree      services.TreeService
	Charts    services.ChartService
	Datasets  services.ChartDatasetService
	TimeEntry services.TimeEntryService
}

// NewServices builds every service on top of stores
func NewServices(stores *Stores, logger *slog.Logger) *Services {
	validator := service.NewResourceValidator(stores.Folders, stores.Categories)

	return &Services{
		Folders:   service.NewFolderService(stores.Folders, stores.Hierarchies, stores.TxManager, validator, logger),
		Tree:      service.NewTreeService(stores.Folders, stores.Hierarchies, logger),
		Charts:    service.NewChartService(stores.Charts, stores.Categories, stores.TxManager, validator, logger),
		Datasets:  service.NewChartDatasetService(stores.Charts, stores.Categories, stores.Hierarchies, stores.TimeEntries, logger),
		TimeEntry: service.NewTimeEntryService(stores.Tasks, stores.TimeEntries, validator, logger),
	}
}
