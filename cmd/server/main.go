package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/ktmouk/minute-sub000/internal/app"
	"github.com/ktmouk/minute-sub000/internal/auth"
	"github.com/ktmouk/minute-sub000/internal/config"
	"github.com/ktmouk/minute-sub000/internal/handler"
	"github.com/ktmouk/minute-sub000/internal/middleware"
	"github.com/ktmouk/minute-sub000/internal/repository/postgres"
)

var rootCmd = &cobra.Command{
	Use:   "minute",
	Short: "Time tracking API: folder hierarchy and chart datasets",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the Postgres schema",
	RunE:  runMigrate,
}

var dropTables bool

func init() {
	migrateCmd.Flags().BoolVar(&dropTables, "drop-tables", false, "Drop all tables before migrating (fresh start)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store", cfg.Store,
	)

	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer stores.Close()

	svcs := app.NewServices(stores, logger)

	mux := handler.NewRouter(&handler.Handlers{
		Folder: handler.NewFolderHandler(svcs.Folders, logger),
		Tree:   handler.NewTreeHandler(svcs.Tree, logger),
		Chart:  handler.NewChartHandler(svcs.Charts, svcs.Datasets, logger),
		Health: handler.NewHealthHandler(stores.Ping),
	})

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestLogger → Recovery → Auth → Routes
	var h http.Handler = mux
	if cfg.JWKSURL != "" {
		verifier, err := auth.NewJWTVerifier(ctx, cfg.JWKSURL, logger)
		if err != nil {
			return fmt.Errorf("create JWT verifier: %w", err)
		}
		defer verifier.Close()
		h = middleware.AuthMiddleware(verifier, logger)(h)
	} else {
		if cfg.DevUserID == "" || cfg.Environment == "prod" {
			return errors.New("JWKS_URL is required unless DEV_USER_ID is set outside prod")
		}
		logger.Warn("authentication disabled, every request runs as the dev user", "user_id", cfg.DevUserID)
		h = middleware.StaticUserMiddleware(cfg.DevUserID)(h)
	}
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	h = cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}).Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer closeLog()

	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	// SAFETY: Prevent destructive operations in production
	if dropTables && cfg.Environment == "prod" {
		return errors.New("--drop-tables is blocked in the prod environment")
	}

	ctx := cmd.Context()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if dropTables {
		if err := postgres.DropSchema(ctx, pool, tables); err != nil {
			return err
		}
		logger.Warn("tables dropped", "table_prefix", cfg.TablePrefix)
	}
	if err := postgres.Migrate(ctx, pool, tables); err != nil {
		return err
	}

	logger.Info("schema ready", "table_prefix", cfg.TablePrefix)
	return nil
}
