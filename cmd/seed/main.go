package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ktmouk/minute-sub000/internal/app"
	"github.com/ktmouk/minute-sub000/internal/config"
	"github.com/ktmouk/minute-sub000/internal/seed"
)

var (
	fixturePath string
	userID      string
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a YAML fixture of folders, categories, charts and time entries for one user",
	RunE:  runSeed,
}

func init() {
	rootCmd.Flags().StringVar(&fixturePath, "file", "", "Fixture file (defaults to the embedded demo fixture)")
	rootCmd.Flags().StringVar(&userID, "user", "", "User ID to seed (defaults to DEV_USER_ID)")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	// SAFETY: never seed demo data into production
	if cfg.Environment == "prod" {
		return errors.New("seeding is blocked in the prod environment")
	}

	if userID == "" {
		userID = cfg.DevUserID
	}
	if userID == "" {
		return errors.New("--user or DEV_USER_ID is required")
	}

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer closeLog()

	fixture, err := seed.LoadFixture(fixturePath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer stores.Close()

	svcs := app.NewServices(stores, logger)
	seeder := seed.NewSeeder(svcs.Folders, svcs.Charts, svcs.TimeEntry, logger)

	result, err := seeder.Seed(ctx, userID, fixture)
	if err != nil {
		return err
	}

	fmt.Printf("seeded %d folders, %d categories, %d charts, %d entries for %s\n",
		len(result.Folders), len(result.Categories), len(result.Charts), result.Entries, userID)
	return nil
}
