package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	identityapp "github.com/stockroom/backend/internal/application/identity"
	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// adminPasswordEnv is read when --admin-password is not given
const adminPasswordEnv = "STOCKROOM_SEED_ADMIN_PASSWORD"

func main() {
	var (
		dryRun        bool
		envFile       string
		adminPassword string
		timeout       = 2 * time.Minute
	)

	root := &cobra.Command{
		Use:   "seed",
		Short: "Create the baseline roles and administrator account",
		Long: "Creates the admin role and admin@example.com. Records that already exist are left alone, " +
			"so the command can run on every deploy.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var envFiles []string
			if envFile != "" {
				envFiles = append(envFiles, envFile)
			}
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if adminPassword == "" {
				adminPassword = os.Getenv(adminPasswordEnv)
			}
			if adminPassword == "" {
				return fmt.Errorf("admin password required (flag --admin-password or env %s)", adminPasswordEnv)
			}

			log, err := logger.New(&logger.Config{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Output: cfg.Log.Output,
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() {
				_ = log.Sync()
			}()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return run(ctx, cfg, log, identityapp.DefaultSeed(adminPassword), dryRun)
		},
	}

	root.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be created and roll back")
	root.Flags().StringVar(&envFile, "env-file", "", "Load environment variables from this file")
	root.Flags().StringVar(&adminPassword, "admin-password", "", "Password for admin@example.com (env "+adminPasswordEnv+")")
	root.Flags().DurationVar(&timeout, "timeout", timeout, "Abort seeding after this long")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, seed identityapp.Seed, dryRun bool) error {
	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(log, logger.MapGormLogLevel(cfg.Log.SQLLevel)))
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(ctx); err != nil {
			return err
		}
	}

	openUoW := func(ctx context.Context) (identityapp.UnitOfWork, error) {
		uow, err := db.UnitOfWork(ctx)
		if err != nil {
			return nil, err
		}
		return uow, nil
	}

	seeder := identityapp.NewSeeder(openUoW, seed, log)
	if dryRun {
		report, err := seeder.DryRun(ctx)
		if err != nil {
			return err
		}
		log.Info("Dry run, nothing committed",
			zap.Int("roles", report.RolesCreated),
			zap.Int("users", report.UsersCreated),
			zap.Int("links", report.LinksCreated))
		return nil
	}

	_, err = seeder.Run(ctx)
	return err
}
