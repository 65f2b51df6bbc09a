package migrate

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rewardsboard/eventcast/internal/infrastructure/config"
	"github.com/rewardsboard/eventcast/internal/infrastructure/database"
	"github.com/rewardsboard/eventcast/internal/infrastructure/migration"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

var (
	env      string
	strategy string
	steps    int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, roll back and inspect database migrations.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&strategy, "strategy", "s", "", "Migration strategy override (auto, goose, golang-migrate)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newVersionCommand(),
		newForceCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status (goose only)",
		RunE:  runStatus,
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE:  runVersion,
	}
}

func newForceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "force VERSION",
		Short: "Mark a version as applied after a failed migration (golang-migrate only)",
		Args:  cobra.ExactArgs(1),
		RunE:  runForce,
	}
}

func initEnv() (*migration.Manager, logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	name := cfg.Database.MigrationStrategy
	if strategy != "" {
		name = strategy
	}
	manager, err := migration.NewManager(name, cfg.Database.Driver, log)
	if err != nil {
		_ = database.Close()
		return nil, nil, err
	}

	return manager, log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	manager, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running up migrations", "environment", env)
	return manager.Migrate(database.Get())
}

func runDown(cmd *cobra.Command, args []string) error {
	manager, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	reversible, err := manager.Reversible()
	if err != nil {
		return err
	}

	log.Infow("running down migrations", "environment", env, "steps", steps)
	if err := reversible.MigrateDown(database.Get(), steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, _, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	gooseStrategy, ok := manager.Strategy().(*migration.GooseStrategy)
	if !ok {
		return fmt.Errorf("status is only supported with goose strategy, current: %s", manager.Strategy().Name())
	}
	return gooseStrategy.Status(database.Get())
}

func runVersion(cmd *cobra.Command, args []string) error {
	manager, _, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	reversible, err := manager.Reversible()
	if err != nil {
		return err
	}

	version, err := reversible.Version(database.Get())
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migration Status:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  Environment:     %s\n", env)
	fmt.Fprintf(cmd.OutOrStdout(), "  Strategy:        %s\n", reversible.Name())
	fmt.Fprintf(cmd.OutOrStdout(), "  Current Version: %d\n", version)
	return nil
}

func runForce(cmd *cobra.Command, args []string) error {
	version, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", args[0], err)
	}

	manager, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	golangMigrate, ok := manager.Strategy().(*migration.GolangMigrateStrategy)
	if !ok {
		return fmt.Errorf("force is only supported with golang-migrate strategy, current: %s", manager.Strategy().Name())
	}

	if err := golangMigrate.Force(database.Get(), version); err != nil {
		return fmt.Errorf("force failed: %w", err)
	}
	log.Infow("migration version forced", "version", version)
	return nil
}
