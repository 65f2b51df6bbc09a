package templates

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	apptemplate "github.com/rewardsboard/eventcast/internal/application/template"
	"github.com/rewardsboard/eventcast/internal/infrastructure/config"
	"github.com/rewardsboard/eventcast/internal/infrastructure/database"
	"github.com/rewardsboard/eventcast/internal/infrastructure/migration"
	"github.com/rewardsboard/eventcast/internal/infrastructure/repository"
	templateinfra "github.com/rewardsboard/eventcast/internal/infrastructure/template"
	shareddb "github.com/rewardsboard/eventcast/internal/shared/db"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
	"github.com/rewardsboard/eventcast/internal/shared/services/markdown"
)

var (
	env  string
	path string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "System template catalogue tools",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&path, "path", "p", "", "Directory holding a system template override (defaults to templates.system_path)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "seed",
			Short: "Create missing system templates",
			RunE:  runSeed,
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Parse the system template catalogue without touching the database",
			RunE:  runValidate,
		},
	)

	return cmd
}

func loadConfig() (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if path == "" {
		path = cfg.Templates.SystemPath
	}
	return cfg, logger.NewLogger(), nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	manager, err := migration.NewManager(cfg.Database.MigrationStrategy, cfg.Database.Driver, log)
	if err != nil {
		return err
	}
	if err := manager.Migrate(database.Get()); err != nil {
		return err
	}

	db := database.Get()
	service := apptemplate.NewServiceDDD(
		repository.NewTemplateRepository(db, log),
		templateinfra.NewSystemTemplateLoader(path, log),
		shareddb.NewTransactionManager(db),
		markdown.NewMarkdownService(),
		log,
	)

	result, err := service.InitializeSystemTemplates(context.Background())
	if err != nil {
		return fmt.Errorf("failed to seed system templates: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created: %d\n", len(result.Created))
	for _, name := range result.Created {
		fmt.Fprintf(out, "  + %s\n", name)
	}
	fmt.Fprintf(out, "Skipped: %d\n", len(result.Skipped))
	for _, name := range result.Skipped {
		fmt.Fprintf(out, "  = %s\n", name)
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	_, log, err := loadConfig()
	if err != nil {
		return err
	}

	defs, err := templateinfra.NewSystemTemplateLoader(path, log).Load()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tTYPE\tVARIABLES")
	for _, def := range defs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", def.Name, def.Category, def.AnnouncementType, len(def.Variables))
	}
	return w.Flush()
}
