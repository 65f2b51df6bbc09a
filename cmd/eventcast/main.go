package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rewardsboard/eventcast/internal/interfaces/cli/migrate"
	"github.com/rewardsboard/eventcast/internal/interfaces/cli/server"
	"github.com/rewardsboard/eventcast/internal/interfaces/cli/templates"
	"github.com/rewardsboard/eventcast/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "eventcast",
		Short:   "eventcast - announcement content and distribution engine",
		Long:    `eventcast renders announcements from templates, publishes them on schedule and fans them out to subscribers.`,
		Version: version.Get().Version,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		templates.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
