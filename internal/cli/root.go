package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dayview/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "dayview",
		Short: "dayview lays out a day of calendar events",
		Long: `dayview computes the side-by-side geometry of overlapping calendar events
on a day grid and renders it as JSON, text, SVG, PNG or PDF.

Events come from JSON, YAML or TOML files, iCalendar files and feeds, or a
MongoDB collection.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/dayview/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.explainCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
