package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dayview/pkg/render/text"
)

// previewCommand prints a day as a text grid.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags   layoutFlags
		width   int
		rowMins int
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "preview [source...]",
		Short: "Print a day as a text grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg, args)
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			events, err := runner.Load(ctx, opts)
			if err != nil {
				return err
			}
			day, err := runner.Layout(ctx, events, opts)
			if err != nil {
				return err
			}

			// lipgloss drops the colors itself when stdout is not a terminal.
			fmt.Print(text.Render(day, text.Options{Width: width, RowMinutes: rowMins, Color: !noColor}))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&width, "width", "w", 60, "day column width in characters")
	cmd.Flags().IntVar(&rowMins, "row", 0, "minutes per text row (default: grid step)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colors")

	return cmd
}
