package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dayview/pkg/render/hierarchy"
)

// explainCommand shows how events were grouped.
func (c *CLI) explainCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
		svg    bool
	)

	cmd := &cobra.Command{
		Use:   "explain [source...]",
		Short: "Show the grouping structure of a day layout",
		Long: `Show the grouping structure of a day layout.

Prints the containers, rows and columns the layout policy built, as a
Graphviz DOT graph. With --svg the graph is laid out and written as SVG.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg, args)
			opts.Explain = true
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

			dot := hierarchy.ToDOT(day)
			data := []byte(dot)
			if svg {
				p := newProgress(loggerFromContext(ctx))
				if data, err = hierarchy.RenderSVG(ctx, dot); err != nil {
					return fmt.Errorf("render hierarchy: %w", err)
				}
				p.done(fmt.Sprintf("Laid out %d nodes", len(day.Nodes)))
			}
			if output == "" || output == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&svg, "svg", false, "write SVG instead of DOT")

	return cmd
}
