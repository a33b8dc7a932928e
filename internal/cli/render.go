package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dayview/pkg/pipeline"
	"github.com/matzehuels/dayview/pkg/view"
)

// renderCommand creates the render command for a saved day layout.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		width      int
	)

	cmd := &cobra.Command{
		Use:   "render [day.json]",
		Short: "Render a saved day layout",
		Long: `Render a saved day layout.

The render command takes a day layout (produced by 'layout') and renders it to
text, SVG, PNG, PDF or DOT. The layout carries all geometry, so nothing is
recomputed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr, pipeline.FormatSVG)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], formats, output, width)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), text, png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().IntVar(&width, "width", 0, "text output width in characters")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, formats []string, output string, width int) error {
	day, err := view.ReadFile(input)
	if err != nil {
		return err
	}
	opts := pipeline.Options{Formats: formats, TextWidth: width}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, f := range formats {
		data, err := pipeline.RenderFormat(ctx, day, f, opts)
		if err != nil {
			return fmt.Errorf("render %s: %w", f, err)
		}
		path := outputPath(base, f, len(formats))
		if path == input {
			return fmt.Errorf("refusing to overwrite input %s", input)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
