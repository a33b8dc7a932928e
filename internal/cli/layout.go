package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dayview/pkg/pipeline"
)

var formatExt = map[string]string{
	pipeline.FormatJSON: ".json",
	pipeline.FormatText: ".txt",
	pipeline.FormatSVG:  ".svg",
	pipeline.FormatPNG:  ".png",
	pipeline.FormatPDF:  ".pdf",
	pipeline.FormatDOT:  ".dot",
}

// layoutCommand creates the layout command, which runs the whole pipeline.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags      layoutFlags
		formatsStr string
		output     string
		explain    bool
		width      int
	)

	cmd := &cobra.Command{
		Use:   "layout [source...]",
		Short: "Lay out one day of events and write the result",
		Long: `Lay out one day of events and write the result.

Sources are event files (.json, .yaml, .toml, .ics), iCalendar URLs or
mongodb:// URIs. Without arguments the sources from the config file are used.

The json output (the default) is a day layout that 'render' turns into
other formats later. Layouts are cached by the events and every option that
changes them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg, args)
			opts.Formats = parseFormats(formatsStr, pipeline.FormatJSON)
			opts.Explain = explain
			opts.TextWidth = width
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), opts, output, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), text, svg, png, pdf, dot (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().BoolVar(&explain, "explain", false, "keep the grouping structure (needed for dot)")
	cmd.Flags().IntVar(&width, "width", 0, "text output width in characters")

	return cmd
}

// runLayout executes the pipeline and writes every artifact.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if output == "-" {
		if len(opts.Formats) != 1 {
			return fmt.Errorf("stdout output needs exactly one format")
		}
		res, err := runner.Execute(ctx, opts)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(res.Artifacts[opts.Formats[0]])
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := output
	if base == "" {
		base = "dayview-" + res.Day.Date
	}
	if res.Stats.EventCount == 0 {
		printWarning("No events on %s", res.Day.Date)
	} else {
		printSuccess("Layout complete")
	}
	for _, f := range opts.Formats {
		path := outputPath(base, f, len(opts.Formats))
		if err := os.WriteFile(path, res.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(res.Stats.EventCount, len(res.Day.Items), res.CacheInfo.LayoutHit)
	if opts.Formats[0] == pipeline.FormatJSON {
		printNewline()
		printNextStep("Render", "dayview render "+outputPath(base, pipeline.FormatJSON, len(opts.Formats))+" -f svg")
	}
	return nil
}

// outputPath names the file for one format. A single-format output that
// already carries an extension is used as is.
func outputPath(base, format string, formats int) string {
	if formats == 1 && filepath.Ext(base) != "" {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + formatExt[format]
}
