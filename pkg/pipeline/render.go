package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/dayview/pkg/observability"
	"github.com/matzehuels/dayview/pkg/render"
	"github.com/matzehuels/dayview/pkg/render/hierarchy"
	"github.com/matzehuels/dayview/pkg/render/svg"
	"github.com/matzehuels/dayview/pkg/render/text"
	"github.com/matzehuels/dayview/pkg/view"
)

// Render generates output artifacts for every requested format.
func (r *Runner) Render(ctx context.Context, day *view.Day, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	hooks := observability.Pipeline()

	for _, format := range opts.Formats {
		hooks.OnRenderStart(ctx, format)
		start := time.Now()
		data, err := RenderFormat(ctx, day, format, opts)
		hooks.OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat renders day in a single format.
func RenderFormat(ctx context.Context, day *view.Day, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return view.Marshal(day)
	case FormatText:
		return []byte(text.Render(day, text.Options{Width: opts.TextWidth})), nil
	case FormatSVG:
		return svg.Render(day), nil
	case FormatPNG:
		return render.ToPNG(svg.Render(day), 2.0)
	case FormatPDF:
		return render.ToPDF(svg.Render(day))
	case FormatDOT:
		if len(day.Nodes) == 0 && len(day.Items) > 0 {
			return nil, fmt.Errorf("dot output needs the grouping structure (explain)")
		}
		return []byte(hierarchy.ToDOT(day)), nil
	default:
		return nil, ValidateFormat(format)
	}
}
