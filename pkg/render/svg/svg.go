// Package svg renders a day layout as a standalone SVG document.
//
// The document has a header with the date, an optional all-day band, an
// hour gutter on the left and the day column on the right. Events are
// drawn in zIndex order so that events the layout stacks on top are
// painted last.
package svg

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"hash/fnv"
	"slices"
	"time"

	"github.com/matzehuels/dayview/pkg/view"
)

const (
	headerHeight = 40.0
	allDayHeight = 22.0
	gutterWidth  = 56.0
	rightMargin  = 8.0
	minBoxHeight = 3.0
	fontSize     = 11.0
	charWidth    = fontSize * 0.55
)

// palette cycles by calendar name.
var palette = []string{"#4f86c6", "#e07b39", "#5aa469", "#b660cd", "#d1495b", "#2a9d8f", "#8d6e63"}

// Option configures Render.
type Option func(*renderer)

type renderer struct {
	width, height float64
	showAllDay    bool
	clock         string
}

// WithSize sets the document width and the height of the time grid in px.
func WithSize(width, height float64) Option {
	return func(r *renderer) { r.width, r.height = width, height }
}

// WithoutAllDay hides the all-day band.
func WithoutAllDay() Option { return func(r *renderer) { r.showAllDay = false } }

// WithClock sets the time format of gutter labels, e.g. "3pm" or "15:04".
func WithClock(layout string) Option { return func(r *renderer) { r.clock = layout } }

// Render draws d.
func Render(d *view.Day, opts ...Option) []byte {
	r := renderer{width: 480, height: 960, showAllDay: true, clock: "15:04"}
	for _, opt := range opts {
		opt(&r)
	}

	top := headerHeight
	if r.showAllDay && len(d.AllDay) > 0 {
		top += allDayHeight
	}
	total := top + r.height + rightMargin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="sans-serif">`+"\n",
		r.width, total, r.width, total)
	buf.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")

	r.renderHeader(&buf, d)
	if r.showAllDay && len(d.AllDay) > 0 {
		r.renderAllDay(&buf, d)
	}
	r.renderGrid(&buf, d, top)
	r.renderEvents(&buf, d, top)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) columnWidth() float64 { return r.width - gutterWidth - rightMargin }

func (r *renderer) renderHeader(buf *bytes.Buffer, d *view.Day) {
	title := d.Date
	if t, err := time.Parse(time.DateOnly, d.Date); err == nil {
		title = t.Format("Monday, 2 January 2006")
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="26" font-size="16" font-weight="bold">%s</text>`+"\n", gutterWidth, escape(title))
	fmt.Fprintf(buf, `  <text x="%.1f" y="26" font-size="10" fill="#888" text-anchor="end">%s</text>`+"\n",
		r.width-rightMargin, escape(d.Policy))
}

func (r *renderer) renderAllDay(buf *bytes.Buffer, d *view.Day) {
	w := r.columnWidth() / float64(len(d.AllDay))
	for i, e := range d.AllDay {
		x := gutterWidth + float64(i)*w
		fmt.Fprintf(buf, `  <g class="all-day"><rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill="%s" fill-opacity="0.25"/>`,
			x+1, headerHeight+2, w-2, allDayHeight-4, colorFor(e.Calendar))
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.0f">%s</text></g>`+"\n",
			x+5, headerHeight+allDayHeight/2+4, fontSize, escape(truncate(e.Title, w-8)))
	}
}

func (r *renderer) renderGrid(buf *bytes.Buffer, d *view.Day, top float64) {
	minutes := d.Grid.Minutes()
	buf.WriteString(`  <g class="grid" stroke="#e0e0e0">` + "\n")
	for _, g := range d.Grid.Groups {
		y := top
		if minutes > 0 {
			y += g.Sub(d.Grid.Start).Minutes() / minutes * r.height
		}
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", gutterWidth, y, r.width-rightMargin, y)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="10" fill="#666" stroke="none" text-anchor="end">%s</text>`+"\n",
			gutterWidth-6, y+4, g.Format(r.clock))
	}
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none"/>`+"\n",
		gutterWidth, top, r.columnWidth(), r.height)
	buf.WriteString("  </g>\n")
}

func (r *renderer) renderEvents(buf *bytes.Buffer, d *view.Day, top float64) {
	items := slices.Clone(d.Items)
	slices.SortStableFunc(items, func(a, b view.Item) int {
		return cmp.Compare(a.Style.ZIndex, b.Style.ZIndex)
	})

	colW := r.columnWidth()
	for _, it := range items {
		s := it.Style
		x := gutterWidth + s.XOffset/100*colW
		y := top + s.Top/100*r.height
		w := s.Width / 100 * colW
		h := max(minBoxHeight, s.Height/100*r.height)
		color := colorFor(it.Event.Calendar)

		fmt.Fprintf(buf, `  <g class="event" id="event-%s">`, escape(it.Event.ID))
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill="%s" fill-opacity="0.85" stroke="white"/>`,
			x, y, w, h, color)
		if h >= fontSize+4 {
			label := it.Event.Title
			if h >= 2*fontSize+8 {
				fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.0f" fill="white" font-weight="bold">%s</text>`,
					x+4, y+fontSize+2, fontSize, escape(truncate(label, w-8)))
				fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.0f" fill="white">%s</text>`,
					x+4, y+2*fontSize+5, fontSize-1, escape(truncate(timeRange(it, r.clock), w-8)))
			} else {
				fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.0f" fill="white">%s</text>`,
					x+4, y+fontSize+1, fontSize, escape(truncate(label, w-8)))
			}
		}
		fmt.Fprintf(buf, "<title>%s</title></g>\n", escape(it.Event.Title+" "+timeRange(it, "15:04")))
	}
}

func timeRange(it view.Item, clock string) string {
	return it.Event.Start.Format(clock) + "–" + it.Event.End.Format(clock)
}

func colorFor(calendar string) string {
	if calendar == "" {
		return palette[0]
	}
	h := fnv.New32a()
	h.Write([]byte(calendar))
	return palette[h.Sum32()%uint32(len(palette))]
}

func truncate(s string, width float64) string {
	maxChars := int(width / charWidth)
	r := []rune(s)
	if maxChars < 3 {
		maxChars = 3
	}
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars-2]) + ".."
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
