// Package text renders a day layout as a character grid for terminals.
//
// Each timed event gets a letter, painted over the cells its geometry
// covers, and a legend line below the grid. Events are painted in zIndex
// order so the picture matches what a graphical renderer would show.
package text

import (
	"cmp"
	"fmt"
	"hash/fnv"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dayview/pkg/view"
)

var palette = []lipgloss.Color{"75", "208", "35", "170", "167", "37", "137"}

// Options configures Render.
type Options struct {
	// Width is the day column width in characters (default 40).
	Width int
	// RowMinutes is the time covered by one text row (default: grid step).
	RowMinutes int
	// Color paints letters by calendar.
	Color bool
}

// Render draws d.
func Render(d *view.Day, opts Options) string {
	if opts.Width <= 0 {
		opts.Width = 40
	}
	if opts.RowMinutes <= 0 {
		opts.RowMinutes = max(1, d.Grid.Step)
	}

	rows := int(math.Ceil(d.Grid.Minutes() / float64(opts.RowMinutes)))
	cells := make([][]int, rows)
	for r := range cells {
		cells[r] = slices.Repeat([]int{-1}, opts.Width)
	}

	order := make([]int, len(d.Items))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(d.Items[a].Style.ZIndex, d.Items[b].Style.ZIndex)
	})
	for _, i := range order {
		paint(cells, d.Items[i], i, opts.Width)
	}

	var sb strings.Builder
	sb.WriteString(title(d, opts.Color))
	sb.WriteByte('\n')
	if len(d.AllDay) > 0 {
		names := make([]string, len(d.AllDay))
		for i, e := range d.AllDay {
			names[i] = e.Title
		}
		fmt.Fprintf(&sb, "all day: %s\n", strings.Join(names, ", "))
	}

	labels := gutter(d, rows, opts.RowMinutes)
	for r, row := range cells {
		fmt.Fprintf(&sb, "%5s │", labels[r])
		for _, c := range row {
			sb.WriteString(cell(d, c, opts.Color))
		}
		sb.WriteString("│\n")
	}

	for i, it := range d.Items {
		fmt.Fprintf(&sb, "%s %s-%s %s\n", cell(d, i, opts.Color),
			it.Event.Start.Format("15:04"), it.Event.End.Format("15:04"), it.Event.Title)
	}
	return sb.String()
}

func paint(cells [][]int, it view.Item, idx, width int) {
	rows := len(cells)
	if rows == 0 {
		return
	}
	s := it.Style
	c0 := int(math.Round(s.XOffset / 100 * float64(width)))
	c1 := int(math.Round((s.XOffset + s.Width) / 100 * float64(width)))
	c0 = min(max(c0, 0), width-1)
	c1 = min(max(c1, c0+1), width)

	r0 := int(math.Floor(s.Top / 100 * float64(rows)))
	r1 := int(math.Ceil((s.Top + s.Height) / 100 * float64(rows)))
	r0 = min(max(r0, 0), rows-1)
	r1 = min(max(r1, r0+1), rows)

	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			cells[r][c] = idx
		}
	}
}

func gutter(d *view.Day, rows, rowMinutes int) []string {
	groups := make(map[int64]bool, len(d.Grid.Groups))
	for _, g := range d.Grid.Groups {
		groups[g.Unix()] = true
	}
	out := make([]string, rows)
	for r := range out {
		t := d.Grid.Start.Add(time.Duration(r*rowMinutes) * time.Minute)
		if r == 0 || groups[t.Unix()] {
			out[r] = t.Format("15:04")
		}
	}
	return out
}

// Letter names the item at index i of a day.
func Letter(i int) string {
	switch {
	case i < 26:
		return string(rune('A' + i))
	case i < 52:
		return string(rune('a' + i - 26))
	default:
		return "#"
	}
}

func cell(d *view.Day, i int, color bool) string {
	if i < 0 {
		return " "
	}
	l := Letter(i)
	if !color {
		return l
	}
	return lipgloss.NewStyle().Foreground(colorFor(d.Items[i].Event.Calendar)).Render(l)
}

func title(d *view.Day, color bool) string {
	s := d.Date
	if t, err := time.Parse(time.DateOnly, d.Date); err == nil {
		s = t.Format("Monday, 2 January 2006")
	}
	s += " (" + d.Policy + ")"
	if color {
		return lipgloss.NewStyle().Bold(true).Render(s)
	}
	return s
}

func colorFor(calendar string) lipgloss.Color {
	h := fnv.New32a()
	h.Write([]byte(calendar))
	return palette[h.Sum32()%uint32(len(palette))]
}
