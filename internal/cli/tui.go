package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dayview/pkg/core/layout"
	"github.com/matzehuels/dayview/pkg/pipeline"
	"github.com/matzehuels/dayview/pkg/render/text"
	"github.com/matzehuels/dayview/pkg/view"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

var policies = []layout.Policy{layout.PolicyOverlap, layout.PolicyNested, layout.PolicyColumns, layout.PolicyRedistribute}

// viewCommand opens the interactive day view.
func (c *CLI) viewCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "view [source...]",
		Short: "Browse days interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg, args)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			date, err := opts.Day()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			defer quiet(c.Logger)()

			m := NewDayModel(date, opts, dayLoader(ctx, runner))
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// dayLoader loads and lays out one day with runner.
func dayLoader(ctx context.Context, runner *pipeline.Runner) func(pipeline.Options) (*view.Day, error) {
	return func(opts pipeline.Options) (*view.Day, error) {
		events, err := runner.Load(ctx, opts)
		if err != nil {
			return nil, err
		}
		return runner.Layout(ctx, events, opts)
	}
}

// =============================================================================
// DayModel - Interactive day browser
// =============================================================================

// dayLoadedMsg carries the result of a load.
type dayLoadedMsg struct {
	date string
	day  *view.Day
	err  error
}

// DayModel is the bubbletea model for browsing days.
type DayModel struct {
	Date   time.Time
	Opts   pipeline.Options
	Day    *view.Day
	Err    error
	Cursor int
	Width  int

	load    func(pipeline.Options) (*view.Day, error)
	loading bool
}

// NewDayModel creates a model showing date. load is called for every day
// shown.
func NewDayModel(date time.Time, opts pipeline.Options, load func(pipeline.Options) (*view.Day, error)) DayModel {
	return DayModel{Date: date, Opts: opts, Width: 80, load: load}
}

func (m DayModel) Init() tea.Cmd {
	return m.fetch()
}

func (m *DayModel) fetch() tea.Cmd {
	m.loading = true
	opts := m.Opts
	opts.Date = m.Date.Format(time.DateOnly)
	load := m.load
	return func() tea.Msg {
		day, err := load(opts)
		return dayLoadedMsg{date: opts.Date, day: day, err: err}
	}
}

func (m DayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dayLoadedMsg:
		if msg.date != m.Date.Format(time.DateOnly) {
			return m, nil // superseded
		}
		m.loading = false
		m.Day, m.Err = msg.day, msg.err
		m.Cursor = 0
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Day != nil && m.Cursor < len(m.Day.Items)-1 {
				m.Cursor++
			}
		case "left", "h":
			m.Date = m.Date.AddDate(0, 0, -1)
			cmd := m.fetch()
			return m, cmd
		case "right", "l":
			m.Date = m.Date.AddDate(0, 0, 1)
			cmd := m.fetch()
			return m, cmd
		case "p":
			m.Opts.Policy = string(nextPolicy(layout.Policy(m.Opts.Policy)))
			cmd := m.fetch()
			return m, cmd
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
	}
	return m, nil
}

func nextPolicy(p layout.Policy) layout.Policy {
	for i, q := range policies {
		if q == p {
			return policies[(i+1)%len(policies)]
		}
	}
	return policies[0]
}

func (m DayModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Date.Format("Monday, 2 January 2006")))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(m.Opts.Policy))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ day  ↑/↓ event  p policy  q quit"))
	b.WriteString("\n\n")

	switch {
	case m.Err != nil:
		b.WriteString(StyleWarning.Render(m.Err.Error()))
		b.WriteString("\n")
		return b.String()
	case m.Day == nil:
		b.WriteString(listDimStyle.Render("Loading..."))
		return b.String()
	}

	b.WriteString(text.Render(m.Day, text.Options{Width: max(20, m.Width-12), Color: true}))
	b.WriteString("\n")
	if len(m.Day.Items) == 0 {
		b.WriteString(listDimStyle.Render("No events"))
		return b.String()
	}
	for i, it := range m.Day.Items {
		line := fmt.Sprintf("%s %s-%s %s", text.Letter(i),
			it.Event.Start.Format("15:04"), it.Event.End.Format("15:04"), it.Event.Title)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
			b.WriteString(listDimStyle.Render(fmt.Sprintf("  width %.1f%%  offset %.1f%%", it.Style.Width, it.Style.XOffset)))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if m.loading {
		b.WriteString(listDimStyle.Render("Loading..."))
	}
	return b.String()
}
