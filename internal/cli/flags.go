package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dayview/pkg/config"
	"github.com/matzehuels/dayview/pkg/pipeline"
)

// layoutFlags are the options shared by every command that lays out a day.
// Values left unset on the command line come from the config file.
type layoutFlags struct {
	date      string
	timezone  string
	policy    string
	minDiff   float64
	gridStart string
	gridEnd   string
	step      int
	timeslots int
	refresh   bool
	noCache   bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.date, "date", "d", "", "day to show as YYYY-MM-DD (default: today)")
	fl.StringVar(&f.timezone, "tz", "", "IANA time zone (default from config, else Local)")
	fl.StringVarP(&f.policy, "policy", "p", "", "layout policy: overlap, nested, columns, redistribute")
	fl.Float64Var(&f.minDiff, "min-start-diff", 0, "minutes within which events count as starting together")
	fl.StringVar(&f.gridStart, "start", "", "first clock time on the grid (HH:MM)")
	fl.StringVar(&f.gridEnd, "end", "", "last clock time on the grid (HH:MM, 24:00 allowed)")
	fl.IntVar(&f.step, "step", 0, "grid step in minutes")
	fl.IntVar(&f.timeslots, "timeslots", 0, "steps per labelled group")
	fl.BoolVar(&f.refresh, "refresh", false, "recompute the layout even when cached")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// options merges the config file with the flags that were set. Positional
// sources replace the configured ones.
func (f *layoutFlags) options(cmd *cobra.Command, cfg *config.Config, sources []string) pipeline.Options {
	opts := pipeline.Options{
		Sources:                cfg.Sources,
		Timezone:               cfg.Timezone,
		Policy:                 cfg.Policy,
		MinimumStartDifference: cfg.MinimumStartDifference,
		GridStart:              cfg.Grid.Start,
		GridEnd:                cfg.Grid.End,
		Step:                   cfg.Grid.Step,
		Timeslots:              cfg.Grid.Timeslots,
		Date:                   f.date,
		Refresh:                f.refresh,
	}
	if len(sources) > 0 {
		opts.Sources = sources
	}

	changed := cmd.Flags().Changed
	if changed("tz") {
		opts.Timezone = f.timezone
	}
	if changed("policy") {
		opts.Policy = f.policy
	}
	if changed("min-start-diff") {
		d := f.minDiff
		opts.MinimumStartDifference = &d
	}
	if changed("start") {
		opts.GridStart = f.gridStart
	}
	if changed("end") {
		opts.GridEnd = f.gridEnd
	}
	if changed("step") {
		opts.Step = f.step
	}
	if changed("timeslots") {
		opts.Timeslots = f.timeslots
	}
	return opts
}
