package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dayview/internal/server"
)

// serveCommand runs the HTTP layout API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen    string
		maxEvents int
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Serve layouts over HTTP.

POST /v1/layout takes the layout options and the events as JSON and returns
the day layout, or a rendered artifact with ?format=svg|text|png|pdf|dot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("listen") {
				listen = cfg.Server.Listen
			}
			if !cmd.Flags().Changed("max-events") {
				maxEvents = cfg.Server.MaxEvents
			}
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, server.Config{
				Listen:    listen,
				MaxEvents: maxEvents,
				Logger:    c.Logger,
			})
			printKeyValue("Listening", StyleLink.Render("http://"+listen))
			printKeyValue("Max events", fmt.Sprint(maxEvents))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default from config)")
	cmd.Flags().IntVar(&maxEvents, "max-events", 0, "maximum events per request")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
