package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dayview/pkg/cache"
	"github.com/matzehuels/dayview/pkg/config"
	"github.com/matzehuels/dayview/pkg/httputil"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and feed caches",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear cached layouts and feed responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.CacheNone {
				printInfo("Caching is disabled")
				return nil
			}
			ctx := cmd.Context()

			lc, err := newCache(ctx, cfg.Cache, false)
			if err != nil {
				return err
			}
			defer lc.Close()

			clearer, ok := lc.(cache.Clearer)
			if !ok {
				return fmt.Errorf("cache backend %s cannot be cleared", cfg.Cache.Backend)
			}
			n, err := clearer.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear layouts: %w", err)
			}
			printSuccess("Cleared %d cached layouts", n)
			if fc, ok := lc.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}

			dir, err := cacheDir()
			if err != nil {
				return nil
			}
			hc, err := httputil.NewCache(filepath.Join(dir, "http"), 0)
			if err != nil {
				return nil
			}
			if n, err := hc.Clear(); err == nil && n > 0 {
				printSuccess("Cleared %d cached feed responses", n)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
