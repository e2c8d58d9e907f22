package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mosaicviz/mosaic/internal/server"
	"github.com/mosaicviz/mosaic/pkg/cache"
	"github.com/mosaicviz/mosaic/pkg/config"
	"github.com/mosaicviz/mosaic/pkg/pipeline"
	"github.com/mosaicviz/mosaic/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the mosaic HTTP API server",
		Long: `Run the mosaic HTTP API server.

The server exposes the layout pipeline, payload normalizers, and the chart
store over HTTP. Configuration is resolved from built-in defaults, an
optional TOML file (--config), and MOSAIC_* environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	cacheBackend, err := serverCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	chartStore, err := serverStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer func() {
		if err := chartStore.Close(context.Background()); err != nil {
			c.Logger.Warn("store close failed", "err", err)
		}
	}()

	runner := pipeline.NewRunner(cacheBackend, nil, c.Logger)
	defer runner.Close()

	c.Logger.Info("starting server",
		"addr", cfg.Server.Addr,
		"cache", cfg.Cache.Backend,
		"store", cfg.Store.Backend)

	srv := server.New(cfg.Server.Addr, runner, chartStore, c.Logger)
	return srv.Serve(ctx)
}

// serverCache builds the cache backend named by the config.
func serverCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	default:
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// serverStore builds the chart store backend named by the config.
func serverStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	if cfg.Backend == "mongo" {
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
	}
	return store.NewMemoryStore(), nil
}
