package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mosaicviz/mosaic/pkg/config"
	"github.com/mosaicviz/mosaic/pkg/portfolio"
	"github.com/mosaicviz/mosaic/pkg/store"
)

// chartsCommand creates the saved-chart management command.
func (c *CLI) chartsCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Manage saved charts in the configured store",
		Long: `Manage saved charts in the configured store.

Charts are portfolio snapshots saved through the HTTP API. This command
talks to the same store backend the server uses, resolved from the config
file and MOSAIC_* environment variables. With the default in-memory
backend there is nothing to manage; point the store at MongoDB to share
charts between the server and the CLI.`,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")

	cmd.AddCommand(c.chartsListCommand(&configPath))
	cmd.AddCommand(c.chartsSaveCommand(&configPath))
	cmd.AddCommand(c.chartsDeleteCommand(&configPath))

	return cmd
}

// chartsListCommand creates the "charts list" subcommand.
func (c *CLI) chartsListCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openChartStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			charts, err := st.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list charts: %w", err)
			}
			if len(charts) == 0 {
				printInfo("No saved charts")
				return nil
			}

			for _, chart := range charts {
				printInfo("%s  %s", chart.ID, StyleHighlight.Render(chart.Name))
				printDetail("%d positions, updated %s", len(chart.Portfolio.Positions),
					chart.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

// chartsSaveCommand creates the "charts save" subcommand.
func (c *CLI) chartsSaveCommand(configPath *string) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save <portfolio-file>",
		Short: "Save a portfolio file as a chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := portfolio.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load portfolio %s: %w", args[0], err)
			}

			st, err := openChartStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			chart := store.NewChart(name, *p)
			if chart.Name == "" {
				chart.Name = p.Name
			}
			if err := chart.Validate(); err != nil {
				return err
			}
			if err := st.Put(cmd.Context(), chart); err != nil {
				return fmt.Errorf("save chart: %w", err)
			}

			printSuccess("Saved chart %q", chart.Name)
			printDetail("ID: %s", chart.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "chart name (defaults to the portfolio name)")

	return cmd
}

// chartsDeleteCommand creates the "charts delete" subcommand.
func (c *CLI) chartsDeleteCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved chart by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openChartStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete chart %s: %w", args[0], err)
			}

			printSuccess("Deleted chart %s", args[0])
			return nil
		},
	}
}

// openChartStore resolves the store backend from config the same way the
// server does.
func openChartStore(cmd *cobra.Command, configPath string) (store.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	st, err := serverStore(cmd.Context(), cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	return st, nil
}
