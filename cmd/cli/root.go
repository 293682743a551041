package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var flags globalFlags
	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "gridweather",
		Short:         "Explore Norwegian energy data against ERA5 weather",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	pf.StringVar(&flags.weather, "weather", "", "Read weather from an Open-Meteo JSON file instead of the archive API")
	pf.StringVar(&flags.dataDir, "data-dir", "", "Read energy collections from <dir>/<collection>.json instead of MongoDB")
	pf.StringVarP(&flags.out, "out", "o", "", "Write the full per-timestamp table as CSV")
	pf.IntVarP(&flags.limit, "limit", "n", 20, "Rows shown in the terminal table (0=all)")

	rootCmd.AddCommand(newCorrelateCommand(ctx))
	rootCmd.AddCommand(newLagsCommand(ctx))
	rootCmd.AddCommand(newOutliersCommand(ctx))
	rootCmd.AddCommand(newAnomaliesCommand(ctx))
	rootCmd.AddCommand(newSTLCommand(ctx))
	rootCmd.AddCommand(newSpectrogramCommand(ctx))
	rootCmd.AddCommand(newSnowDriftCommand(ctx))
	rootCmd.AddCommand(newForecastCommand(ctx))
	rootCmd.AddCommand(newSharesCommand(ctx))
	rootCmd.AddCommand(newMonthlyCommand(ctx))
	rootCmd.AddCommand(newMeansCommand(ctx))
	rootCmd.AddCommand(newAreasCommand(ctx))

	return rootCmd
}
