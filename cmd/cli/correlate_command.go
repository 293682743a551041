package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gridweather/internal/model"
	"gridweather/internal/pipeline"
	"gridweather/internal/report"
)

func newCorrelateCommand(ctx *commandContext) *cobra.Command {
	var energy energyFlags
	var variable string
	var params model.CorrelationParams

	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Sliding-window correlation between an energy series and a weather variable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd.Context(), cmd.ErrOrStderr(), func(p *pipeline.Pipeline) error {
				rep, err := p.Correlation(cmd.Context(), pipeline.CorrelationRequest{
					Energy:   energy.filter(),
					Variable: variable,
					Params:   params,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Window r=%.3f, overall r=%.3f\n", rep.Result.WindowCorrelation, rep.Result.OverallCorrelation)
				return ctx.emit(cmd.OutOrStdout(), report.Correlation(rep), rep.Provenance)
			})
		},
	}
	energy.register(cmd)
	cmd.Flags().StringVar(&variable, "variable", model.VarTemperature, "ERA5 hourly variable")
	cmd.Flags().IntVar(&params.Lag, "lag", 0, "Lag in hours applied to the weather series")
	cmd.Flags().IntVar(&params.WindowSize, "window", 168, "Window length in hours")
	cmd.Flags().IntVar(&params.Center, "center", model.DefaultCenter, "Row index the window is centred on (past the end means the middle row)")
	return cmd
}

func newLagsCommand(ctx *commandContext) *cobra.Command {
	var energy energyFlags
	req := pipeline.LagScanRequest{}

	cmd := &cobra.Command{
		Use:   "lags",
		Short: "Rank lags by window correlation strength",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Energy = energy.filter()
			return ctx.withPipeline(cmd.Context(), cmd.ErrOrStderr(), func(p *pipeline.Pipeline) error {
				rep, err := p.LagScan(cmd.Context(), req)
				if err != nil {
					return err
				}
				if best, ok := rep.Best(); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "Best lag: %dh (r=%.3f, %d pairs)\n", best.Lag, best.Correlation, best.Pairs)
				}
				return ctx.emit(cmd.OutOrStdout(), report.LagScan(rep), rep.Provenance)
			})
		},
	}
	energy.register(cmd)
	cmd.Flags().StringVar(&req.Variable, "variable", model.VarTemperature, "ERA5 hourly variable")
	cmd.Flags().IntVar(&req.WindowSize, "window", 168, "Window length in hours")
	cmd.Flags().IntVar(&req.Center, "center", model.DefaultCenter, "Row index the window is centred on (past the end means the middle row)")
	cmd.Flags().IntVar(&req.MinLag, "min-lag", model.MinLag, "Smallest lag in hours")
	cmd.Flags().IntVar(&req.MaxLag, "max-lag", model.MaxLag, "Largest lag in hours")
	cmd.Flags().IntVar(&req.Step, "step", 1, "Lag step in hours")
	return cmd
}
