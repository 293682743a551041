package main

import (
	"github.com/spf13/cobra"

	"gridweather/internal/model"
	"gridweather/internal/pipeline"
	"gridweather/internal/report"
)

func newOutliersCommand(ctx *commandContext) *cobra.Command {
	var weather weatherFlags
	var params model.SPCParams

	cmd := &cobra.Command{
		Use:   "outliers",
		Short: "Flag weather outliers with a DCT high-pass filter and robust control limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd.Context(), cmd.ErrOrStderr(), func(p *pipeline.Pipeline) error {
				rep, err := p.Outliers(cmd.Context(), pipeline.OutlierRequest{Weather: weather.selector(), Params: params})
				if err != nil {
					return err
				}
				return ctx.emit(cmd.OutOrStdout(), report.Outliers(rep), rep.Provenance)
			})
		},
	}
	weather.register(cmd, model.VarTemperature)
	cmd.Flags().IntVar(&params.FreqCutoff, "cutoff", 100, "Number of low DCT coefficients removed")
	cmd.Flags().Float64Var(&params.NumStd, "num-std", 3, "Control limit width in robust standard deviations")
	return cmd
}

func newAnomaliesCommand(ctx *commandContext) *cobra.Command {
	var weather weatherFlags
	var params model.LOFParams

	cmd := &cobra.Command{
		Use:   "anomalies",
		Short: "Flag weather anomalies with the local outlier factor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd.Context(), cmd.ErrOrStderr(), func(p *pipeline.Pipeline) error {
				rep, err := p.Anomalies(cmd.Context(), pipeline.AnomalyRequest{Weather: weather.selector(), Params: params})
				if err != nil {
					return err
				}
				return ctx.emit(cmd.OutOrStdout(), report.Anomalies(rep), rep.Provenance)
			})
		},
	}
	weather.register(cmd, model.VarPrecipitation)
	cmd.Flags().IntVar(&params.Neighbors, "neighbors", 20, "Neighbourhood size k")
	cmd.Flags().Float64Var(&params.Contamination, "contamination", 0.01, "Expected fraction of anomalies")
	return cmd
}
