package main

import (
	"github.com/spf13/cobra"

	"gridweather/internal/model"
	"gridweather/internal/pipeline"
	"gridweather/internal/report"
)

func newSTLCommand(ctx *commandContext) *cobra.Command {
	var energy energyFlags
	params := model.STLParams{Period: 24, Seasonal: 7, Trend: 169, Robust: true}

	cmd := &cobra.Command{
		Use:   "stl",
		Short: "Seasonal-trend decomposition of an energy series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd.Context(), cmd.ErrOrStderr(), func(p *pipeline.Pipeline) error {
				rep, err := p.Decomposition(cmd.Context(), pipeline.DecompositionRequest{Energy: energy.filter(), Params: params})
				if err != nil {
					return err
				}
				return ctx.emit(cmd.OutOrStdout(), report.Decomposition(rep), rep.Provenance)
			})
		},
	}
	energy.register(cmd)
	cmd.Flags().IntVar(&params.Period, "period", params.Period, "Seasonal period in hours")
	cmd.Flags().IntVar(&params.Seasonal, "seasonal", params.Seasonal, "Seasonal smoother length (odd)")
	cmd.Flags().IntVar(&params.Trend, "trend", params.Trend, "Trend smoother length (odd, > period)")
	cmd.Flags().BoolVar(&params.Robust, "robust", params.Robust, "Use robustness weights")
	return cmd
}

func newSpectrogramCommand(ctx *commandContext) *cobra.Command {
	var energy energyFlags
	params := model.SpectrogramParams{SegmentLength: 256, Overlap: 128}

	cmd := &cobra.Command{
		Use:   "spectrogram",
		Short: "Short-time power spectrum of an energy series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("overlap") {
				params.Overlap = params.SegmentLength / 2
			}
			return ctx.withPipeline(cmd.Context(), cmd.ErrOrStderr(), func(p *pipeline.Pipeline) error {
				rep, err := p.Spectrogram(cmd.Context(), pipeline.SpectrogramRequest{Energy: energy.filter(), Params: params})
				if err != nil {
					return err
				}
				return ctx.emit(cmd.OutOrStdout(), report.Spectrogram(rep), rep.Provenance)
			})
		},
	}
	energy.register(cmd)
	cmd.Flags().IntVar(&params.SegmentLength, "segment", params.SegmentLength, "Segment length in hours")
	cmd.Flags().IntVar(&params.Overlap, "overlap", params.Overlap, "Segment overlap in hours (default half the segment)")
	return cmd
}
