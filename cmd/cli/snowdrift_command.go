package main

import (
	"github.com/spf13/cobra"

	"gridweather/internal/model"
	"gridweather/internal/pipeline"
	"gridweather/internal/report"
)

func newSnowDriftCommand(ctx *commandContext) *cobra.Command {
	req := pipeline.SnowDriftRequest{Params: model.DefaultSnowDriftParams()}
	var rose bool

	cmd := &cobra.Command{
		Use:   "snowdrift",
		Short: "Seasonal snow transport (Tabler 2003) with a 16-sector wind rose",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd.Context(), cmd.ErrOrStderr(), func(p *pipeline.Pipeline) error {
				rep, err := p.SnowDrift(cmd.Context(), req)
				if err != nil {
					return err
				}
				if err := ctx.emit(cmd.OutOrStdout(), report.SnowDrift(rep), rep.Provenance); err != nil {
					return err
				}
				if rose {
					return report.Render(cmd.OutOrStdout(), report.WindRose(rep.Result))
				}
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Area, "area", "NO1", "Price area whose coordinate is used when --lat/--lon are not given")
	f.Float64Var(&req.Latitude, "lat", 0, "Latitude")
	f.Float64Var(&req.Longitude, "lon", 0, "Longitude")
	f.IntVar(&req.FromYear, "from", 0, "First season start year (season runs July 1 to June 30)")
	f.IntVar(&req.ToYear, "to", 0, "Last season start year")
	f.Float64Var(&req.Params.TransportDistance, "transport-distance", req.Params.TransportDistance, "Maximum transport distance T in metres")
	f.Float64Var(&req.Params.Fetch, "fetch", req.Params.Fetch, "Fetch distance F in metres")
	f.Float64Var(&req.Params.Theta, "theta", req.Params.Theta, "Relocation coefficient")
	f.BoolVar(&rose, "rose", false, "Also print mean transport per wind sector")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
