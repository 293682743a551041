package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gridweather/internal/data"
	"gridweather/internal/model"
	"gridweather/internal/pipeline"
	"gridweather/internal/report"
)

func newForecastCommand(ctx *commandContext) *cobra.Command {
	var kind, area, group, from, to string
	var order, seasonal []int
	params := model.DefaultForecastParams()

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "SARIMA forecast of an energy series with a confidence band",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(order) != 3 {
				return fmt.Errorf("--order takes p,d,q")
			}
			if len(seasonal) != 4 {
				return fmt.Errorf("--seasonal-order takes P,D,Q,s")
			}
			params.P, params.D, params.Q = order[0], order[1], order[2]
			params.SP, params.SD, params.SQ, params.Period = seasonal[0], seasonal[1], seasonal[2], seasonal[3]

			start, err := time.Parse(time.DateOnly, from)
			if err != nil {
				return fmt.Errorf("--from: want YYYY-MM-DD, got %q", from)
			}
			end, err := time.Parse(time.DateOnly, to)
			if err != nil {
				return fmt.Errorf("--to: want YYYY-MM-DD, got %q", to)
			}

			return ctx.withPipeline(cmd.Context(), cmd.ErrOrStderr(), func(p *pipeline.Pipeline) error {
				rep, err := p.Forecast(cmd.Context(), pipeline.ForecastRequest{
					Energy: data.EnergyFilter{
						Kind:  energyKind(kind),
						Area:  strings.ToUpper(strings.TrimSpace(area)),
						Group: strings.TrimSpace(group),
					},
					TrainStart: start,
					TrainEnd:   end,
					Params:     params,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Trained on %d hours, forecast %d hours from %s\n",
					rep.Series.Len(), len(rep.Times), rep.Times[0].Format(time.RFC3339))
				return ctx.emit(cmd.OutOrStdout(), report.Forecast(rep), rep.Provenance)
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(model.Production), "Energy kind: production or consumption")
	cmd.Flags().StringVar(&area, "area", "NO1", "Price area (NO1..NO5)")
	cmd.Flags().StringVar(&group, "group", "", "Production or consumption group (empty sums all groups)")
	cmd.Flags().StringVar(&from, "from", "", "First training day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last training day, inclusive (YYYY-MM-DD)")
	cmd.Flags().IntSliceVar(&order, "order", []int{params.P, params.D, params.Q}, "Non-seasonal order p,d,q")
	cmd.Flags().IntSliceVar(&seasonal, "seasonal-order", []int{params.SP, params.SD, params.SQ, params.Period}, "Seasonal order P,D,Q,s")
	cmd.Flags().IntVar(&params.Horizon, "horizon", params.Horizon, "Hours to forecast")
	cmd.Flags().Float64Var(&params.Confidence, "confidence", params.Confidence, "Confidence band level")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
