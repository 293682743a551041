package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gridweather/internal/model"
	"gridweather/internal/pipeline"
	"gridweather/internal/report"
)

func energyKind(s string) model.EnergyKind {
	return model.EnergyKind(strings.ToLower(strings.TrimSpace(s)))
}

func newSharesCommand(ctx *commandContext) *cobra.Command {
	var kind, area string
	var year int

	cmd := &cobra.Command{
		Use:   "shares",
		Short: "Split a price area's total energy by group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd.Context(), cmd.ErrOrStderr(), func(p *pipeline.Pipeline) error {
				rep, err := p.GroupShares(cmd.Context(), pipeline.GroupSharesRequest{
					Kind: energyKind(kind),
					Area: strings.TrimSpace(area),
					Year: year,
				})
				if err != nil {
					return err
				}
				return ctx.emit(cmd.OutOrStdout(), report.GroupShares(rep), rep.Provenance)
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(model.Production), "Energy kind: production or consumption")
	cmd.Flags().StringVar(&area, "area", "NO1", "Price area (NO1..NO5)")
	cmd.Flags().IntVar(&year, "year", 0, "Calendar year (0 sums every year)")
	return cmd
}

func newMonthlyCommand(ctx *commandContext) *cobra.Command {
	var kind, area string
	var groups []string

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Monthly totals per group for a price area",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd.Context(), cmd.ErrOrStderr(), func(p *pipeline.Pipeline) error {
				rep, err := p.MonthlyTotals(cmd.Context(), pipeline.MonthlyRequest{
					Kind:   energyKind(kind),
					Area:   strings.TrimSpace(area),
					Groups: groups,
				})
				if err != nil {
					return err
				}
				return ctx.emit(cmd.OutOrStdout(), report.MonthlyTotals(rep), rep.Provenance)
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(model.Production), "Energy kind: production or consumption")
	cmd.Flags().StringVar(&area, "area", "NO1", "Price area (NO1..NO5)")
	cmd.Flags().StringSliceVar(&groups, "group", nil, "Groups to keep (repeat or comma separate; empty keeps all)")
	return cmd
}

func newMeansCommand(ctx *commandContext) *cobra.Command {
	var kind, group, from, to string

	cmd := &cobra.Command{
		Use:   "means",
		Short: "Mean hourly quantity of a group per price area",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var start, end time.Time
			var err error
			if from != "" {
				if start, err = time.Parse(time.DateOnly, from); err != nil {
					return fmt.Errorf("--from: want YYYY-MM-DD, got %q", from)
				}
			}
			if to != "" {
				if end, err = time.Parse(time.DateOnly, to); err != nil {
					return fmt.Errorf("--to: want YYYY-MM-DD, got %q", to)
				}
			}
			return ctx.withPipeline(cmd.Context(), cmd.ErrOrStderr(), func(p *pipeline.Pipeline) error {
				rep, err := p.AreaMeans(cmd.Context(), pipeline.AreaMeansRequest{
					Kind:  energyKind(kind),
					Group: strings.TrimSpace(group),
					From:  start,
					To:    end,
				})
				if err != nil {
					return err
				}
				return ctx.emit(cmd.OutOrStdout(), report.AreaMeans(rep), rep.Provenance)
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(model.Production), "Energy kind: production or consumption")
	cmd.Flags().StringVar(&group, "group", "", "Group to average (empty averages all groups)")
	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD, empty for open)")
	cmd.Flags().StringVar(&to, "to", "", "Last day, inclusive (YYYY-MM-DD, empty for open)")
	return cmd
}
