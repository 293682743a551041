package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"gridweather/internal/data"
	"gridweather/internal/model"
	"gridweather/internal/report"
)

func newAreasCommand(ctx *commandContext) *cobra.Command {
	var export string

	cmd := &cobra.Command{
		Use:   "areas",
		Short: "List price area coordinates, optionally writing them as an override file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			areas, err := data.ResolveAreas(cfg.Areas.File)
			if err != nil {
				return err
			}
			sorted := model.SortedAreas(areas)

			t := report.Table{
				Title:  "Price areas",
				Header: []string{"id", "city", "latitude", "longitude"},
				Aligns: []report.Align{report.AlignLeft, report.AlignLeft, report.AlignRight, report.AlignRight},
			}
			for _, a := range sorted {
				t.Rows = append(t.Rows, []string{
					a.ID,
					a.City,
					strconv.FormatFloat(a.Latitude, 'f', 4, 64),
					strconv.FormatFloat(a.Longitude, 'f', 4, 64),
				})
			}
			if err := report.Render(cmd.OutOrStdout(), t); err != nil {
				return err
			}

			if export == "" {
				return nil
			}
			list := &data.AreaList{
				UpdatedAt: time.Now().UTC().Format(time.RFC3339),
				Areas:     sorted,
			}
			if err := data.SaveAreas(list, export); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d areas to %s\n", len(sorted), export)
			return nil
		},
	}
	cmd.Flags().StringVar(&export, "export", "", "Write the resolved areas to this JSON file")
	return cmd
}
