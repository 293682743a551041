package main

import (
	"strings"

	"github.com/spf13/cobra"

	"gridweather/internal/data"
	"gridweather/internal/model"
	"gridweather/internal/pipeline"
)

type energyFlags struct {
	kind  string
	area  string
	group string
	year  int
}

func (f *energyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "kind", string(model.Production), "Energy kind: production or consumption")
	cmd.Flags().StringVar(&f.area, "area", "NO1", "Price area (NO1..NO5)")
	cmd.Flags().StringVar(&f.group, "group", "", "Production or consumption group (empty sums all groups)")
	cmd.Flags().IntVar(&f.year, "year", 0, "Calendar year")
	_ = cmd.MarkFlagRequired("year")
}

func (f *energyFlags) filter() data.EnergyFilter {
	return data.EnergyFilter{
		Kind:  model.EnergyKind(strings.ToLower(strings.TrimSpace(f.kind))),
		Area:  strings.ToUpper(strings.TrimSpace(f.area)),
		Group: strings.TrimSpace(f.group),
		Year:  f.year,
	}
}

type weatherFlags struct {
	area     string
	year     int
	variable string
}

func (f *weatherFlags) register(cmd *cobra.Command, variable string) {
	cmd.Flags().StringVar(&f.area, "area", "NO1", "Price area (NO1..NO5)")
	cmd.Flags().IntVar(&f.year, "year", 0, "Calendar year")
	cmd.Flags().StringVar(&f.variable, "variable", variable, "ERA5 hourly variable")
	_ = cmd.MarkFlagRequired("year")
}

func (f *weatherFlags) selector() pipeline.WeatherSelector {
	return pipeline.WeatherSelector{
		Area:     strings.ToUpper(strings.TrimSpace(f.area)),
		Year:     f.year,
		Variable: strings.TrimSpace(f.variable),
	}
}
