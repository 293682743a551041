package report

import (
	"fmt"
	"strconv"

	"gridweather/internal/pipeline"
)

// Forecast has one row per forecast hour.
func Forecast(rep *pipeline.ForecastReport) Table {
	r := rep.Result
	t := Table{
		Title: fmt.Sprintf("SARIMA forecast of %s from %d training hours (%d filled): AIC %s, BIC %s",
			rep.Series.Name, rep.Series.Len(), rep.Filled, fmtFloat(r.AIC), fmtFloat(r.BIC)),
		Header: []string{"step", "time", "forecast", "lower", "upper"},
		Aligns: []Align{AlignRight, AlignLeft, AlignRight, AlignRight, AlignRight},
	}
	for i, ts := range rep.Times {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			fmtTime(ts),
			fmtFloat(r.Forecast[i]),
			fmtFloat(r.Lower[i]),
			fmtFloat(r.Upper[i]),
		})
	}
	return t
}

// GroupShares has one row per group, largest first.
func GroupShares(rep *pipeline.GroupSharesReport) Table {
	period := "all years"
	if rep.Year != 0 {
		period = strconv.Itoa(rep.Year)
	}
	t := Table{
		Title:  fmt.Sprintf("Group shares in %s, %s", rep.Area, period),
		Header: []string{"group", "total_kwh", "share_pct"},
		Aligns: []Align{AlignLeft, AlignRight, AlignRight},
	}
	for _, s := range rep.Shares {
		t.Rows = append(t.Rows, []string{
			s.Group,
			fmtFloat(s.TotalKWh),
			strconv.FormatFloat(100*s.Share, 'f', 2, 64),
		})
	}
	return t
}

// MonthlyTotals has one row per month and group.
func MonthlyTotals(rep *pipeline.MonthlyReport) Table {
	t := Table{
		Title:  fmt.Sprintf("Monthly totals in %s", rep.Area),
		Header: []string{"month", "group", "total_kwh", "hours"},
		Aligns: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight},
	}
	for _, m := range rep.Totals {
		t.Rows = append(t.Rows, []string{
			m.Month.Format("2006-01"),
			m.Group,
			fmtFloat(m.TotalKWh),
			strconv.Itoa(m.Hours),
		})
	}
	return t
}

// AreaMeans has one row per price area.
func AreaMeans(rep *pipeline.AreaMeansReport) Table {
	group := rep.Group
	if group == "" {
		group = "all groups"
	}
	t := Table{
		Title:  fmt.Sprintf("Mean hourly kWh per area, %s", group),
		Header: []string{"area", "mean_kwh", "records"},
		Aligns: []Align{AlignLeft, AlignRight, AlignRight},
	}
	for _, m := range rep.Means {
		t.Rows = append(t.Rows, []string{m.Area, fmtFloat(m.MeanKWh), strconv.Itoa(m.Records)})
	}
	return t
}
