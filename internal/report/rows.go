package report

import (
	"fmt"
	"strconv"

	"gridweather/internal/analysis"
	"gridweather/internal/pipeline"
)

// Correlation has one row per merged timestamp.
func Correlation(rep *pipeline.CorrelationReport) Table {
	m, r := rep.Merged, rep.Result
	t := Table{
		Title: fmt.Sprintf("%s vs %s, lag %dh, window %dh: r=%s (overall %s)",
			m.PrimaryName, m.SecondaryName, r.Lag, r.Window.Size,
			fmtFloat(r.WindowCorrelation), fmtFloat(r.OverallCorrelation)),
		Header: []string{"index", "time", m.PrimaryName, m.SecondaryName, "secondary_lagged", "rolling_r", "in_window"},
		Aligns: []Align{AlignRight, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft},
	}
	for i, ts := range m.Times {
		inWindow := i >= r.PrimaryRange.Start && i < r.PrimaryRange.End
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i),
			fmtTime(ts),
			fmtFloat(m.Primary[i]),
			fmtFloat(m.Secondary[i]),
			fmtFloat(r.SecondaryLagged[i]),
			fmtFloat(r.Rolling[i]),
			fmtBool(inWindow),
		})
	}
	return t
}

// LagScan has one row per lag in rank order.
func LagScan(rep *pipeline.LagScanReport) Table {
	t := Table{
		Title:  fmt.Sprintf("Lag ranking, window %dh centred on row %d of %d", rep.Window.Size, rep.Window.Center, rep.Rows),
		Header: []string{"rank", "lag_h", "r", "pairs"},
		Aligns: []Align{AlignRight, AlignRight, AlignRight, AlignRight},
	}
	for i, s := range rep.Scores {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(s.Lag),
			fmtFloat(s.Correlation),
			strconv.Itoa(s.Pairs),
		})
	}
	return t
}

// Outliers has one row per sample with the SPC curves.
func Outliers(rep *pipeline.OutlierReport) Table {
	r := rep.Result
	t := Table{
		Title: fmt.Sprintf("SPC %s: %d outliers, median %s, robust std %s",
			rep.Series.Name, r.Count, fmtFloat(r.Limits.Median), fmtFloat(r.Limits.RobustStd)),
		Header: []string{"time", "value", "residual", "lower", "upper", "outlier"},
		Aligns: []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft},
	}
	for i, p := range rep.Series.Points {
		t.Rows = append(t.Rows, []string{
			fmtTime(p.Time),
			fmtFloat(p.Value),
			fmtFloat(r.Residual[i]),
			fmtFloat(r.LowerCurve[i]),
			fmtFloat(r.UpperCurve[i]),
			fmtBool(r.Outliers[i]),
		})
	}
	return t
}

// Anomalies has one row per sample with its LOF score.
func Anomalies(rep *pipeline.AnomalyReport) Table {
	r := rep.Result
	t := Table{
		Title: fmt.Sprintf("LOF %s: %d anomalies (k=%d, threshold %s)",
			rep.Series.Name, r.Count, r.Neighbors, fmtFloat(r.Threshold)),
		Header: []string{"time", "value", "lof", "anomaly"},
		Aligns: []Align{AlignLeft, AlignRight, AlignRight, AlignLeft},
	}
	for i, p := range rep.Series.Points {
		t.Rows = append(t.Rows, []string{
			fmtTime(p.Time),
			fmtFloat(p.Value),
			fmtFloat(r.Scores[i]),
			fmtBool(r.Anomalies[i]),
		})
	}
	return t
}

// Decomposition has one row per sample with the STL components.
func Decomposition(rep *pipeline.DecompositionReport) Table {
	r := rep.Result
	t := Table{
		Title:  fmt.Sprintf("STL %s (%d values filled)", rep.Series.Name, rep.Filled),
		Header: []string{"time", "observed", "trend", "seasonal", "residual", "weight"},
		Aligns: []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight},
	}
	for i, p := range rep.Series.Points {
		t.Rows = append(t.Rows, []string{
			fmtTime(p.Time),
			fmtFloat(r.Observed[i]),
			fmtFloat(r.Trend[i]),
			fmtFloat(r.Seasonal[i]),
			fmtFloat(r.Residual[i]),
			fmtFloat(r.Weights[i]),
		})
	}
	return t
}

// Spectrogram is in long form: one row per segment and frequency.
func Spectrogram(rep *pipeline.SpectrogramReport) Table {
	r := rep.Result
	t := Table{
		Title: fmt.Sprintf("Spectrogram %s: %d segments, display range %s..%s dB",
			rep.Series.Name, len(r.Times), fmtFloat(r.DBMin), fmtFloat(r.DBMax)),
		Header: []string{"segment_time_h", "frequency_per_h", "power", "db"},
		Aligns: []Align{AlignRight, AlignRight, AlignRight, AlignRight},
	}
	for j, st := range r.Times {
		for i, f := range r.Frequencies {
			t.Rows = append(t.Rows, []string{
				fmtFloat(st),
				fmtFloat(f),
				fmtFloat(r.Power[i][j]),
				fmtFloat(r.DB[i][j]),
			})
		}
	}
	return t
}

// SnowDrift has one row per season.
func SnowDrift(rep *pipeline.SnowDriftReport) Table {
	r := rep.Result
	t := Table{
		Title: fmt.Sprintf("Snow drift at %.3f, %.3f: mean Qt %.1f tonnes/m",
			rep.Latitude, rep.Longitude, r.MeanQt/1000),
		Header: []string{"season", "hours", "qupot_kg_m", "qspot_kg_m", "swe_mm", "srwe_mm", "qinf_kg_m", "qt_kg_m", "qt_tonnes_m", "control"},
		Aligns: []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft},
	}
	for _, s := range r.Seasons {
		tr := s.Transport
		t.Rows = append(t.Rows, []string{
			s.Season,
			strconv.Itoa(s.Hours),
			fmtFloat(tr.Qupot),
			fmtFloat(tr.Qspot),
			fmtFloat(tr.Swe),
			fmtFloat(tr.Srwe),
			fmtFloat(tr.Qinf),
			fmtFloat(tr.Qt),
			fmtFloat(tr.Qt / 1000),
			string(tr.Control),
		})
	}
	return t
}

// WindRose has one row per sector with the mean transport in tonnes/m.
func WindRose(r *analysis.SnowDriftResult) Table {
	t := Table{
		Title:  "Mean seasonal transport by direction",
		Header: []string{"sector", "tonnes_m"},
		Aligns: []Align{AlignLeft, AlignRight},
	}
	for i, v := range r.MeanSectorsTonnes() {
		t.Rows = append(t.Rows, []string{analysis.SectorNames[i], fmtFloat(v)})
	}
	return t
}
