package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"github.com/couchcryptid/shoreline-analysis/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const bandAlpha = 0x50

// TimeSeriesChart draws one beach's normalized shoreline, its fitted trend
// with the standard-error band and, when present, the seasonal trend. The
// result is an SVG document.
func TimeSeriesChart(a domain.BeachAnalysis, cfg *Config) ([]byte, error) {
	if len(a.Samples) == 0 {
		return nil, errors.New("chart: no samples")
	}
	theme, err := cfg.Theme.colors()
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = a.Beach + " - Temporal Shoreline Variability"
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Normalized Shoreline Position (m)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	observed := make(plotter.XYs, len(a.Samples))
	fitted := make(plotter.XYs, len(a.Samples))
	band := make(plotter.XYs, 0, 2*len(a.Samples))
	for i, s := range a.Samples {
		x := float64(s.Date.Unix())
		observed[i] = plotter.XY{X: x, Y: s.Normalized}
		fitted[i] = plotter.XY{X: x, Y: s.Fitted}
		band = append(band, plotter.XY{X: x, Y: s.Upper})
	}
	for i := len(a.Samples) - 1; i >= 0; i-- {
		s := a.Samples[i]
		band = append(band, plotter.XY{X: float64(s.Date.Unix()), Y: s.Lower})
	}

	if a.Trend.StdErr > 0 {
		poly, err := plotter.NewPolygon(band)
		if err != nil {
			return nil, fmt.Errorf("chart: band: %w", err)
		}
		poly.Color = withAlpha(theme.band, bandAlpha)
		poly.LineStyle.Width = 0
		p.Add(poly)
		p.Legend.Add("± std. error", poly)
	}

	line, points, err := plotter.NewLinePoints(observed)
	if err != nil {
		return nil, fmt.Errorf("chart: observed: %w", err)
	}
	line.Color = theme.observed
	line.Width = vg.Points(2)
	points.Color = theme.observed
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)
	p.Legend.Add("Normalized shoreline", line, points)

	trend, err := plotter.NewLine(fitted)
	if err != nil {
		return nil, fmt.Errorf("chart: trend: %w", err)
	}
	trend.Color = theme.fitted
	trend.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	p.Add(trend)
	p.Legend.Add(fmt.Sprintf("Trend (%.3f m/yr)", a.Trend.Slope), trend)

	if len(a.SeasonalTrend) > 1 {
		xys := make(plotter.XYs, len(a.SeasonalTrend))
		for i, tp := range a.SeasonalTrend {
			xys[i] = plotter.XY{X: float64(tp.Date.Unix()), Y: tp.Value}
		}
		seasonal, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("chart: seasonal trend: %w", err)
		}
		seasonal.Color = theme.seasonal
		seasonal.Width = vg.Points(1.5)
		p.Add(seasonal)
		p.Legend.Add("Seasonal trend", seasonal)
	}

	return writeSVG(p, cfg.Chart)
}

// NetChangeChart draws one bar per beach with its net shoreline change.
func NetChangeChart(analyses []domain.BeachAnalysis, cfg *Config) ([]byte, error) {
	if len(analyses) == 0 {
		return nil, errors.New("chart: no beaches")
	}
	theme, err := cfg.Theme.colors()
	if err != nil {
		return nil, err
	}

	values := make(plotter.Values, len(analyses))
	names := make([]string, len(analyses))
	for i, a := range analyses {
		values[i] = a.NetChange
		names[i] = a.Beach
	}

	p := plot.New()
	p.Title.Text = "Net Shoreline Change by Beach"
	p.Y.Label.Text = "Net change (m)"
	p.Add(plotter.NewGrid())

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return nil, fmt.Errorf("chart: bars: %w", err)
	}
	bars.Color = theme.observed
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	return writeSVG(p, cfg.Chart)
}

func writeSVG(p *plot.Plot, size ChartConfig) ([]byte, error) {
	w, err := p.WriterTo(vg.Length(size.WidthCM)*vg.Centimeter, vg.Length(size.HeightCM)*vg.Centimeter, "svg")
	if err != nil {
		return nil, fmt.Errorf("chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("chart: write svg: %w", err)
	}
	return buf.Bytes(), nil
}

type palette struct {
	observed, fitted, band, seasonal color.Color
}

func (t Theme) colors() (palette, error) {
	var (
		pal  palette
		errs []error
	)
	parse := func(hex string) color.Color {
		c, err := parseHex(hex)
		if err != nil {
			errs = append(errs, err)
		}
		return c
	}
	pal.observed = parse(t.Observed)
	pal.fitted = parse(t.Fitted)
	pal.band = parse(t.Band)
	pal.seasonal = parse(t.Seasonal)
	return pal, errors.Join(errs...)
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}
