package domain

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

const daysPerYear = 365.25

// Trend is an ordinary least squares fit of normalized shoreline against
// elapsed years.
type Trend struct {
	Slope     float64 `json:"rate_m_per_yr"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r2"`
	StdErr    float64 `json:"std_error"` // standard error of the slope
}

// At evaluates the fitted line at the given elapsed years.
func (t Trend) At(years float64) float64 {
	return t.Intercept + t.Slope*years
}

const secondsPerDay = 24 * 60 * 60

// ElapsedYears converts dates to whole days since the earliest date, divided by 365.25.
func ElapsedYears(dates []time.Time) []float64 {
	if len(dates) == 0 {
		return nil
	}
	first := dates[0]
	for _, d := range dates[1:] {
		if d.Before(first) {
			first = d
		}
	}

	out := make([]float64, len(dates))
	for i, d := range dates {
		days := (d.Unix() - first.Unix()) / secondsPerDay
		out[i] = float64(days) / daysPerYear
	}
	return out
}

// FitTrend fits values ≈ intercept + slope·years.
//
// R² is the squared Pearson correlation and is 0 when values are constant.
// The slope standard error needs at least one residual degree of freedom and
// is 0 for two-point fits.
func FitTrend(years, values []float64) (Trend, error) {
	if len(years) != len(values) {
		return Trend{}, fmt.Errorf("fit trend: %d x values for %d y values", len(years), len(values))
	}
	n := len(years)
	if n < 2 {
		return Trend{}, fmt.Errorf("fit trend: %w", ErrInsufficientPoints)
	}

	varX := stat.Variance(years, nil)
	if varX == 0 {
		return Trend{}, ErrDegenerateTime
	}

	intercept, slope := stat.LinearRegression(years, values, nil, false)

	varY := stat.Variance(values, nil)
	var r2 float64
	if varY > 0 {
		r := stat.Correlation(years, values, nil)
		r2 = r * r
	}

	var stdErr float64
	if n > 2 {
		unexplained := math.Max(0, 1-r2)
		stdErr = math.Sqrt(unexplained * varY / varX / float64(n-2))
	}

	return Trend{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  r2,
		StdErr:    stdErr,
	}, nil
}
