package domain

import "time"

// TrendPoint is one point of a derived trend line.
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// SeasonalPeriodFor picks the decomposition period for a series of n points.
// The requested period is halved down to n/2 when the series does not hold
// two full cycles. Returns 0 when no decomposition is possible.
func SeasonalPeriodFor(n, requested int) int {
	if n < MinSeasonalPoints || requested < 2 {
		return 0
	}
	period := requested
	if n < 2*period {
		period = n / 2
	}
	if period < 2 {
		return 0
	}
	return period
}

// SeasonalTrend returns the trend component of a classical additive
// decomposition: a centered moving average over period samples, using the
// 2×period weighting when the period is even. Samples without a full window
// on both sides are omitted.
func SeasonalTrend(dates []time.Time, values []float64, period int) []TrendPoint {
	if period < 2 || len(values) < 2*period || len(dates) != len(values) {
		return nil
	}

	weights := movingAverageWeights(period)
	half := len(weights) / 2

	out := make([]TrendPoint, 0, len(values)-2*half)
	for i := half; i < len(values)-half; i++ {
		var sum float64
		for j, w := range weights {
			sum += w * values[i-half+j]
		}
		out = append(out, TrendPoint{Date: dates[i], Value: sum})
	}
	return out
}

func movingAverageWeights(period int) []float64 {
	if period%2 == 1 {
		w := make([]float64, period)
		for i := range w {
			w[i] = 1 / float64(period)
		}
		return w
	}

	w := make([]float64, period+1)
	for i := range w {
		w[i] = 1 / float64(period)
	}
	w[0] /= 2
	w[period] /= 2
	return w
}
