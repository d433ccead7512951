package domain

import (
	"fmt"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Heuristic constants.
const (
	// earlyWarningShare is the minimum share of negative first differences
	// that counts as sustained retreat.
	earlyWarningShare = 0.6

	riskRateWeight        = 30.0
	riskFitWeight         = 20.0
	riskVolatilityWeight  = 10.0
	riskConsistencyWeight = 40.0
	riskMax               = 100.0
)

// Sample is one analyzed survey of a beach.
type Sample struct {
	Date         time.Time `json:"date"`
	ElapsedYears float64   `json:"elapsed_years"`
	Normalized   float64   `json:"normalized"`
	Fitted       float64   `json:"fitted"`
	Lower        float64   `json:"lower"`
	Upper        float64   `json:"upper"`
}

// BeachAnalysis holds every metric computed for one beach. RiskIndex,
// YearsToThreshold and SeasonalTrend are only populated in comparison mode.
type BeachAnalysis struct {
	Beach          string         `json:"beach"`
	Points         int            `json:"points"`
	Start          time.Time      `json:"start"`
	End            time.Time      `json:"end"`
	Samples        []Sample       `json:"samples"`
	Trend          Trend          `json:"trend"`
	NetChange      float64        `json:"net_change_m"`
	Classification Classification `json:"classification"`
	EarlyWarning   bool           `json:"early_warning"`
	DataQuality    float64        `json:"data_quality_pct"`
	Interpretation string         `json:"interpretation"`

	RiskIndex        *float64     `json:"risk_index,omitempty"`
	YearsToThreshold *float64     `json:"years_to_threshold,omitempty"`
	SeasonalTrend    []TrendPoint `json:"seasonal_trend,omitempty"`
}

// Analyze runs the full per-beach pipeline over one beach's observations:
// tidal normalization, trend fit, net change, classification, early warning,
// data quality and, in comparison mode, risk index, threshold projection and
// seasonal trend. The observations are sorted by date on a copy.
func Analyze(beach string, obs []Observation, opts Options) (BeachAnalysis, error) {
	if opts.Mode == "" {
		opts.Mode = ModeComparison
	}
	if opts.Policy == "" {
		opts.Policy = opts.Mode.DefaultPolicy()
	}
	if opts.ThresholdMeters <= 0 {
		opts.ThresholdMeters = DefaultThresholdMeters
	}
	if opts.SeasonalPeriod == 0 {
		opts.SeasonalPeriod = DefaultSeasonalPeriod
	}
	if need := opts.Mode.MinPoints(); len(obs) < need {
		return BeachAnalysis{}, fmt.Errorf("%w: %s has %d points, need %d", ErrInsufficientPoints, beach, len(obs), need)
	}

	series := slices.Clone(obs)
	sortByDate(series)

	dates := make([]time.Time, len(series))
	for i, o := range series {
		dates[i] = o.Date
	}
	normalized := Normalize(series)
	years := ElapsedYears(dates)

	trend, err := FitTrend(years, normalized)
	if err != nil {
		return BeachAnalysis{}, fmt.Errorf("%s: %w", beach, err)
	}

	samples := make([]Sample, len(series))
	for i := range series {
		fitted := trend.At(years[i])
		samples[i] = Sample{
			Date:         dates[i],
			ElapsedYears: years[i],
			Normalized:   normalized[i],
			Fitted:       fitted,
			Lower:        fitted - trend.StdErr,
			Upper:        fitted + trend.StdErr,
		}
	}

	net := NetChange(normalized)
	a := BeachAnalysis{
		Beach:          beach,
		Points:         len(series),
		Start:          dates[0],
		End:            dates[len(dates)-1],
		Samples:        samples,
		Trend:          trend,
		NetChange:      net,
		Classification: opts.Policy.Classify(net),
		EarlyWarning:   EarlyWarning(opts.Mode, normalized, net, trend.Slope),
		DataQuality:    DataQuality(series),
		Interpretation: Interpret(net),
	}

	if opts.Mode == ModeComparison {
		risk := RiskIndex(trend, normalized)
		a.RiskIndex = &risk
		a.YearsToThreshold = YearsToThreshold(opts.ThresholdMeters, trend.Slope)
		if period := SeasonalPeriodFor(len(normalized), opts.SeasonalPeriod); period > 0 {
			a.SeasonalTrend = SeasonalTrend(dates, normalized, period)
		}
	}

	return a, nil
}

// Normalize returns shoreline position minus tide level for each observation.
func Normalize(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.Normalized()
	}
	return out
}

// NetChange is the last minus the first value, or 0 for fewer than two values.
func NetChange(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return values[len(values)-1] - values[0]
}

// NegativeDiffs counts consecutive first differences that are negative.
// It returns the count and the number of differences.
func NegativeDiffs(values []float64) (negative, total int) {
	for i := 1; i < len(values); i++ {
		if values[i]-values[i-1] < 0 {
			negative++
		}
		total++
	}
	return negative, total
}

// EarlyWarning flags sustained retreat: the series must be receding (net
// change in (-1.0, 0) for single mode, negative rate for comparison mode) and
// at least 60% of first differences must be negative.
func EarlyWarning(mode Mode, normalized []float64, netChange, rate float64) bool {
	negative, total := NegativeDiffs(normalized)
	if total == 0 {
		return false
	}

	if mode == ModeSingle {
		if !(netChange < 0 && netChange > -1.0) {
			return false
		}
	} else if rate >= 0 {
		return false
	}

	return float64(negative) >= float64(total)*earlyWarningShare
}

// RiskIndex blends trend magnitude, fit quality, volatility and directional
// consistency into a 0–100 score rounded to one decimal.
func RiskIndex(trend Trend, normalized []float64) float64 {
	var std float64
	if len(normalized) > 1 {
		std = stat.StdDev(normalized, nil)
	}

	var negFrac float64
	if negative, total := NegativeDiffs(normalized); total > 0 {
		negFrac = float64(negative) / float64(total)
	}

	raw := math.Abs(trend.Slope)*riskRateWeight +
		(1-trend.RSquared)*riskFitWeight +
		std*riskVolatilityWeight +
		negFrac*riskConsistencyWeight

	return math.Min(riskMax, math.RoundToEven(raw*10)/10)
}

// YearsToThreshold projects how long a receding beach takes to retreat by
// threshold meters at the fitted rate. Returns nil unless rate < 0.
func YearsToThreshold(threshold, rate float64) *float64 {
	if rate >= 0 {
		return nil
	}
	years := math.Abs(threshold / rate)
	return &years
}

// DataQuality is 100 minus the mean share of empty cells across the rows, in percent.
func DataQuality(obs []Observation) float64 {
	if len(obs) == 0 {
		return 0
	}
	var missing float64
	for _, o := range obs {
		if o.Cells > 0 {
			missing += float64(o.MissingCells) / float64(o.Cells)
		}
	}
	return 100 - missing/float64(len(obs))*100
}
