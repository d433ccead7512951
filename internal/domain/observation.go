package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Mode selects between the single-beach and multi-beach comparison analyses.
type Mode string

const (
	ModeSingle     Mode = "single"
	ModeComparison Mode = "comparison"
)

// ParseMode accepts "single" or "comparison" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSingle:
		return ModeSingle, nil
	case ModeComparison:
		return ModeComparison, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// MinPoints is the number of surveys a beach needs before it can be analyzed.
func (m Mode) MinPoints() int {
	if m == ModeSingle {
		return 2
	}
	return 3
}

// DayFirst reports whether ambiguous numeric dates (03/04/2024) read as day/month.
func (m Mode) DayFirst() bool {
	return m == ModeSingle
}

// DefaultPolicy is the classification table historically paired with the mode.
func (m Mode) DefaultPolicy() Policy {
	if m == ModeSingle {
		return PolicyFine
	}
	return PolicyCoarse
}

const (
	// DefaultThresholdMeters is the retreat distance used for the years-to-threshold projection.
	DefaultThresholdMeters = 10.0

	// DefaultSeasonalPeriod is the decomposition period in samples (monthly surveys, yearly cycle).
	DefaultSeasonalPeriod = 12

	// MinSeasonalPoints is the series length below which no seasonal trend is computed.
	MinSeasonalPoints = 12
)

// Options parameterizes Analyze.
type Options struct {
	Mode            Mode
	Policy          Policy
	ThresholdMeters float64
	SeasonalPeriod  int
}

// DefaultOptions returns the options historically used by the given mode.
func DefaultOptions(mode Mode) Options {
	return Options{
		Mode:            mode,
		Policy:          mode.DefaultPolicy(),
		ThresholdMeters: DefaultThresholdMeters,
		SeasonalPeriod:  DefaultSeasonalPeriod,
	}
}

// Observation is one cleaned spreadsheet row.
type Observation struct {
	Date              time.Time
	Beach             string
	ShorelinePosition float64 // meters
	TideLevel         float64 // meters

	// Cells is the number of sheet columns in the row; MissingCells counts the
	// empty ones. Both feed the data-quality percentage.
	Cells        int
	MissingCells int
}

// Normalized returns the shoreline position with the tide offset removed.
func (o Observation) Normalized() float64 {
	return o.ShorelinePosition - o.TideLevel
}

// Series is the set of observations for one beach.
type Series struct {
	Beach        string
	Observations []Observation
}

// GroupByBeach splits observations into per-beach series ordered by beach
// name. Each series is sorted by date; rows with equal dates keep their sheet order.
func GroupByBeach(obs []Observation) []Series {
	idx := make(map[string]int)
	var out []Series
	for _, o := range obs {
		i, ok := idx[o.Beach]
		if !ok {
			i = len(out)
			idx[o.Beach] = i
			out = append(out, Series{Beach: o.Beach})
		}
		out[i].Observations = append(out[i].Observations, o)
	}

	slices.SortFunc(out, func(a, b Series) int { return strings.Compare(a.Beach, b.Beach) })
	for i := range out {
		sortByDate(out[i].Observations)
	}
	return out
}

// BeachNames returns the beach names of the given series, in order.
func BeachNames(series []Series) []string {
	names := make([]string, len(series))
	for i, s := range series {
		names[i] = s.Beach
	}
	return names
}

func sortByDate(obs []Observation) {
	slices.SortStableFunc(obs, func(a, b Observation) int { return a.Date.Compare(b.Date) })
}
