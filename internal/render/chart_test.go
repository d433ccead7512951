package render

import (
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/shoreline-analysis/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

func sampleAnalysis(t *testing.T, beach string, positions ...float64) domain.BeachAnalysis {
	t.Helper()
	obs := make([]domain.Observation, len(positions))
	for i, p := range positions {
		obs[i] = domain.Observation{
			Date:              day0.AddDate(0, i, 0),
			Beach:             beach,
			ShorelinePosition: p,
			TideLevel:         0.5,
			Cells:             4,
		}
	}
	a, err := domain.Analyze(beach, obs, domain.DefaultOptions(domain.ModeComparison))
	require.NoError(t, err)
	return a
}

func TestTimeSeriesChart(t *testing.T) {
	a := sampleAnalysis(t, "Kovalam", 52, 51.8, 51.9, 51.5, 51.2)

	svg, err := TimeSeriesChart(a, Default())
	require.NoError(t, err)

	doc := string(svg)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(doc), "<?xml") || strings.Contains(doc, "<svg"))
	assert.Contains(t, doc, "Kovalam")
	assert.Contains(t, doc, "Normalized shoreline")
}

func TestTimeSeriesChart_WithSeasonalTrend(t *testing.T) {
	positions := make([]float64, 14)
	for i := range positions {
		positions[i] = 40 - 0.05*float64(i)
	}
	a := sampleAnalysis(t, "Varkala", positions...)
	require.NotEmpty(t, a.SeasonalTrend)

	svg, err := TimeSeriesChart(a, Default())
	require.NoError(t, err)
	assert.Contains(t, string(svg), "Seasonal trend")
}

func TestTimeSeriesChart_Errors(t *testing.T) {
	_, err := TimeSeriesChart(domain.BeachAnalysis{Beach: "Empty"}, Default())
	assert.Error(t, err)

	cfg := Default()
	cfg.Theme.Fitted = "red"
	_, err = TimeSeriesChart(sampleAnalysis(t, "Kovalam", 3, 2, 1), cfg)
	assert.Error(t, err)
}

func TestNetChangeChart(t *testing.T) {
	analyses := []domain.BeachAnalysis{
		sampleAnalysis(t, "Alappuzha", 30, 30.2, 30.4),
		sampleAnalysis(t, "Kovalam", 52, 51.5, 51),
	}

	svg, err := NetChangeChart(analyses, Default())
	require.NoError(t, err)
	assert.Contains(t, string(svg), "Alappuzha")
	assert.Contains(t, string(svg), "Net Shoreline Change by Beach")

	_, err = NetChangeChart(nil, Default())
	assert.Error(t, err)
}
