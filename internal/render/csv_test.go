package render

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/couchcryptid/shoreline-analysis/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSummaryCSV(t *testing.T) {
	risk := 61.5
	years := 20.0
	summaries := []domain.Summary{
		{
			Beach: "Kovalam", Points: 3, Start: day0, End: day0.AddDate(2, 0, 0),
			NetChange: -1.5, Rate: -0.75, Intercept: 51.5, RSquared: 1, StdErr: 0,
			Classification: domain.LabelSevereErosion, EarlyWarning: true, DataQuality: 95,
			RiskIndex: &risk, YearsToThreshold: &years,
		},
		{
			Beach: "Varkala", Points: 2, Start: day0, End: day0.AddDate(1, 0, 0),
			NetChange: 0.25, Rate: 0.25, Classification: domain.LabelMildAccretion, DataQuality: 100,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, summaries))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, SummaryHeader, records[0])
	assert.Equal(t, []string{
		"Kovalam", "3", "2023-01-01", "2025-01-01",
		"-1.5", "-0.75", "51.5", "1", "0",
		"Severe Erosion", "true", "95", "61.5", "20",
	}, records[1])
	assert.Equal(t, "", records[2][12], "risk index is not computed")
	assert.Equal(t, "", records[2][13], "years to threshold is not computed")
	assert.Equal(t, "false", records[2][10])
}

func TestSummaryFilename(t *testing.T) {
	assert.Equal(t, "kerala-survey-2024-summary.csv", SummaryFilename(domain.Report{Source: "Kerala Survey 2024.xlsx"}))
	assert.Equal(t, "shoreline-summary.csv", SummaryFilename(domain.Report{}))
}
