package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/shoreline-analysis/internal/config"
	"github.com/couchcryptid/shoreline-analysis/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	risk := 61.5
	summary := domain.Summary{
		ReportID:       "rep-1",
		Beach:          "Kovalam",
		Points:         14,
		NetChange:      -0.72,
		Rate:           -0.31,
		Classification: domain.LabelModerateErosion,
		EarlyWarning:   true,
		RiskIndex:      &risk,
		GeneratedAt:    now,
	}

	msg, err := serializeToMessage(summary)
	require.NoError(t, err)

	assert.Equal(t, []byte("Kovalam"), msg.Key)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "report_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("rep-1"), msg.Headers[0].Value)
	assert.Equal(t, "classification", msg.Headers[1].Key)
	assert.Equal(t, []byte(domain.LabelModerateErosion), msg.Headers[1].Value)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "Kovalam", decoded["beach"])
	assert.Equal(t, 61.5, decoded["risk_index"])
	assert.Equal(t, true, decoded["early_warning"])
	assert.NotContains(t, decoded, "years_to_threshold")
}

func TestPublish_EmptyReport(t *testing.T) {
	w := NewWriter(&config.Config{KafkaBrokers: []string{"localhost:1"}, KafkaSummaryTopic: "t"}, discardLogger())
	t.Cleanup(func() { _ = w.Close() })

	n, err := w.Publish(context.Background(), domain.Report{ID: "empty"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCheckReadiness_NoBrokers(t *testing.T) {
	w := NewWriter(&config.Config{KafkaSummaryTopic: "t"}, discardLogger())
	t.Cleanup(func() { _ = w.Close() })

	err := w.CheckReadiness(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no kafka brokers")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
