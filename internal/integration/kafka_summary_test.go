//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/shoreline-analysis/internal/adapter/kafka"
	"github.com/couchcryptid/shoreline-analysis/internal/adapter/sheet"
	"github.com/couchcryptid/shoreline-analysis/internal/config"
	"github.com/couchcryptid/shoreline-analysis/internal/domain"
	"github.com/couchcryptid/shoreline-analysis/internal/observability"
	"github.com/couchcryptid/shoreline-analysis/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const surveyCSV = `Date,Beach,Shoreline_Position,Tide_Level
2021-01-10,Kovalam,52.0,0.5
2021-07-10,Kovalam,51.5,0.5
2022-01-10,Kovalam,51.0,0.5
2021-01-10,Varkala,40.0,0.2
2021-07-10,Varkala,40.1,0.2
2022-01-10,Varkala,40.3,0.2
2021-01-10,Marari,44.0,0.1
`

// publishedSummary holds a deserialized message read from the summary topic.
type publishedSummary struct {
	Summary domain.Summary
	Key     string
	Headers map[string]string
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("shoreline-test"))
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// readSummaries reads n messages from topic and deserializes them.
func readSummaries(ctx context.Context, t *testing.T, broker, topic string, n int) []publishedSummary {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       topic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	out := make([]publishedSummary, 0, n)
	for len(out) < n {
		msg, err := consumer.ReadMessage(readCtx)
		require.NoError(t, err, "read from summary topic")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		var s domain.Summary
		require.NoError(t, json.Unmarshal(msg.Value, &s), "unmarshal summary message")
		out = append(out, publishedSummary{Summary: s, Key: string(msg.Key), Headers: headers})
	}
	return out
}

// TestPipelinePublishesSummaries runs an upload through the real sheet reader
// and Kafka writer and verifies one message per analyzed beach.
func TestPipelinePublishesSummaries(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	const topic = "test-summaries"
	createTopic(t, broker, topic)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaSummaryTopic: topic}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.CheckReadiness(ctx))

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(sheet.NewReader(), writer, domain.DefaultOptions(domain.ModeComparison), discardLogger(), metrics)

	report, err := p.Run(ctx, pipeline.Upload{Filename: "survey.csv", Body: strings.NewReader(surveyCSV)})
	require.NoError(t, err)
	require.Len(t, report.Analyses, 2, "Marari has a single survey and is skipped")

	got := readSummaries(ctx, t, broker, topic, 2)
	byBeach := map[string]publishedSummary{}
	for _, m := range got {
		byBeach[m.Key] = m
	}

	kovalam, ok := byBeach["Kovalam"]
	require.True(t, ok)
	assert.Equal(t, report.ID, kovalam.Headers["report_id"])
	assert.Equal(t, domain.LabelSevereErosion, kovalam.Headers["classification"])
	_, err = time.Parse(time.RFC3339, kovalam.Headers["generated_at"])
	assert.NoError(t, err, "generated_at should be valid RFC3339")

	assert.Equal(t, report.ID, kovalam.Summary.ReportID)
	assert.InDelta(t, -1.0, kovalam.Summary.NetChange, 1e-9)
	assert.True(t, kovalam.Summary.EarlyWarning)
	require.NotNil(t, kovalam.Summary.RiskIndex)

	varkala, ok := byBeach["Varkala"]
	require.True(t, ok)
	assert.Nil(t, varkala.Summary.YearsToThreshold, "an advancing beach never reaches the retreat threshold")
}

func TestWriterReadinessFailsWithoutBroker(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	writer := kafka.NewWriter(&config.Config{KafkaBrokers: []string{"127.0.0.1:1"}, KafkaSummaryTopic: "x"}, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	assert.Error(t, writer.CheckReadiness(ctx))
}
