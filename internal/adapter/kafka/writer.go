package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/shoreline-analysis/internal/config"
	"github.com/couchcryptid/shoreline-analysis/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes per-beach summary rows to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer  *kafkago.Writer
	brokers []string
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured summary topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSummaryTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, brokers: cfg.KafkaBrokers, logger: logger}
}

// Publish serializes every summary row of the report and writes them in a
// single WriteMessages call. Rows are keyed by beach so a beach's history
// stays on one partition.
func (w *Writer) Publish(ctx context.Context, report domain.Report) (int, error) {
	summaries := report.Summaries()
	if len(summaries) == 0 {
		return 0, nil
	}
	msgs := make([]kafkago.Message, len(summaries))
	for i := range summaries {
		msg, err := serializeToMessage(summaries[i])
		if err != nil {
			return 0, err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, fmt.Errorf("write summaries: %w", err)
	}
	w.logger.Debug("summaries published", "report_id", report.ID, "count", len(msgs))
	return len(msgs), nil
}

// CheckReadiness dials the first reachable broker.
func (w *Writer) CheckReadiness(ctx context.Context) error {
	var errs []error
	for _, broker := range w.brokers {
		conn, err := kafkago.DialContext(ctx, "tcp", broker)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return conn.Close()
	}
	if len(errs) == 0 {
		return errors.New("no kafka brokers configured")
	}
	return fmt.Errorf("kafka unreachable: %w", errors.Join(errs...))
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Summary into a Kafka message.
func serializeToMessage(s domain.Summary) (kafkago.Message, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(s.Beach),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "report_id", Value: []byte(s.ReportID)},
			{Key: "classification", Value: []byte(s.Classification)},
			{Key: "generated_at", Value: []byte(s.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
