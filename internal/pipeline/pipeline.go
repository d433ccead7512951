package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/shoreline-analysis/internal/adapter/sheet"
	"github.com/couchcryptid/shoreline-analysis/internal/domain"
	"github.com/couchcryptid/shoreline-analysis/internal/observability"
	"github.com/google/uuid"
)

// ErrUnknownBeach is returned in single mode when the requested beach is not in the sheet.
var ErrUnknownBeach = errors.New("unknown beach")

// Extractor parses an uploaded sheet into observations.
type Extractor interface {
	Read(src io.Reader, format sheet.Format, dayFirst bool) (sheet.Result, error)
}

// Publisher receives every finished report. It returns the number of
// summary rows written.
type Publisher interface {
	Publish(ctx context.Context, report domain.Report) (int, error)
}

// Upload is one analysis request.
type Upload struct {
	Filename string
	Body     io.Reader
	Mode     domain.Mode   // empty selects the configured default
	Policy   domain.Policy // empty selects the mode's default
	Beach    string        // single mode only; empty selects the first beach
}

// Pipeline turns uploads into reports.
type Pipeline struct {
	extractor Extractor
	publisher Publisher
	defaults  domain.Options
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. defaults supplies the mode, threshold and seasonal
// period used when an upload leaves them unset. Pass a nil publisher to
// disable summary publishing.
func New(e Extractor, pub Publisher, defaults domain.Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if pub != nil {
		metrics.PublisherEnabled.Set(1)
	} else {
		metrics.PublisherEnabled.Set(0)
	}
	return &Pipeline{
		extractor: e,
		publisher: pub,
		defaults:  defaults,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness delegates to the publisher when it can report readiness.
// Without a publisher the pipeline is always ready.
func (p *Pipeline) CheckReadiness(ctx context.Context) error {
	type readiness interface {
		CheckReadiness(ctx context.Context) error
	}
	if r, ok := p.publisher.(readiness); ok {
		return r.CheckReadiness(ctx)
	}
	return nil
}

// Run parses the upload and analyzes every beach in it (or the selected
// beach in single mode). Beaches with too few usable surveys are skipped
// with a warning rather than failing the report.
func (p *Pipeline) Run(ctx context.Context, up Upload) (domain.Report, error) {
	start := time.Now()

	opts, err := p.options(up)
	if err != nil {
		p.countUpload(up.Mode, err)
		return domain.Report{}, err
	}

	report, err := p.run(ctx, up, opts)
	p.countUpload(opts.Mode, err)
	if err != nil {
		return domain.Report{}, err
	}
	p.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	p.publish(ctx, report)
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, up Upload, opts domain.Options) (domain.Report, error) {
	format, err := sheet.DetectFormat(up.Filename)
	if err != nil {
		return domain.Report{}, err
	}

	res, err := p.extractor.Read(up.Body, format, opts.Mode.DayFirst())
	p.metrics.RowsRead.Add(float64(res.Rows))
	p.metrics.RowsDropped.Add(float64(res.Dropped))
	if err != nil {
		return domain.Report{}, fmt.Errorf("parse %s: %w", up.Filename, err)
	}
	if err := ctx.Err(); err != nil {
		return domain.Report{}, err
	}

	report := domain.NewReport(uuid.NewString(), up.Filename, opts.Mode, opts.Policy)
	report.Rows = res.Rows
	report.DroppedRows = res.Dropped

	series := domain.GroupByBeach(res.Observations)
	report.Beaches = domain.BeachNames(series)

	if opts.Mode == domain.ModeSingle {
		selected, err := selectBeach(series, up.Beach)
		if err != nil {
			return domain.Report{}, err
		}
		report.Selected = selected.Beach
		series = []domain.Series{selected}
	}

	p.analyzeAll(&report, series, opts)

	p.logger.Info("report generated",
		"report_id", report.ID,
		"source", report.Source,
		"mode", report.Mode,
		"rows", report.Rows,
		"dropped_rows", report.DroppedRows,
		"beaches", len(report.Analyses),
		"warnings", len(report.Warnings),
	)
	return report, nil
}

// options resolves the upload's mode and policy against the configured defaults.
func (p *Pipeline) options(up Upload) (domain.Options, error) {
	opts := p.defaults
	if opts.Mode == "" {
		opts.Mode = domain.ModeComparison
	}
	if up.Mode != "" {
		opts.Mode = up.Mode
	}
	if _, err := domain.ParseMode(string(opts.Mode)); err != nil {
		return domain.Options{}, err
	}

	opts.Policy = opts.Mode.DefaultPolicy()
	if up.Policy != "" {
		policy, err := domain.ParsePolicy(string(up.Policy))
		if err != nil {
			return domain.Options{}, err
		}
		opts.Policy = policy
	}

	if opts.ThresholdMeters <= 0 {
		opts.ThresholdMeters = domain.DefaultThresholdMeters
	}
	if opts.SeasonalPeriod == 0 {
		opts.SeasonalPeriod = domain.DefaultSeasonalPeriod
	}
	return opts, nil
}

func selectBeach(series []domain.Series, beach string) (domain.Series, error) {
	if beach == "" {
		return series[0], nil
	}
	for _, s := range series {
		if s.Beach == beach {
			return s, nil
		}
	}
	return domain.Series{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownBeach, beach, strings.Join(domain.BeachNames(series), ", "))
}

// publish hands the report to the publisher. Failures are logged and counted
// but never fail the upload.
func (p *Pipeline) publish(ctx context.Context, report domain.Report) {
	if p.publisher == nil || len(report.Analyses) == 0 {
		return
	}
	n, err := p.publisher.Publish(ctx, report)
	if err != nil {
		p.logger.Error("publish summaries failed", "report_id", report.ID, "error", err)
		p.metrics.PublishErrors.Inc()
		return
	}
	p.metrics.SummariesPublished.Add(float64(n))
}

func (p *Pipeline) countUpload(mode domain.Mode, err error) {
	if mode == "" {
		mode = p.defaults.Mode
	}
	p.metrics.Uploads.WithLabelValues(string(mode), Outcome(err)).Inc()
}

// Outcome classifies a Run error for metrics and HTTP status mapping:
// "ok", "user_error" for problems with the uploaded sheet or form, or "error".
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsUserError(err):
		return "user_error"
	default:
		return "error"
	}
}

// IsUserError reports whether err was caused by the upload itself.
func IsUserError(err error) bool {
	var mce *sheet.MissingColumnsError
	return errors.As(err, &mce) ||
		errors.Is(err, sheet.ErrNoValidRows) ||
		errors.Is(err, sheet.ErrEmptySheet) ||
		errors.Is(err, sheet.ErrUnsupportedFormat) ||
		errors.Is(err, ErrUnknownBeach) ||
		errors.Is(err, domain.ErrUnknownMode) ||
		errors.Is(err, domain.ErrUnknownPolicy)
}
