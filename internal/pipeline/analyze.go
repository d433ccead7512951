package pipeline

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/shoreline-analysis/internal/domain"
)

// analyzeAll runs the per-beach analysis and records skipped beaches as
// report warnings.
func (p *Pipeline) analyzeAll(report *domain.Report, series []domain.Series, opts domain.Options) {
	report.Analyses = make([]domain.BeachAnalysis, 0, len(series))

	for _, s := range series {
		a, err := domain.Analyze(s.Beach, s.Observations, opts)
		if err != nil {
			p.skip(report, s, err)
			continue
		}

		report.Analyses = append(report.Analyses, a)
		p.metrics.BeachesAnalyzed.WithLabelValues(a.Classification.Label).Inc()
		if a.EarlyWarning {
			p.metrics.EarlyWarnings.Inc()
			p.logger.Warn("early warning raised",
				"report_id", report.ID,
				"beach", a.Beach,
				"net_change_m", a.NetChange,
				"rate_m_per_yr", a.Trend.Slope,
			)
		}
	}
}

func (p *Pipeline) skip(report *domain.Report, s domain.Series, err error) {
	var msg string
	switch {
	case errors.Is(err, domain.ErrInsufficientPoints):
		msg = fmt.Sprintf("%s skipped: %d survey(s), at least %d needed for a trend",
			s.Beach, len(s.Observations), report.Mode.MinPoints())
	case errors.Is(err, domain.ErrDegenerateTime):
		msg = fmt.Sprintf("%s skipped: all surveys fall on the same day", s.Beach)
	default:
		msg = fmt.Sprintf("%s skipped: %v", s.Beach, err)
	}

	report.Warnings = append(report.Warnings, msg)
	p.metrics.BeachesSkipped.Inc()
	p.logger.Warn("beach skipped", "report_id", report.ID, "beach", s.Beach, "error", err)
}
