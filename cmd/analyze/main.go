// Command analyze runs the shoreline analysis over a local survey sheet and
// prints the per-beach summary CSV to stdout. Skipped beaches and dropped
// rows are reported on stderr.
//
// Usage:
//
//	go run ./cmd/analyze -file data/survey.xlsx -mode comparison
//	go run ./cmd/analyze -file survey.csv -mode single -beach Kovalam -html report.html
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/shoreline-analysis/internal/adapter/sheet"
	"github.com/couchcryptid/shoreline-analysis/internal/domain"
	"github.com/couchcryptid/shoreline-analysis/internal/observability"
	"github.com/couchcryptid/shoreline-analysis/internal/pipeline"
	"github.com/couchcryptid/shoreline-analysis/internal/render"
)

type options struct {
	file         string
	mode         string
	policy       string
	beach        string
	threshold    float64
	period       int
	htmlOut      string
	renderConfig string
}

func main() {
	var o options
	flag.StringVar(&o.file, "file", "", "survey sheet (.csv or .xlsx)")
	flag.StringVar(&o.mode, "mode", string(domain.ModeComparison), "analysis mode: single or comparison")
	flag.StringVar(&o.policy, "policy", "", "classification table: fine or coarse (default: per mode)")
	flag.StringVar(&o.beach, "beach", "", "beach to analyze in single mode (default: first)")
	flag.Float64Var(&o.threshold, "threshold", domain.DefaultThresholdMeters, "retreat threshold in meters for the projection")
	flag.IntVar(&o.period, "period", domain.DefaultSeasonalPeriod, "seasonal period in samples")
	flag.StringVar(&o.htmlOut, "html", "", "also write the rendered HTML report to this path")
	flag.StringVar(&o.renderConfig, "render-config", "", "YAML presentation config for -html")
	flag.Parse()

	if o.file == "" {
		flag.Usage()
		os.Exit(2)
	}

	if code := run(o, observability.NewMetrics(), os.Stdout, os.Stderr); code != 0 {
		os.Exit(code)
	}
}

func run(o options, metrics *observability.Metrics, stdout, stderr io.Writer) int {
	mode, err := domain.ParseMode(o.mode)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 2
	}
	var policy domain.Policy
	if o.policy != "" {
		if policy, err = domain.ParsePolicy(o.policy); err != nil {
			fmt.Fprintf(stderr, "FATAL: %v\n", err)
			return 2
		}
	}

	f, err := os.Open(o.file)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}
	defer f.Close()

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	defaults := domain.Options{Mode: mode, ThresholdMeters: o.threshold, SeasonalPeriod: o.period}
	p := pipeline.New(sheet.NewReader(), nil, defaults, logger, metrics)

	report, err := p.Run(context.Background(), pipeline.Upload{
		Filename: o.file,
		Body:     f,
		Mode:     mode,
		Policy:   policy,
		Beach:    o.beach,
	})
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}

	if err := render.WriteSummaryCSV(stdout, report.Summaries()); err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}

	fmt.Fprintf(stderr, "%d rows read, %d dropped, %d beach(es) analyzed\n",
		report.Rows, report.DroppedRows, len(report.Analyses))
	for _, w := range report.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}
	for _, a := range report.Analyses {
		if a.EarlyWarning {
			fmt.Fprintf(stderr, "EARLY WARNING: %s shows consistent shoreline retreat\n", a.Beach)
		}
	}

	if o.htmlOut != "" {
		if err := writeHTML(o, report); err != nil {
			fmt.Fprintf(stderr, "FATAL: write html: %v\n", err)
			return 1
		}
	}
	return 0
}

func writeHTML(o options, report domain.Report) error {
	cfg := render.Default()
	if o.renderConfig != "" {
		var err error
		if cfg, err = render.Load(o.renderConfig); err != nil {
			return err
		}
	}
	r, err := render.NewRenderer(render.NewHolder(cfg))
	if err != nil {
		return err
	}

	out, err := os.Create(o.htmlOut)
	if err != nil {
		return err
	}
	if err := r.Report(out, report); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
