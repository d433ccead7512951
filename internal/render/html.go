package render

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/couchcryptid/shoreline-analysis/internal/domain"
	"github.com/gosimple/slug"
)

//go:embed templates/*.html
var templatesFS embed.FS

var funcMap = template.FuncMap{
	"slug": slug.Make,
	"date": func(t time.Time) string { return t.Format(dateLayout) },
}

// Renderer executes the page templates against the active presentation config.
type Renderer struct {
	pages  map[string]*template.Template
	config *Holder
}

// NewRenderer parses the embedded templates. Each page is parsed together
// with the shared layout.
func NewRenderer(config *Holder) (*Renderer, error) {
	pages := make(map[string]*template.Template, 2)
	for _, name := range []string{"index.html", "report.html"} {
		tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return &Renderer{pages: pages, config: config}, nil
}

// IndexData fills the upload form. Error, when set, is shown above it.
type IndexData struct {
	Error       string
	DefaultMode domain.Mode
}

type indexView struct {
	IndexData
	Config   *Config
	Modes    []domain.Mode
	Policies []domain.Policy
}

// Index renders the upload form.
func (r *Renderer) Index(w io.Writer, data IndexData) error {
	if data.DefaultMode == "" {
		data.DefaultMode = domain.ModeComparison
	}
	return r.pages["index.html"].Execute(w, indexView{
		IndexData: data,
		Config:    r.config.Get(),
		Modes:     []domain.Mode{domain.ModeComparison, domain.ModeSingle},
		Policies:  []domain.Policy{domain.PolicyFine, domain.PolicyCoarse},
	})
}

type reportView struct {
	Config      *Config
	Report      domain.Report
	Beaches     []beachView
	Overview    template.URL
	CSV         template.URL
	CSVFilename string
	Reference   []domain.Classification
}

type beachView struct {
	domain.BeachAnalysis
	ID    string
	Chart template.URL
}

// Report renders a finished report with its charts, panels and CSV link.
func (r *Renderer) Report(w io.Writer, report domain.Report) error {
	cfg := r.config.Get()

	view := reportView{
		Config:      cfg,
		Report:      report,
		Beaches:     make([]beachView, 0, len(report.Analyses)),
		CSVFilename: SummaryFilename(report),
	}
	if cfg.ShowReference {
		view.Reference = report.Policy.Reference()
	}

	for _, a := range report.Analyses {
		svg, err := TimeSeriesChart(a, cfg)
		if err != nil {
			return fmt.Errorf("chart %s: %w", a.Beach, err)
		}
		view.Beaches = append(view.Beaches, beachView{
			BeachAnalysis: a,
			ID:            "beach-" + slug.Make(a.Beach),
			Chart:         dataURI("image/svg+xml", svg),
		})
	}

	if report.Mode == domain.ModeComparison && len(report.Analyses) > 1 {
		svg, err := NetChangeChart(report.Analyses, cfg)
		if err != nil {
			return err
		}
		view.Overview = dataURI("image/svg+xml", svg)
	}

	var csvBuf bytes.Buffer
	if err := WriteSummaryCSV(&csvBuf, report.Summaries()); err != nil {
		return err
	}
	view.CSV = dataURI("text/csv;charset=utf-8", csvBuf.Bytes())

	return r.pages["report.html"].Execute(w, view)
}

// Num formats a metric with the configured number of decimals.
func (v reportView) Num(f float64) string {
	return strconv.FormatFloat(f, 'f', v.Config.Decimals, 64)
}

// OptNum formats an optional metric, or "n/a" when it was not computed.
func (v reportView) OptNum(f *float64) string {
	if f == nil {
		return "n/a"
	}
	return v.Num(*f)
}

func dataURI(mediaType string, data []byte) template.URL {
	return template.URL("data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data))
}
