package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/shoreline-analysis/internal/domain"
	"github.com/gosimple/slug"
)

// SummaryHeader is the column order of the summary CSV.
var SummaryHeader = []string{
	"Beach", "Points", "Start", "End",
	"Net_Change_m", "Rate_m_per_yr", "Intercept", "R2", "Std_Error",
	"Classification", "Early_Warning", "Data_Quality_pct",
	"Risk_Index", "Years_To_Threshold",
}

const dateLayout = "2006-01-02"

// WriteSummaryCSV writes one row per beach. Values are written at full
// precision; comparison-only columns are empty when not computed.
func WriteSummaryCSV(w io.Writer, summaries []domain.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range summaries {
		if err := cw.Write(summaryRecord(s)); err != nil {
			return fmt.Errorf("write csv row %s: %w", s.Beach, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func summaryRecord(s domain.Summary) []string {
	return []string{
		s.Beach,
		strconv.Itoa(s.Points),
		s.Start.Format(dateLayout),
		s.End.Format(dateLayout),
		formatFloat(s.NetChange),
		formatFloat(s.Rate),
		formatFloat(s.Intercept),
		formatFloat(s.RSquared),
		formatFloat(s.StdErr),
		s.Classification,
		strconv.FormatBool(s.EarlyWarning),
		formatFloat(s.DataQuality),
		formatOptional(s.RiskIndex),
		formatOptional(s.YearsToThreshold),
	}
}

// SummaryFilename names the CSV download after the source sheet.
func SummaryFilename(report domain.Report) string {
	base := filepath.Base(report.Source)
	name := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" {
		name = "shoreline"
	}
	return name + "-summary.csv"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
