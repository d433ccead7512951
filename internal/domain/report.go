package domain

import "time"

// Report is the result of analyzing one uploaded sheet. It is rebuilt on
// every upload and never stored.
type Report struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	GeneratedAt time.Time       `json:"generated_at"`
	Mode        Mode            `json:"mode"`
	Policy      Policy          `json:"policy"`
	Beaches     []string        `json:"beaches"`
	Selected    string          `json:"selected,omitempty"`
	Analyses    []BeachAnalysis `json:"analyses"`
	Warnings    []string        `json:"warnings,omitempty"`
	Rows        int             `json:"rows"`
	DroppedRows int             `json:"dropped_rows"`
}

// NewReport starts a report stamped with the package clock.
func NewReport(id, source string, mode Mode, policy Policy) Report {
	return Report{
		ID:          id,
		Source:      source,
		GeneratedAt: Now(),
		Mode:        mode,
		Policy:      policy,
	}
}

// Summary is the flat one-row-per-beach view used for CSV export and publishing.
type Summary struct {
	ReportID         string    `json:"report_id"`
	Beach            string    `json:"beach"`
	Points           int       `json:"points"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	NetChange        float64   `json:"net_change_m"`
	Rate             float64   `json:"rate_m_per_yr"`
	Intercept        float64   `json:"intercept"`
	RSquared         float64   `json:"r2"`
	StdErr           float64   `json:"std_error"`
	Classification   string    `json:"classification"`
	EarlyWarning     bool      `json:"early_warning"`
	DataQuality      float64   `json:"data_quality_pct"`
	RiskIndex        *float64  `json:"risk_index,omitempty"`
	YearsToThreshold *float64  `json:"years_to_threshold,omitempty"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// Summaries flattens the report's analyses in beach order.
func (r Report) Summaries() []Summary {
	out := make([]Summary, len(r.Analyses))
	for i, a := range r.Analyses {
		out[i] = Summary{
			ReportID:         r.ID,
			Beach:            a.Beach,
			Points:           a.Points,
			Start:            a.Start,
			End:              a.End,
			NetChange:        a.NetChange,
			Rate:             a.Trend.Slope,
			Intercept:        a.Trend.Intercept,
			RSquared:         a.Trend.RSquared,
			StdErr:           a.Trend.StdErr,
			Classification:   a.Classification.Label,
			EarlyWarning:     a.EarlyWarning,
			DataQuality:      a.DataQuality,
			RiskIndex:        a.RiskIndex,
			YearsToThreshold: a.YearsToThreshold,
			GeneratedAt:      r.GeneratedAt,
		}
	}
	return out
}
