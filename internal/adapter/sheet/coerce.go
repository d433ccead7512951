package sheet

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/shoreline-analysis/internal/domain"
	"github.com/xuri/excelize/v2"
)

// isoLayouts are unambiguous and tried before the locale-dependent layouts.
var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/1/2",
	"2 Jan 2006",
	"2 January 2006",
	"2-Jan-2006",
	"2-Jan-06",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

var dayFirstLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2-1-2006 15:04",
}

var monthFirstLayouts = []string{
	"1/2/2006",
	"1-2-2006",
	"1.2.2006",
	"1/2/06",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1-2-2006 15:04",
}

// coercer converts raw cells into typed values, reporting failures as missing.
type coercer struct {
	dayFirst     bool
	excelSerials bool
}

// observation builds an Observation from a row. It returns false when any
// required cell is empty or fails coercion.
func (c coercer) observation(row []string, colIdx map[string]int, width int) (domain.Observation, bool) {
	date, okDate := c.date(cellAt(row, colIdx[ColDate]))
	beach := cellAt(row, colIdx[ColBeach])
	pos, okPos := number(cellAt(row, colIdx[ColShorelinePosition]))
	tide, okTide := number(cellAt(row, colIdx[ColTideLevel]))

	if !okDate || beach == "" || !okPos || !okTide {
		return domain.Observation{}, false
	}

	missing := 0
	for i := 0; i < width; i++ {
		if cellAt(row, i) == "" {
			missing++
		}
	}

	return domain.Observation{
		Date:              date,
		Beach:             beach,
		ShorelinePosition: pos,
		TideLevel:         tide,
		Cells:             width,
		MissingCells:      missing,
	}, true
}

// date parses ISO and textual forms first, then numeric forms in the
// configured day/month order. Workbook cells may also hold Excel serials.
func (c coercer) date(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	if c.excelSerials {
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			t, err := excelize.ExcelDateToTime(serial, false)
			if err != nil {
				return time.Time{}, false
			}
			return t.UTC(), true
		}
	}

	if t, ok := parseLayouts(s, isoLayouts); ok {
		return t, true
	}
	if c.dayFirst {
		return parseLayouts(s, dayFirstLayouts)
	}
	return parseLayouts(s, monthFirstLayouts)
}

func parseLayouts(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// number parses a float, treating NaN and infinities as missing.
func number(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, " ", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
