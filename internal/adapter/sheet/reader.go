// Package sheet reads uploaded survey spreadsheets into domain observations.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/shoreline-analysis/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Required column names, in the order they are reported when missing.
const (
	ColDate              = "Date"
	ColBeach             = "Beach"
	ColShorelinePosition = "Shoreline_Position"
	ColTideLevel         = "Tide_Level"
)

// RequiredColumns lists every column a survey sheet must carry.
var RequiredColumns = []string{ColDate, ColBeach, ColShorelinePosition, ColTideLevel}

var (
	// ErrNoValidRows means every row was dropped during coercion.
	ErrNoValidRows = errors.New("no valid data after cleaning")

	// ErrUnsupportedFormat is returned for file extensions other than .csv and .xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptySheet means the file has no header row.
	ErrEmptySheet = errors.New("sheet has no header row")
)

// MissingColumnsError names the required columns absent from the header.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// Format is an accepted spreadsheet encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the format from a file name's extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q (expected .csv or .xlsx)", ErrUnsupportedFormat, filename)
	}
}

// Result is a parsed sheet.
type Result struct {
	Columns      []string
	Observations []domain.Observation
	Rows         int // data rows read, before cleaning
	Dropped      int // rows discarded for a missing or invalid required cell
}

// Reader parses survey sheets. The zero value is ready to use.
type Reader struct{}

// NewReader returns a sheet Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read parses a sheet of the given format. dayFirst controls how ambiguous
// numeric dates such as 03/04/2024 are read.
func (r *Reader) Read(src io.Reader, format Format, dayFirst bool) (Result, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(src, dayFirst)
	case FormatXLSX:
		return ReadXLSX(src, dayFirst)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ReadCSV parses a comma-separated sheet. Rows may have differing lengths.
func ReadCSV(src io.Reader, dayFirst bool) (Result, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("read csv: %w", err)
	}
	return parseRows(rows, coercer{dayFirst: dayFirst})
}

// ReadXLSX parses the first worksheet of an Excel workbook. Cells are read
// raw so date cells arrive as Excel serial numbers.
func ReadXLSX(src io.Reader, dayFirst bool) (Result, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return Result{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, ErrEmptySheet
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return Result{}, fmt.Errorf("read xlsx sheet %q: %w", sheets[0], err)
	}
	return parseRows(rows, coercer{dayFirst: dayFirst, excelSerials: true})
}

// parseRows maps the header, checks required columns and coerces each row.
func parseRows(rows [][]string, c coercer) (Result, error) {
	if len(rows) == 0 {
		return Result{}, ErrEmptySheet
	}

	header := make([]string, len(rows[0]))
	colIdx := make(map[string]int, len(header))
	for i, h := range rows[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		header[i] = h
		if _, dup := colIdx[h]; !dup {
			colIdx[h] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return Result{}, &MissingColumnsError{Columns: missing}
	}

	res := Result{Columns: header}
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		res.Rows++

		o, ok := c.observation(row, colIdx, len(header))
		if !ok {
			res.Dropped++
			continue
		}
		res.Observations = append(res.Observations, o)
	}

	if len(res.Observations) == 0 {
		return res, ErrNoValidRows
	}
	return res, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
