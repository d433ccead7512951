// Command genmock writes a deterministic synthetic shoreline survey sheet for
// demos and fixtures. Each beach gets monthly surveys with a linear trend, an
// annual cycle and tide noise. A few rows are deliberately broken so the
// cleaning path is exercised. It uses the actual domain package to print the
// expected analysis of the generated data.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/survey.csv
//	go run ./cmd/genmock -out data/mock/survey.xlsx -years 5 -seed 7
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/shoreline-analysis/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/xuri/excelize/v2"
)

// beachDef describes how a synthetic beach behaves.
type beachDef struct {
	name      string
	base      float64 // shoreline position at the first survey, meters
	rate      float64 // meters per year
	amplitude float64 // annual cycle amplitude, meters
}

var beaches = []beachDef{
	{name: "Alappuzha", base: 30.0, rate: 0.35, amplitude: 0.4},
	{name: "Kovalam", base: 52.0, rate: -0.8, amplitude: 0.6},
	{name: "Marari", base: 44.5, rate: 0.02, amplitude: 0.3},
	{name: "Varkala", base: 40.0, rate: -0.25, amplitude: 0.5},
}

var header = []string{"Date", "Beach", "Shoreline_Position", "Tide_Level", "Surveyor"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path (.csv or .xlsx)")
	years := flag.Int("years", 3, "years of monthly surveys per beach")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *out == "" || *years < 1 {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	// Fixed clock so the last survey date is reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	rows, obs := generate(rand.New(rand.NewPCG(*seed, *seed^0x5eed)), *years)

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(*out)) {
	case ".csv":
		if err := writeCSV(*out, rows); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	case ".xlsx":
		if err := writeXLSX(*out, rows); err != nil {
			return fmt.Errorf("writing xlsx: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output extension %q", filepath.Ext(*out))
	}
	log.Printf("wrote %d rows to %s", len(rows), *out)

	printStats(obs)
	return nil
}

// generate returns the sheet rows (ISO dates) and the valid observations
// they encode.
func generate(rng *rand.Rand, years int) ([][]string, []domain.Observation) {
	months := years * 12
	end := domain.Now()
	start := end.AddDate(0, -(months - 1), 0)

	var rows [][]string
	var obs []domain.Observation

	for _, b := range beaches {
		for m := 0; m < months; m++ {
			date := start.AddDate(0, m, 0)
			t := float64(m) / 12
			tide := math.Round((rng.Float64()*1.6-0.4)*100) / 100
			pos := b.base + b.rate*t + b.amplitude*math.Sin(2*math.Pi*t) + tide + rng.NormFloat64()*0.05
			pos = math.Round(pos*100) / 100

			surveyor := []string{"AK", "RN", "SM"}[rng.IntN(3)]
			if rng.IntN(10) == 0 {
				surveyor = ""
			}

			row := []string{
				date.Format("2006-01-02"),
				b.name,
				strconv.FormatFloat(pos, 'f', 2, 64),
				strconv.FormatFloat(tide, 'f', 2, 64),
				surveyor,
			}

			// Roughly one row in forty is broken in a required cell.
			if rng.IntN(40) == 0 {
				row[2+rng.IntN(2)] = "n/a"
				rows = append(rows, row)
				continue
			}

			rows = append(rows, row)
			missing := 0
			if surveyor == "" {
				missing = 1
			}
			obs = append(obs, domain.Observation{
				Date:              date,
				Beach:             b.name,
				ShorelinePosition: pos,
				TideLevel:         tide,
				Cells:             len(header),
				MissingCells:      missing,
			})
		}
	}
	return rows, obs
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

// writeXLSX stores dates as real date cells and numbers as numeric cells,
// which is how survey workbooks usually arrive.
func writeXLSX(path string, rows [][]string) error {
	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	if err := wb.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = xlsxValue(j, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	return wb.SaveAs(path)
}

func xlsxValue(col int, v string) any {
	switch col {
	case 0:
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t
		}
	case 2, 3:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return v
}

func printStats(obs []domain.Observation) {
	fmt.Println("\n=== Expected analysis (comparison mode) ===")
	for _, s := range domain.GroupByBeach(obs) {
		a, err := domain.Analyze(s.Beach, s.Observations, domain.DefaultOptions(domain.ModeComparison))
		if err != nil {
			fmt.Printf("%-10s skipped: %v\n", s.Beach, err)
			continue
		}
		risk := "n/a"
		if a.RiskIndex != nil {
			risk = strconv.FormatFloat(*a.RiskIndex, 'f', 1, 64)
		}
		fmt.Printf("%-10s points=%d net=%+.2f rate=%+.3f r2=%.3f class=%q warning=%t risk=%s quality=%.1f%%\n",
			s.Beach, a.Points, a.NetChange, a.Trend.Slope, a.Trend.RSquared,
			a.Classification.Label, a.EarlyWarning, risk, a.DataQuality)
	}
}
