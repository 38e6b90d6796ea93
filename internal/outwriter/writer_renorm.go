package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/hepworks/renorm/internal/contract"
	"github.com/hepworks/renorm/schema"
)

// writeRenormTable generates and writes the human-readable table.
func writeRenormTable(w io.Writer, rows []schema.RenormRow, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFloatFormatter(cfg.Precision)
	nameWidth := GetMaxNameWidth(cfg)

	table := tablewriter.NewWriter(w)
	table.Header(schema.CSVHeader)
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			contract.TruncateName(r.Flavour, nameWidth),
			contract.TruncateName(r.Systematic, nameWidth),
			fmtFloat(r.NominalYield),
			fmtFloat(r.SystYieldUp),
			fmtFloat(r.SystYieldDown),
			contract.ColorRenorm(fmtFloat(r.RenormUp), r.RenormUp, cfg.UseColors),
			contract.ColorRenorm(fmtFloat(r.RenormDown), r.RenormDown, cfg.UseColors),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d rows in %s\n", len(rows), duration.Round(time.Millisecond))
	return err
}

// writeRenormCSV writes the report to the configured CSV path with the
// fixed header. Values keep full float precision so downstream fits are not
// bound to the table's display precision.
func writeRenormCSV(rows []schema.RenormRow, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, schema.CSVHeader, func(cw *csv.Writer) error {
			for _, r := range rows {
				record := []string{
					r.Flavour,
					r.Systematic,
					formatCSVFloat(r.NominalYield),
					formatCSVFloat(r.SystYieldUp),
					formatCSVFloat(r.SystYieldDown),
					formatCSVFloat(r.RenormUp),
					formatCSVFloat(r.RenormDown),
				}
				if err := cw.Write(record); err != nil {
					return fmt.Errorf("failed to write CSV row: %w", err)
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

func formatCSVFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// writeWithFile handles the common pattern of opening a file, writing to it,
// and cleaning up.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "%s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeCSVWithHeader creates a CSV writer, writes the header, then the data
// rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	return writeRows(csvWriter)
}

// createFloatFormatter builds the float formatter for the configured
// precision.
func createFloatFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', precision, 64)
	}
}
