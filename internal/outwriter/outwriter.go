// Package outwriter renders renormalisation reports to the terminal and to
// CSV.
package outwriter

import (
	"os"
	"time"

	"golang.org/x/term"

	"github.com/hepworks/renorm/internal/contract"
	"github.com/hepworks/renorm/schema"
)

// OutWriter provides the output operations for a finished run.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints the human-readable table to stdout and writes the CSV
// file. The CSV is only written once the whole report exists, so a failed
// run never leaves a partial table behind.
func (ow *OutWriter) WriteReport(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	if err := writeRenormTable(os.Stdout, report.Rows, cfg, duration); err != nil {
		return err
	}
	return writeRenormCSV(report.Rows, cfg)
}

// GetMaxNameWidth calculates the maximum width for flavour and systematic
// names in table output based on terminal width.
func GetMaxNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Five numeric columns plus borders and padding claim most of the line;
	// the remainder is split between the two name columns.
	available := (termWidth - 60) / 2
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}
