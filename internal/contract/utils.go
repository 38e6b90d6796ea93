package contract

import (
	"fmt"
	"math"
	"os"

	"github.com/fatih/color"
)

// Deviation-from-unity thresholds for coloring renormalisation values.
const (
	StrongShift   = 0.5
	ModerateShift = 0.2
)

// Color variables for console output.
var (
	strongColor    = color.New(color.FgRed, color.Bold) // far from unity, worth a second look
	moderateColor  = color.New(color.FgYellow)          // noticeable shift
	undefinedColor = color.New(color.FgRed, color.Bold) // zero nominal yield
)

// ColorRenorm returns the formatted renormalisation value, colored by how
// far it sits from unity. With colors disabled the text passes through
// unchanged.
func ColorRenorm(text string, value float64, useColors bool) string {
	if !useColors {
		return text
	}
	switch {
	case math.IsNaN(value):
		return undefinedColor.Sprint(text)
	case math.Abs(value-1) >= StrongShift:
		return strongColor.Sprint(text)
	case math.Abs(value-1) >= ModerateShift:
		return moderateColor.Sprint(text)
	}
	return text
}

// SelectOutputFile returns the file handle for output, falling back to
// stdout when no path is configured.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// TruncateName shortens a flavour or systematic name to a maximum width with
// an ellipsis suffix for narrow terminals.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if maxWidth > 3 && len(runes) > maxWidth {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s\n", msg)
}

// LogInfo logs a progress message to stderr, keeping stdout clean for the
// result table.
func LogInfo(msg string) {
	_, _ = fmt.Fprintf(os.Stderr, "Info %s\n", msg)
}
