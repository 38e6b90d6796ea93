// Package core holds the yield, composition and renormalisation logic and
// the driver that iterates flavours and systematics.
package core

import (
	"fmt"
	"strings"
)

// ComposeSelection joins the non-empty selection parts into one predicate
// string. Every part must hold for a row to pass; no parts means every row
// passes (empty string).
func ComposeSelection(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return ""
	case 1:
		return kept[0]
	}
	wrapped := make([]string, len(kept))
	for i, p := range kept {
		wrapped[i] = "(" + p + ")"
	}
	return strings.Join(wrapped, " && ")
}

// ComposeWeight multiplies the nominal weight by a direction weight. The
// identity direction ("" or "1") leaves the nominal weight untouched, so the
// nominal computation and weight-kind variations share one code path.
func ComposeWeight(nominal, direction string) string {
	nominal = strings.TrimSpace(nominal)
	direction = strings.TrimSpace(direction)
	if direction == "" || direction == "1" {
		return nominal
	}
	if nominal == "" || nominal == "1" {
		return direction
	}
	return fmt.Sprintf("(%s)*(%s)", nominal, direction)
}
