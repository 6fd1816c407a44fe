package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/diillson/es-profile-report/internal/domain/entity"
)

// Indent is the unit repeated once per tree level.
const Indent = "   "

// FormatNode formats the report line of a node and, when verbose is set,
// one extra line per breakdown entry.
func FormatNode(n entity.FlatNode, verbose bool) []string {
	indent := strings.Repeat(Indent, n.Depth)

	lines := []string{fmt.Sprintf("%s> %s ms (%d %%) %s",
		indent,
		FormatMillis(n.TimeInNanos),
		Percent(n),
		n.Description,
	)}

	if verbose && n.Breakdown != nil && n.Breakdown.Len() > 0 {
		for pair := n.Breakdown.Oldest(); pair != nil; pair = pair.Next() {
			lines = append(lines, fmt.Sprintf("%s %s: %s", indent, pair.Key, FormatNumber(pair.Value)))
		}
	}

	return lines
}

// Percent returns the share of the parent duration spent in the node,
// truncated towards zero. Roots are always 100. A zero parent duration
// yields 0.
func Percent(n entity.FlatNode) int64 {
	if n.ParentDuration == nil {
		return 100
	}
	parent := *n.ParentDuration
	if parent == 0 {
		return 0
	}
	return int64(float64(n.TimeInNanos) * 100.0 / float64(parent))
}

// FormatMillis divides the nanosecond duration by 1000 and formats it.
// The value is labelled "ms" in reports even though it is microseconds;
// existing reports are compared against this output.
// The quotient is rounded once, so durations above 2^53 ns stay exact to
// the last printed digit.
func FormatMillis(nanos int64) string {
	f, _ := new(big.Rat).SetFrac64(nanos, 1000).Float64()
	return formatFloat(f)
}

// FormatNumber formats a breakdown value. Integer literals are printed with
// all their digits, whatever their size.
func FormatNumber(v json.Number) string {
	s := v.String()
	if isIntegerLiteral(s) {
		if s == "-0" {
			return "0"
		}
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !math.IsInf(f, 0) {
		return s
	}
	return formatFloat(f)
}

func isIntegerLiteral(s string) bool {
	digits := strings.TrimPrefix(s, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// formatFloat prints the shortest representation that round-trips, always
// with a fractional part or an exponent ("2.0", "0.5", "1e-05").
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
