package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/abtech/carlytics"
)

// barWidth is the width of the longest bar, in characters.
const barWidth = 40

// renderCharts prints charts as text bars on stdout. A chart that failed to
// build is reported on stderr and skipped.
func renderCharts(stdout, stderr io.Writer, results []*carlytics.ChartResult) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "warning: could not render %q: %s\n", r.Title, carlytics.ErrorMessage(r.Err))
			continue
		}

		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, r.Title)
		if r.Chart == nil || r.Chart.Insufficient {
			fmt.Fprintln(stdout, "  insufficient data")
			continue
		}
		writeBars(stdout, r.Chart.Points)
	}
}

func writeBars(w io.Writer, points []carlytics.Point) {
	labelWidth := 0
	maxValue := 0.0
	for _, p := range points {
		labelWidth = max(labelWidth, utf8.RuneCountInString(p.Label))
		maxValue = max(maxValue, p.Value)
	}

	for _, p := range points {
		n := 0
		if maxValue > 0 {
			n = int(math.Round(p.Value / maxValue * barWidth))
		}
		pad := strings.Repeat(" ", labelWidth-utf8.RuneCountInString(p.Label))
		fmt.Fprintf(w, "  %s%s  %s %s\n", p.Label, pad, strings.Repeat("█", n), formatValue(p.Value))
	}
}

// formatValue prints whole numbers without decimals.
func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
