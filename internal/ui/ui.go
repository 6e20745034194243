package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Palette: ontologies are blue, mapping arcs magenta, counts cyan.
var (
	Brand  = color.New(color.FgHiBlue, color.Bold)
	Node   = color.New(color.FgHiBlue)
	Arc    = color.New(color.FgMagenta)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// Mark is the two-way mapping arrow used as the ontomap logo.
const Mark = "⇄"

// Banner prints the ontomap banner.
func Banner(subtitle string) {
	fmt.Printf("%s %s %s %s\n\n", Arc.Sprint(Mark), Brand.Sprint("ontomap"), Subtle.Sprint("·"), subtitle)
}

// Mapping renders a directed mapping between two ontologies.
func Mapping(source, target string) string {
	return Node.Sprint(source) + Arc.Sprint(" → ") + Node.Sprint(target)
}

// Count formats a mapping count with thousands separators.
func Count(n int) string {
	digits := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, digits = "-", digits[1:]
	}
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}

// OutcomeIcon returns the icon for an expansion outcome name.
func OutcomeIcon(outcome string) string {
	switch outcome {
	case "applied":
		return Good.Sprint("✓")
	case "stale":
		return Subtle.Sprint("↺")
	case "failed":
		return Bad.Sprint("✗")
	default:
		return Subtle.Sprint("…")
	}
}

// Table prints a simple aligned table to stdout.
func Table(headers []string, rows [][]string) {
	TableTo(os.Stdout, headers, rows)
}

// TableTo prints a simple aligned table to w. Cells are plain text; widths
// are counted in runes.
func TableTo(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}

	var header, sep strings.Builder
	header.WriteString("  ")
	sep.WriteString("  ")
	for i, h := range headers {
		fmt.Fprintf(&header, "%-*s  ", widths[i], h)
		sep.WriteString(strings.Repeat("─", widths[i]) + "  ")
	}
	Subtle.Fprintln(w, strings.TrimRight(header.String(), " "))
	Subtle.Fprintln(w, strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var line strings.Builder
		line.WriteString("  ")
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(&line, "%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

// StatusIcon returns a status icon string.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("✓")
	}
	return Bad.Sprint("✗")
}

// WarnIcon returns a warning icon.
func WarnIcon() string {
	return Warn.Sprint("⚠")
}
