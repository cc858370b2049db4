package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Success displays a success message.
func Success(format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(out, "✓ %s\n", fmt.Sprintf(format, args...))
}

// Error displays an error message to stderr.
func Error(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(errOut, "✗ %s\n", fmt.Sprintf(format, args...))
}

// Warning displays a warning message.
func Warning(format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(out, "⚠ %s\n", fmt.Sprintf(format, args...))
}

// Info displays an informational message.
func Info(format string, args ...interface{}) {
	color.New(color.FgCyan).Fprintf(out, "ℹ %s\n", fmt.Sprintf(format, args...))
}

// Debug displays a message only in verbose mode.
func Debug(format string, args ...interface{}) {
	if !verbose {
		return
	}
	color.New(color.Faint).Fprintf(errOut, "· %s\n", fmt.Sprintf(format, args...))
}

// Message displays plain text.
func Message(format string, args ...interface{}) {
	fmt.Fprintf(out, format, args...)
	fmt.Fprintln(out)
}

// Newline prints a newline.
func Newline() {
	fmt.Fprintln(out)
}

// Section displays a section header.
func Section(title string) {
	fmt.Fprintln(out)
	color.New(color.FgMagenta, color.Bold).Fprintf(out, "━━━ %s ━━━\n", title)
	fmt.Fprintln(out)
}

// KeyValue displays a key-value pair.
func KeyValue(key, value string) {
	if value == "" {
		value = "-"
	}
	color.New(color.FgYellow).Fprintf(out, "  %s: ", key)
	fmt.Fprintln(out, value)
}

// Table displays rows aligned under headers.
func Table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(headers, "\t"))

	separator := make([]string, len(headers))
	for i := range separator {
		separator[i] = strings.Repeat("-", utf8.RuneCountInString(headers[i]))
	}
	fmt.Fprintln(w, strings.Join(separator, "\t"))

	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	_ = w.Flush()
}

// Box displays text inside a border. Width is measured in runes, so wide
// Hangul glyphs may overhang the right edge on some terminals.
func Box(title, content string) {
	lines := strings.Split(content, "\n")
	width := utf8.RuneCountInString(title)
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > width {
			width = n
		}
	}
	if width < 40 {
		width = 40
	}

	border := color.New(color.FgCyan)
	horizontal := strings.Repeat("─", width+2)

	border.Fprintf(out, "┌%s┐\n", horizontal)
	if title != "" {
		border.Fprint(out, "│ ")
		color.New(color.Bold).Fprint(out, pad(title, width))
		border.Fprint(out, " │\n")
		border.Fprintf(out, "├%s┤\n", horizontal)
	}
	for _, line := range lines {
		border.Fprint(out, "│ ")
		fmt.Fprint(out, pad(line, width))
		border.Fprint(out, " │\n")
	}
	border.Fprintf(out, "└%s┘\n", horizontal)
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// FormatList formats items as numbered lines.
func FormatList(items []string) string {
	var sb strings.Builder
	for i, item := range items {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, item)
	}
	return sb.String()
}

// Chips renders quick-reply labels on one line.
func Chips(labels []string) {
	chip := color.New(color.FgBlue)
	for i, l := range labels {
		if i > 0 {
			fmt.Fprint(out, " ")
		}
		chip.Fprintf(out, "[%s]", l)
	}
	fmt.Fprintln(out)
}
