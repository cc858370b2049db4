// Package ui provides terminal output helpers for the portal CLI.
package ui

import (
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	out     io.Writer = os.Stdout
	errOut  io.Writer = os.Stderr
	in      io.Reader = os.Stdin
	verbose bool
)

// InitUI initializes the UI with color and verbose settings.
func InitUI(noColor, verboseOutput bool) {
	verbose = verboseOutput
	if noColor {
		color.NoColor = true
	}
}

// Verbose reports whether verbose output was requested.
func Verbose() bool { return verbose }

// SetOutput redirects normal and error output. Used by tests.
func SetOutput(stdout, stderr io.Writer) {
	out = stdout
	errOut = stderr
}

// SetInput redirects prompt input. Used by tests.
func SetInput(r io.Reader) {
	in = r
	reader = nil
}

// Reset restores the process streams.
func Reset() {
	out = os.Stdout
	errOut = os.Stderr
	in = os.Stdin
	reader = nil
}
