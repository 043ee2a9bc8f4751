// Package output provides terminal output formatting for the semversioner CLI.
// This package is kept small to avoid import cycles with the cli package.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// Successf prints a message for a completed operation.
func Successf(out io.Writer, format string, args ...any) {
	fmt.Fprintf(out, format+"\n", args...)
}

// Errorf prints an error message in red.
func Errorf(out io.Writer, format string, args ...any) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintln(out, red(fmt.Sprintf(format, args...)))
}

// Changef prints a pending change line in red, matching the status listing
// style. Long descriptions are truncated so each change stays on one
// terminal line.
func Changef(out io.Writer, changeType, description string) {
	line := fmt.Sprintf("\t%s:\t%s", changeType, description)
	if width := GetTerminalWidth(); len(line) > width && width > 3 {
		line = line[:width-3] + "..."
	}
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintln(out, red(line))
}

// PrintDeprecationWarning prints the legacy-layout warning banner: a yellow
// WARN badge, a magenta "deprecated" tag, then the migration hint.
func PrintDeprecationWarning(out io.Writer) {
	badge := color.New(color.BgYellow, color.FgBlack).SprintFunc()
	tag := color.New(color.FgMagenta).SprintFunc()
	fmt.Fprintf(out, "%s%s%s\n",
		badge("WARN"),
		tag(" deprecated "),
		"Semversioner now uses '.semversioner' directory instead of '.changes'. Please, rename it to remove this message.")
}
