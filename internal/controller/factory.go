package controller

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// NewUI creates a UI based on whether colour output is wanted.
// When useColor is true, it returns a StyledUI (lipgloss).
// When useColor is false, it returns a SimpleUI (plain text).
func NewUI(cmd *cobra.Command, useColor bool) UI {
	if useColor {
		return NewStyledUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is an interactive terminal. Writers that are not
// files (buffers, pipes wrapped in other writers) are never terminals.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	fd := file.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
