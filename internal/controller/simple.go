package controller

import (
	"fmt"
	"io"
	"strings"

	m "github.com/mouse-blink/mdsift/internal/model"
	"github.com/spf13/cobra"
)

// SimpleUI implements UI as undecorated text written through the cobra
// command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Highlight returns s unchanged.
func (s *SimpleUI) Highlight(text string) string {
	return text
}

// RenderHeader returns the path unchanged.
func (s *SimpleUI) RenderHeader(path m.Path) string {
	return string(path)
}

// DisplayResult prints one file's matches.
func (s *SimpleUI) DisplayResult(result m.MatchResult) error {
	return writeResult(s.cmd.OutOrStdout(), s.RenderHeader(result.Path), result.Matches)
}

// DisplaySummary prints the summary table.
func (s *SimpleUI) DisplaySummary(summary m.Summary) error {
	return s.printf("\n%s", summaryTable(summary))
}

// DisplayOutline prints the outline table.
func (s *SimpleUI) DisplayOutline(outlines []m.FileOutline) error {
	if len(outlines) == 0 {
		return s.printf("No markdown files found\n")
	}

	return s.printf("%s", outlineTable(outlines))
}

func (s *SimpleUI) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
	return err
}

func writeResult(w io.Writer, header string, matches []string) error {
	var b strings.Builder

	b.WriteString(header)
	b.WriteString("\n")

	for _, match := range matches {
		b.WriteString(match)
		b.WriteString("\n")
	}

	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())

	return err
}
