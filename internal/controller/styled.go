package controller

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	m "github.com/mouse-blink/mdsift/internal/model"
)

// StyledUI renders headers and matches with terminal colours.
type StyledUI struct {
	output     io.Writer
	matchStyle lipgloss.Style
	pathStyle  lipgloss.Style
	titleStyle lipgloss.Style
}

// NewStyledUI creates a StyledUI whose colour profile follows output.
func NewStyledUI(output io.Writer) *StyledUI {
	r := lipgloss.NewRenderer(output)

	return &StyledUI{
		output:     output,
		matchStyle: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true).Inline(true).TabWidth(lipgloss.NoTabConversion), // Red
		pathStyle:  r.NewStyle().Foreground(lipgloss.Color("2")),            // Green
		titleStyle: r.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
	}
}

// Highlight colours a matched substring without changing its text. Each
// line is styled on its own since Render pads multi-line input to a block.
func (t *StyledUI) Highlight(s string) string {
	segments := strings.Split(s, "\n")

	for i, segment := range segments {
		if segment != "" {
			segments[i] = t.matchStyle.Render(segment)
		}
	}

	return strings.Join(segments, "\n")
}

// RenderHeader colours the file path.
func (t *StyledUI) RenderHeader(path m.Path) string {
	return t.pathStyle.Render(string(path))
}

// DisplayResult prints one file's matches.
func (t *StyledUI) DisplayResult(result m.MatchResult) error {
	return writeResult(t.output, t.RenderHeader(result.Path), result.Matches)
}

// DisplaySummary prints the summary table under a title.
func (t *StyledUI) DisplaySummary(summary m.Summary) error {
	_, err := io.WriteString(t.output, "\n"+t.titleStyle.Render("Search summary")+"\n"+summaryTable(summary))
	return err
}

// DisplayOutline prints the outline table.
func (t *StyledUI) DisplayOutline(outlines []m.FileOutline) error {
	if len(outlines) == 0 {
		_, err := io.WriteString(t.output, "No markdown files found\n")
		return err
	}

	_, err := io.WriteString(t.output, outlineTable(outlines))

	return err
}
