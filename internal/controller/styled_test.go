package controller

import (
	"bytes"
	"os"
	"regexp"
	"strings"
	"testing"

	m "github.com/mouse-blink/mdsift/internal/model"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyledUI_DisplayResultKeepsShape(t *testing.T) {
	var buf bytes.Buffer

	ui := NewStyledUI(&buf)

	err := ui.DisplayResult(m.MatchResult{Path: "a.md", Matches: []string{"one", "two"}})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "a.md")
	assert.True(t, strings.HasSuffix(buf.String(), "\none\ntwo\n\n"), "unexpected output %q", buf.String())
	assert.Contains(t, ui.Highlight("needle"), "needle")
	assert.Contains(t, ui.RenderHeader("a.md"), "a.md")
}

func TestStyledUI_HighlightKeepsText(t *testing.T) {
	ui := NewStyledUI(&bytes.Buffer{})

	tests := []struct {
		name    string
		pattern string
		body    string
	}{
		{name: "match across a line break", pattern: `foo\s+bar`, body: "# Notes\nfoo\nbarbaz"},
		{name: "tab inside a match", pattern: `a\tb`, body: "x a\tb y"},
		{name: "match ending in a line break", pattern: `end\n`, body: "the end\nnext"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := regexp.MustCompile(tt.pattern)

			got := re.ReplaceAllStringFunc(tt.body, ui.Highlight)
			assert.Equal(t, tt.body, got)
		})
	}

	assert.Equal(t, "foo\nbarbaz", ui.Highlight("foo\nbarbaz"))
	assert.Equal(t, "a\tb", ui.Highlight("a\tb"))
}

func TestStyledUI_DisplaySummaryAndOutline(t *testing.T) {
	var buf bytes.Buffer

	ui := NewStyledUI(&buf)

	require.NoError(t, ui.DisplaySummary(m.Summary{Files: 2, Matches: 5}))
	assert.Contains(t, buf.String(), "Search summary")
	assert.Contains(t, buf.String(), "Files searched")

	buf.Reset()
	require.NoError(t, ui.DisplayOutline([]m.FileOutline{{Path: "x.md", Blocks: 2, Headings: 1}}))
	assert.Contains(t, buf.String(), "x.md")

	buf.Reset()
	require.NoError(t, ui.DisplayOutline(nil))
	assert.Equal(t, "No markdown files found\n", buf.String())
}

func TestNewUI(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	_, styled := NewUI(cmd, true).(*StyledUI)
	assert.True(t, styled, "colour output should use StyledUI")

	_, simple := NewUI(cmd, false).(*SimpleUI)
	assert.True(t, simple, "plain output should use SimpleUI")
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}), "buffers are not terminals")

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)

	defer func() { _ = f.Close() }()

	assert.False(t, IsTTY(f), "regular files are not terminals")
}
