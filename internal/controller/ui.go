// Package controller renders search results for the terminal.
package controller

import (
	m "github.com/mouse-blink/mdsift/internal/model"
)

// UI defines how search output is presented.
// Implementations can use different output methods (plain text, styled, etc).
type UI interface {
	// Highlight decorates a matched substring. It must be pure.
	Highlight(s string) string
	// RenderHeader decorates the file identifier printed above its matches.
	RenderHeader(path m.Path) string
	// DisplayResult prints the header, one line per match and a blank line.
	DisplayResult(result m.MatchResult) error
	// DisplaySummary prints aggregate counts for a finished search.
	DisplaySummary(summary m.Summary) error
	// DisplayOutline prints the files a search would cover.
	DisplayOutline(outlines []m.FileOutline) error
}
