package domain

import (
	"fmt"
	"regexp"
	"strings"

	m "github.com/mouse-blink/mdsift/internal/model"
)

// LineBreakMarker replaces line breaks when matches are printed on one line.
const LineBreakMarker = ` \n `

// Highlighter decorates a matched substring. It must be pure.
type Highlighter func(string) string

// MatchOptions controls how matching blocks are rendered.
type MatchOptions struct {
	// Highlight decorates each matched substring. Nil leaves text unchanged.
	Highlight Highlighter
	// ReplaceLineBreaks collapses every block onto a single output line.
	ReplaceLineBreaks bool
	// MatchContext searches the heading context as well as the body.
	MatchContext bool
	// Connector joins context headings. Empty means m.DefaultConnector.
	Connector string
}

// Matcher evaluates a compiled conjunctive query against blocks.
type Matcher struct {
	terms []*regexp.Regexp
	opts  MatchOptions
}

// NewMatcher compiles every term of query up front so an invalid pattern is
// reported before any file is searched. Queries without terms are rejected.
func NewMatcher(query m.Query, opts MatchOptions) (*Matcher, error) {
	if len(query.Terms) == 0 {
		return nil, ErrEmptyQuery
	}

	terms := make([]*regexp.Regexp, 0, len(query.Terms))

	for _, term := range query.Terms {
		expr := term
		if !query.CaseSensitive {
			expr = "(?i)" + expr
		}

		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: term %q: %w", ErrInvalidQuery, term, err)
		}

		terms = append(terms, re)
	}

	if opts.Highlight == nil {
		opts.Highlight = func(s string) string { return s }
	}

	if opts.Connector == "" {
		opts.Connector = m.DefaultConnector
	}

	return &Matcher{terms: terms, opts: opts}, nil
}

// Match returns one display string per matching block, in block order.
func (mt *Matcher) Match(blocks []m.Block) []string {
	var out []string

	for _, block := range blocks {
		if display, ok := mt.matchBlock(block); ok {
			out = append(out, display)
		}
	}

	return out
}

func (mt *Matcher) matchBlock(block m.Block) (string, bool) {
	prefix := ""
	if len(block.Context) > 0 {
		prefix = block.Context.String(mt.opts.Connector) + mt.opts.Connector
	}

	working := block.Body
	if mt.opts.MatchContext {
		working = prefix + working
		prefix = ""
	}

	for _, re := range mt.terms {
		if !re.MatchString(working) {
			return "", false
		}

		working = Highlight(working, re, mt.opts.Highlight)
	}

	if mt.opts.ReplaceLineBreaks {
		working = replaceLineBreaks(working)
	}

	return prefix + working, true
}

// Highlight replaces every non-empty match of re in text with its decorated
// form.
func Highlight(text string, re *regexp.Regexp, decorate Highlighter) string {
	return re.ReplaceAllStringFunc(text, func(s string) string {
		if s == "" {
			return s
		}

		return decorate(s)
	})
}

var lineBreakReplacer = strings.NewReplacer("\r\n", LineBreakMarker, "\n", LineBreakMarker, "\r", LineBreakMarker)

func replaceLineBreaks(s string) string {
	return lineBreakReplacer.Replace(s)
}
