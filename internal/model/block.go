package model

import "strings"

// DefaultConnector joins heading texts when a ContextPath is rendered.
const DefaultConnector = " --> "

// ContextPath is the chain of enclosing heading texts, outermost first.
type ContextPath []string

// String joins the path with the given connector.
func (c ContextPath) String(connector string) string {
	return strings.Join(c, connector)
}

// Block is a contiguous span of document content labeled with the headings
// that enclose it. Body lines are separated by "\n".
type Block struct {
	Context ContextPath
	Body    string
}

// IsHeading reports whether the block was opened by a heading line.
func (b Block) IsHeading() bool {
	return strings.HasPrefix(b.Body, "#")
}
