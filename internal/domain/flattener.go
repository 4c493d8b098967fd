package domain

import (
	"strings"

	m "github.com/mouse-blink/mdsift/internal/model"
)

const (
	headingChar = '#'
	fenceMarker = "```"
)

// Flatten converts the heading hierarchy of a document into an ordered list
// of blocks. Every non-blank line ends up in exactly one block, in order.
// Heading-like lines inside fenced code are treated as plain content.
func Flatten(lines []string) []m.Block {
	f := flattener{}

	for _, line := range lines {
		f.feed(line)
	}

	f.flush()

	return f.blocks
}

type flattener struct {
	blocks []m.Block
	stack  []string
	label  string
	body   []string
	fenced bool
}

func (f *flattener) feed(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}

	switch {
	case isFence(line):
		f.fenced = !f.fenced
		f.body = append(f.body, trimmed)
	case isHeading(line) && !f.fenced:
		if len(f.body) > 0 {
			f.flush()
		}

		level := headingLevel(line)
		if level > len(f.stack) {
			f.stack = append(f.stack, f.label)
		} else {
			f.stack = f.stack[:level]
		}

		f.label = trimmed
		f.body = []string{trimmed}
	default:
		f.body = append(f.body, trimmed)
	}
}

// flush emits the pending block. The context is copied so later stack
// changes never reach an emitted block.
func (f *flattener) flush() {
	f.blocks = append(f.blocks, m.Block{
		Context: f.context(),
		Body:    strings.Join(f.body, "\n"),
	})

	f.body = nil
}

func (f *flattener) context() m.ContextPath {
	ctx := make(m.ContextPath, 0, len(f.stack))

	for _, label := range f.stack {
		// The empty label belongs to the root slot (preamble or nothing).
		if label == "" {
			continue
		}

		ctx = append(ctx, label)
	}

	return ctx
}

func isHeading(line string) bool {
	return len(line) > 0 && line[0] == headingChar
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), fenceMarker)
}

func headingLevel(line string) int {
	level := 0
	for level < len(line) && line[level] == headingChar {
		level++
	}

	return max(level, 1)
}
