package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/mouse-blink/mdsift/internal/adapter"
	"github.com/mouse-blink/mdsift/internal/controller"
	m "github.com/mouse-blink/mdsift/internal/model"
)

// DefaultWorkers is the worker pool size used when none is configured.
const DefaultWorkers = 10

// DefaultExtensions selects the files searched inside a directory root.
var DefaultExtensions = []string{".md"}

// ListArgs selects the files to work on.
type ListArgs struct {
	Paths      []m.Path
	Extensions []string
}

// SearchArgs describes one search invocation.
type SearchArgs struct {
	ListArgs
	Keywords          string
	Delimiter         string
	CaseSensitive     bool
	ReplaceLineBreaks bool
	MatchContext      bool
	Workers           int
	Stats             bool
	// Cancel lets the caller stop the search explicitly. Optional.
	Cancel *CancelToken
}

// Workflow defines the search operations exposed to the CLI.
type Workflow interface {
	Search(ctx context.Context, args SearchArgs) (m.Summary, error)
	List(args ListArgs) error
}

type workflow struct {
	fsAdapter adapter.SourceFSAdapter
	ui        controller.UI
	logger    *slog.Logger
}

// NewWorkflow creates a Workflow reading files through fsAdapter and
// rendering through ui.
func NewWorkflow(fsAdapter adapter.SourceFSAdapter, ui controller.UI, logger *slog.Logger) Workflow {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &workflow{
		fsAdapter: fsAdapter,
		ui:        ui,
		logger:    logger,
	}
}

// Search validates the query and roots, then runs the worker pool. Setup
// errors are returned before any goroutine starts. Cancellation is not an
// error; the returned summary reports it.
func (w *workflow) Search(ctx context.Context, args SearchArgs) (m.Summary, error) {
	start := time.Now()

	query := m.ParseQuery(args.Keywords, args.Delimiter, args.CaseSensitive)

	matcher, err := NewMatcher(query, MatchOptions{
		Highlight:         w.ui.Highlight,
		ReplaceLineBreaks: args.ReplaceLineBreaks,
		MatchContext:      args.MatchContext,
	})
	if err != nil {
		return m.Summary{}, err
	}

	files, err := w.collect(args.ListArgs)
	if err != nil {
		return m.Summary{}, err
	}

	workers := args.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	w.logger.Debug("search started",
		slog.Any("terms", query.Terms),
		slog.Int("files", len(files)),
		slog.Int("workers", workers))

	p := newPipeline(w.fsAdapter, matcher, args.Cancel, w.logger, len(files), workers)

	summary, err := p.run(ctx, files, w.ui)
	summary.Elapsed = time.Since(start)

	if err != nil {
		return summary, err
	}

	w.logger.Debug("search finished",
		slog.Int("files", summary.Files),
		slog.Int("matches", summary.Matches),
		slog.Bool("cancelled", summary.Cancelled))

	if args.Stats {
		if err := w.ui.DisplaySummary(summary); err != nil {
			return summary, err
		}
	}

	return summary, nil
}

// List flattens every selected file and displays its outline.
func (w *workflow) List(args ListArgs) error {
	files, err := w.collect(args)
	if err != nil {
		return err
	}

	outlines := make([]m.FileOutline, 0, len(files))

	for _, path := range files {
		outlines = append(outlines, w.outline(path))
	}

	return w.ui.DisplayOutline(outlines)
}

func (w *workflow) outline(path m.Path) m.FileOutline {
	lines, err := w.fsAdapter.ReadLines(path)
	if err != nil {
		return m.FileOutline{Path: path, Err: fmt.Errorf("%w: %w", ErrUnreadableFile, err)}
	}

	blocks := Flatten(lines)
	outline := m.FileOutline{Path: path, Blocks: len(blocks)}

	for _, block := range blocks {
		if block.IsHeading() {
			outline.Headings++
		}
	}

	return outline
}

// collect resolves every root to its files, dropping duplicates.
func (w *workflow) collect(args ListArgs) ([]m.Path, error) {
	roots := args.Paths
	if len(roots) == 0 {
		roots = []m.Path{"."}
	}

	extensions := args.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	seen := make(map[m.Path]struct{})

	var files []m.Path

	for _, root := range roots {
		found, err := w.fsAdapter.ListFiles(root, extensions)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrInputNotFound, root)
			}

			return nil, fmt.Errorf("failed to list %s: %w", root, err)
		}

		for _, file := range found {
			if _, ok := seen[file]; ok {
				continue
			}

			seen[file] = struct{}{}
			files = append(files, file)
		}
	}

	return files, nil
}
