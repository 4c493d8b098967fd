package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	m "github.com/mouse-blink/mdsift/internal/model"
)

// ResultSink receives per-file results in arrival order.
type ResultSink interface {
	DisplayResult(result m.MatchResult) error
}

// LineReader loads the lines of a document.
type LineReader interface {
	ReadLines(path m.Path) ([]string, error)
}

// pipeline is the state of a single search: both queues, the cancellation
// token and the count of workers still running. It is built per call and
// handed to every worker and the printer.
type pipeline struct {
	tasks     *Queue[m.SearchTask]
	results   *Queue[m.MatchResult]
	token     *CancelToken
	remaining atomic.Int32
	workers   int

	reader  LineReader
	matcher *Matcher
	logger  *slog.Logger
}

func newPipeline(reader LineReader, matcher *Matcher, token *CancelToken, logger *slog.Logger, files, workers int) *pipeline {
	if workers <= 0 {
		workers = 1
	}

	if token == nil {
		token = NewCancelToken()
	}

	p := &pipeline{
		tasks:   NewQueue[m.SearchTask](files),
		results: NewQueue[m.MatchResult](workers),
		token:   token,
		workers: workers,
		reader:  reader,
		matcher: matcher,
		logger:  logger,
	}
	p.remaining.Store(int32(workers))

	return p
}

// run searches paths and streams results to sink. Results for different
// files arrive in completion order, not submission order.
func (p *pipeline) run(ctx context.Context, paths []m.Path, sink ResultSink) (m.Summary, error) {
	stop := context.AfterFunc(ctx, func() {
		if p.token.Cancel() {
			p.logger.Debug("search cancelled")
		}
	})
	defer stop()

	var summary m.Summary

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p.produce(gctx, paths)
		return nil
	})

	for id := range p.workers {
		g.Go(func() error {
			p.work(gctx, id)
			return nil
		})
	}

	g.Go(func() error {
		return p.print(sink, &summary)
	})

	err := g.Wait()
	summary.Cancelled = p.cancelled(ctx)

	return summary, err
}

func (p *pipeline) produce(ctx context.Context, paths []m.Path) {
	defer p.tasks.Close()

	for _, path := range paths {
		if err := p.tasks.Push(ctx, m.SearchTask{Path: path}); err != nil {
			p.logger.Debug("producer stopped", slog.String("error", err.Error()))
			return
		}
	}
}

func (p *pipeline) work(ctx context.Context, id int) {
	defer func() {
		if p.remaining.Add(-1) == 0 {
			p.results.Close()
		}
	}()

	for {
		task, err := p.tasks.Pop(ctx)
		if err != nil {
			return
		}

		if p.cancelled(ctx) {
			return
		}

		result := p.search(task.Path)

		// Work already in flight may finish, but nothing is published once
		// cancellation has been requested.
		if p.cancelled(ctx) {
			return
		}

		p.logger.Debug("publishing result",
			slog.Int("worker", id),
			slog.String("path", string(task.Path)),
			slog.Int("matches", len(result.Matches)))

		if err := p.results.Push(ctx, result); err != nil {
			return
		}
	}
}

// cancelled folds the context into the token so both signals are seen
// through one flag.
func (p *pipeline) cancelled(ctx context.Context) bool {
	if ctx.Err() != nil {
		p.token.Cancel()
	}

	return p.token.Cancelled()
}

func (p *pipeline) search(path m.Path) m.MatchResult {
	lines, err := p.reader.ReadLines(path)
	if err != nil {
		p.logger.Warn("skipping unreadable file",
			slog.String("path", string(path)),
			slog.String("error", err.Error()))

		return m.MatchResult{Path: path, Err: fmt.Errorf("%w: %w", ErrUnreadableFile, err)}
	}

	blocks := Flatten(lines)

	return m.MatchResult{
		Path:    path,
		Matches: p.matcher.Match(blocks),
		Blocks:  len(blocks),
	}
}

// print drains the result queue until it is closed. After a sink failure it
// keeps draining without displaying so workers never block on a full queue.
func (p *pipeline) print(sink ResultSink, summary *m.Summary) error {
	var sinkErr error

	for {
		result, err := p.results.Pop(context.Background())
		if errors.Is(err, ErrQueueClosed) {
			return sinkErr
		}

		summary.Add(result)

		if sinkErr != nil || len(result.Matches) == 0 {
			continue
		}

		if err := sink.DisplayResult(result); err != nil {
			sinkErr = fmt.Errorf("failed to display results for %s: %w", result.Path, err)
		}
	}
}
