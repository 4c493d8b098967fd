package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/mdsift/internal/adapter"
	m "github.com/mouse-blink/mdsift/internal/model"
)

// memFS serves documents from memory and counts how it is used.
type memFS struct {
	files  map[m.Path]string
	broken map[m.Path]bool
	onRead func(path m.Path, n int64)
	lists  atomic.Int64
	reads  atomic.Int64
}

func newMemFS(files map[m.Path]string) *memFS {
	return &memFS{files: files, broken: map[m.Path]bool{}}
}

func (f *memFS) ListFiles(root m.Path, extensions []string) ([]m.Path, error) {
	f.lists.Add(1)

	if root == "missing" {
		return nil, fmt.Errorf("root path error: %w", fs.ErrNotExist)
	}

	var out []m.Path

	for path := range f.files {
		for _, ext := range extensions {
			if strings.HasSuffix(string(path), ext) {
				out = append(out, path)
				break
			}
		}
	}

	for path := range f.broken {
		out = append(out, path)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out, nil
}

func (f *memFS) ReadLines(path m.Path) ([]string, error) {
	n := f.reads.Add(1)

	if f.onRead != nil {
		f.onRead(path, n)
	}

	if f.broken[path] {
		return nil, errors.New("permission denied")
	}

	doc, ok := f.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}

	return strings.Split(doc, "\n"), nil
}

func (f *memFS) FileInfo(_ m.Path) (os.FileInfo, error) {
	return nil, fs.ErrNotExist
}

// recordingUI collects everything the workflow displays.
type recordingUI struct {
	mu       sync.Mutex
	results  []m.MatchResult
	summary  *m.Summary
	outlines []m.FileOutline
	failWith error
}

func (u *recordingUI) Highlight(s string) string { return "<" + s + ">" }

func (u *recordingUI) RenderHeader(path m.Path) string { return string(path) }

func (u *recordingUI) DisplayResult(result m.MatchResult) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.failWith != nil {
		return u.failWith
	}

	u.results = append(u.results, result)

	return nil
}

func (u *recordingUI) DisplaySummary(summary m.Summary) error {
	u.summary = &summary
	return nil
}

func (u *recordingUI) DisplayOutline(outlines []m.FileOutline) error {
	u.outlines = outlines
	return nil
}

func manyFiles(n int) map[m.Path]string {
	files := make(map[m.Path]string, n)
	for i := range n {
		files[m.Path(fmt.Sprintf("notes/%03d.md", i))] = fmt.Sprintf("# Note %d\nneedle %d\n## Other\nhay", i, i)
	}

	return files
}

func searchArgs(keywords string) SearchArgs {
	return SearchArgs{
		ListArgs: ListArgs{Paths: []m.Path{"notes"}},
		Keywords: keywords,
	}
}

func TestSearch_NoLossNoDuplication(t *testing.T) {
	const files = 200

	for _, workers := range []int{1, 4, 50} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			fsys := newMemFS(manyFiles(files))
			ui := &recordingUI{}
			wf := NewWorkflow(fsys, ui, nil)

			args := searchArgs("needle")
			args.Workers = workers

			summary, err := wf.Search(context.Background(), args)
			require.NoError(t, err)

			require.Len(t, ui.results, files)

			seen := make(map[m.Path]int)
			for _, r := range ui.results {
				seen[r.Path]++

				require.Len(t, r.Matches, 1)
				assert.Contains(t, r.Matches[0], "<needle>")
			}

			for path, n := range seen {
				assert.Equal(t, 1, n, "%s reported %d times", path, n)
			}

			assert.Equal(t, files, summary.Files)
			assert.Equal(t, files, summary.FilesMatched)
			assert.Equal(t, files*2, summary.Blocks)
			assert.False(t, summary.Cancelled)
		})
	}
}

func TestSearch_FilesWithoutMatchesAreNotDisplayed(t *testing.T) {
	fsys := newMemFS(map[m.Path]string{
		"notes/a.md": "# One\nfirst\n# Two\nsecond",
		"notes/b.md": "# Three\nthe needle",
	})
	ui := &recordingUI{}

	summary, err := NewWorkflow(fsys, ui, nil).Search(context.Background(), searchArgs("needle"))
	require.NoError(t, err)

	require.Len(t, ui.results, 1)
	assert.Equal(t, m.Path("notes/b.md"), ui.results[0].Path)
	assert.Equal(t, []string{"# Three\nthe <needle>"}, ui.results[0].Matches)
	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 1, summary.FilesMatched)
}

func TestSearch_InvalidQueryFailsBeforeWork(t *testing.T) {
	for _, keywords := range []string{"ok (broken", "", "   "} {
		t.Run(fmt.Sprintf("%q", keywords), func(t *testing.T) {
			fsys := newMemFS(manyFiles(3))
			ui := &recordingUI{}

			_, err := NewWorkflow(fsys, ui, nil).Search(context.Background(), searchArgs(keywords))

			require.ErrorIs(t, err, ErrInvalidQuery)
			assert.Zero(t, fsys.lists.Load(), "files must not be listed for an invalid query")
			assert.Zero(t, fsys.reads.Load())
			assert.Empty(t, ui.results)
		})
	}
}

func TestSearch_InputNotFound(t *testing.T) {
	fsys := newMemFS(manyFiles(3))
	ui := &recordingUI{}

	args := searchArgs("needle")
	args.Paths = []m.Path{"missing"}

	_, err := NewWorkflow(fsys, ui, nil).Search(context.Background(), args)

	require.ErrorIs(t, err, ErrInputNotFound)
	assert.Contains(t, err.Error(), "missing")
	assert.Zero(t, fsys.reads.Load())
	assert.Empty(t, ui.results)
}

func TestSearch_UnreadableFileIsIsolated(t *testing.T) {
	fsys := newMemFS(manyFiles(5))
	fsys.broken["notes/locked.md"] = true
	ui := &recordingUI{}

	args := searchArgs("needle")
	args.Workers = 2

	summary, err := NewWorkflow(fsys, ui, nil).Search(context.Background(), args)
	require.NoError(t, err)

	assert.Len(t, ui.results, 5)
	assert.Equal(t, 6, summary.Files)
	assert.Equal(t, 1, summary.Unreadable)
}

func TestSearch_CancelStopsClaimingTasks(t *testing.T) {
	token := NewCancelToken()
	fsys := newMemFS(manyFiles(20))
	fsys.onRead = func(_ m.Path, n int64) {
		if n == 3 {
			token.Cancel()
		}
	}
	ui := &recordingUI{}

	args := searchArgs("needle")
	args.Workers = 1
	args.Cancel = token

	summary, err := NewWorkflow(fsys, ui, nil).Search(context.Background(), args)
	require.NoError(t, err, "cancellation is not an error")

	assert.True(t, summary.Cancelled)
	assert.Equal(t, int64(3), fsys.reads.Load(), "no task may start after cancellation")
	assert.Len(t, ui.results, 2, "the in-flight task must not publish")
	assert.Equal(t, 2, summary.Files)
}

func TestSearch_CancelWithManyWorkers(t *testing.T) {
	const workers = 8

	token := NewCancelToken()
	fsys := newMemFS(manyFiles(500))

	var afterCancel atomic.Int64

	fsys.onRead = func(_ m.Path, n int64) {
		if token.Cancelled() {
			afterCancel.Add(1)
		}

		if n == 10 {
			token.Cancel()
		}
	}

	args := searchArgs("needle")
	args.Workers = workers
	args.Cancel = token

	summary, err := NewWorkflow(fsys, &recordingUI{}, nil).Search(context.Background(), args)
	require.NoError(t, err)

	assert.True(t, summary.Cancelled)
	assert.Less(t, summary.Files, 500)
	// A worker may have claimed its task just before the flag was set.
	assert.LessOrEqual(t, afterCancel.Load(), int64(workers-1))
}

func TestSearch_CancelledContext(t *testing.T) {
	fsys := newMemFS(manyFiles(50))
	ui := &recordingUI{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	args := searchArgs("needle")
	args.Workers = 4

	summary, err := NewWorkflow(fsys, ui, nil).Search(ctx, args)
	require.NoError(t, err)

	assert.True(t, summary.Cancelled)
	assert.Zero(t, fsys.reads.Load())
	assert.Empty(t, ui.results)
}

func TestSearch_SinkFailureDoesNotDeadlock(t *testing.T) {
	fsys := newMemFS(manyFiles(100))
	ui := &recordingUI{failWith: errors.New("broken pipe")}

	args := searchArgs("needle")
	args.Workers = 4

	done := make(chan error, 1)

	go func() {
		_, err := NewWorkflow(fsys, ui, nil).Search(context.Background(), args)
		done <- err
	}()

	select {
	case err := <-done:
		require.ErrorContains(t, err, "broken pipe")
		assert.Equal(t, int64(100), fsys.reads.Load())
	case <-time.After(5 * time.Second):
		t.Fatal("search did not finish after the sink failed")
	}
}

func TestSearch_Stats(t *testing.T) {
	fsys := newMemFS(manyFiles(4))
	ui := &recordingUI{}

	args := searchArgs("needle")
	args.Stats = true

	_, err := NewWorkflow(fsys, ui, nil).Search(context.Background(), args)
	require.NoError(t, err)

	require.NotNil(t, ui.summary)
	assert.Equal(t, 4, ui.summary.Matches)
}

func TestSearch_DuplicateRootsSearchedOnce(t *testing.T) {
	fsys := newMemFS(manyFiles(3))
	ui := &recordingUI{}

	args := searchArgs("needle")
	args.Paths = []m.Path{"notes", "notes"}

	summary, err := NewWorkflow(fsys, ui, nil).Search(context.Background(), args)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Files)
	assert.Equal(t, int64(3), fsys.reads.Load())
}

func TestSearch_LocalFiles(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "guide.md"), "# Setup\nInstall docker\n## Volumes\ndocker volume create data\n```sh\n# docker volume ls\n```\n")
	writeFile(t, filepath.Join(root, "sub", "other.md"), "# Misc\nnothing here\n")
	writeFile(t, filepath.Join(root, "skip.txt"), "docker volume\n")
	writeFile(t, filepath.Join(root, ".git", "hidden.md"), "docker volume\n")

	ui := &recordingUI{}
	wf := NewWorkflow(adapter.NewLocalSourceFSAdapter(), ui, nil)

	args := SearchArgs{
		ListArgs: ListArgs{Paths: []m.Path{m.Path(root)}},
		Keywords: "docker volume",
		Workers:  3,
	}

	summary, err := wf.Search(context.Background(), args)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Files)
	require.Len(t, ui.results, 1)
	assert.Equal(t, m.Path(filepath.Join(root, "guide.md")), ui.results[0].Path)
	assert.Equal(t, []string{
		"# Setup --> ## <Volume>s\n<docker> <volume> create data\n```sh\n# <docker> <volume> ls\n```",
	}, ui.results[0].Matches)
}

func TestList(t *testing.T) {
	fsys := newMemFS(map[m.Path]string{
		"notes/a.md": "intro\n# One\nx\n## Two\ny",
		"notes/b.md": "plain text",
	})
	fsys.broken["notes/c.md"] = true
	ui := &recordingUI{}

	err := NewWorkflow(fsys, ui, nil).List(ListArgs{Paths: []m.Path{"notes"}})
	require.NoError(t, err)

	require.Len(t, ui.outlines, 3)
	assert.Equal(t, m.FileOutline{Path: "notes/a.md", Blocks: 3, Headings: 2}, ui.outlines[0])
	assert.Equal(t, m.FileOutline{Path: "notes/b.md", Blocks: 1, Headings: 0}, ui.outlines[1])
	require.ErrorIs(t, ui.outlines[2].Err, ErrUnreadableFile)
}

func TestList_InputNotFound(t *testing.T) {
	err := NewWorkflow(newMemFS(nil), &recordingUI{}, nil).List(ListArgs{Paths: []m.Path{"missing"}})
	require.ErrorIs(t, err, ErrInputNotFound)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
