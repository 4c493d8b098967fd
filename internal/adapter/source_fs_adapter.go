// Package adapter contains the filesystem adapter used by the search workflow.
package adapter

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	m "github.com/mouse-blink/mdsift/internal/model"
)

const maxLineBytes = 4 * 1024 * 1024

// SourceFSAdapter abstracts the filesystem access the domain layer needs, so
// the workflow can be tested without touching the disk.
type SourceFSAdapter interface {
	// ListFiles returns the files under root whose names end with one of
	// extensions. A root that is itself a file is returned as-is.
	ListFiles(root m.Path, extensions []string) ([]m.Path, error)

	// ReadLines loads a file and splits it into lines without terminators.
	ReadLines(path m.Path) ([]string, error)

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)
}

// LocalSourceFSAdapter implements SourceFSAdapter on the local disk.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// ListFiles walks root recursively. Hidden directories are skipped and the
// result is sorted.
func (a *LocalSourceFSAdapter) ListFiles(root m.Path, extensions []string) ([]m.Path, error) {
	rootPath, err := normalizeRootPath(string(root))
	if err != nil {
		return nil, err
	}

	info, err := a.FileInfo(m.Path(rootPath))
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	if !info.IsDir() {
		return []m.Path{m.Path(rootPath)}, nil
	}

	var files []m.Path

	err = filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subdirectories are skipped, the root was checked above.
			if d != nil && d.IsDir() && path != rootPath {
				return filepath.SkipDir
			}

			return err
		}

		if d.IsDir() {
			if path != rootPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}

			return nil
		}

		if hasExtension(d.Name(), extensions) {
			files = append(files, m.Path(path))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	return files, nil
}

// ReadLines loads file contents from disk line by line.
func (a *LocalSourceFSAdapter) ReadLines(path m.Path) ([]string, error) {
	// #nosec G304 - path comes from the listed search roots
	f, err := os.Open(string(path))
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = f.Close()
	}()

	var lines []string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// ParseExtensions splits a comma separated list and adds missing dots.
func ParseExtensions(list string) []string {
	var exts []string

	for _, ext := range strings.Split(list, ",") {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}

		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}

		exts = append(exts, ext)
	}

	return exts
}

func hasExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}

	return false
}

func normalizeRootPath(root string) (string, error) {
	rootStr := root

	if strings.HasPrefix(rootStr, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		suffix := strings.TrimPrefix(rootStr, "~")
		suffix = strings.TrimPrefix(suffix, string(os.PathSeparator))
		rootStr = filepath.Join(home, suffix)
	}

	if rootStr == "" {
		rootStr = "."
	}

	return filepath.Clean(rootStr), nil
}
