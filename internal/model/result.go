package model

import "time"

// SearchTask is a file waiting in the task queue.
type SearchTask struct {
	Path Path
}

// MatchResult holds the display strings produced for one file, in document
// order. Err is set when the file could not be read.
type MatchResult struct {
	Path    Path
	Matches []string
	Blocks  int
	Err     error
}

// Summary aggregates the results drained by the printer.
type Summary struct {
	Files        int
	FilesMatched int
	Blocks       int
	Matches      int
	Unreadable   int
	Cancelled    bool
	Elapsed      time.Duration
}

// Add folds one result into the summary.
func (s *Summary) Add(r MatchResult) {
	s.Files++
	s.Blocks += r.Blocks
	s.Matches += len(r.Matches)

	if r.Err != nil {
		s.Unreadable++
	}

	if len(r.Matches) > 0 {
		s.FilesMatched++
	}
}
