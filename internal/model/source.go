// Package model defines the data structures shared by the search pipeline.
package model

// Path represents a file system path. It doubles as the file identifier
// that flows through the task and result queues.
type Path string

// FileOutline describes a file as it would be searched, used by the list
// command.
type FileOutline struct {
	Path     Path
	Blocks   int
	Headings int
	Err      error
}
