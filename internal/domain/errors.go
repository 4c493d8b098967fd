package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInputNotFound is returned when a search root does not exist.
	ErrInputNotFound = errors.New("input path not found")
	// ErrInvalidQuery is returned when a query term is not a valid pattern.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrEmptyQuery is returned for a query without terms. It wraps ErrInvalidQuery.
	ErrEmptyQuery = fmt.Errorf("%w: no search terms", ErrInvalidQuery)
	// ErrUnreadableFile marks a result whose file could not be read.
	ErrUnreadableFile = errors.New("unreadable file")
	// ErrQueueClosed is returned by Push after Close, and by Pop once a closed
	// queue has been drained.
	ErrQueueClosed = errors.New("queue closed")
)
