package domain

import "sync/atomic"

// CancelToken is a set-once flag read by every worker without locking.
type CancelToken struct {
	set atomic.Bool
}

// NewCancelToken returns a token that is not cancelled.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel sets the token. It returns true only for the call that set it.
func (t *CancelToken) Cancel() bool {
	return t.set.CompareAndSwap(false, true)
}

// Cancelled reports whether Cancel has been called.
func (t *CancelToken) Cancelled() bool {
	return t.set.Load()
}
