// Package chflow provides context-aware helpers for channel sends and
// receives, so blocking channel operations respect cancellation and
// deadlines.
package chflow

import "context"

// Receive waits for a value from ch or for the context to be canceled. It
// returns the received value and true on success, or the zero value and
// false when the context is done or the channel is closed.
func Receive[T any](ctx context.Context, ch <-chan T) (T, bool) {
	var data T
	select {
	case <-ctx.Done():
		return data, false
	case data, ok := <-ch:
		return data, ok
	}
}

// Send delivers data to ch unless the context is canceled first. It returns
// true when the value was sent, false when the context was done before the
// send could complete.
func Send[T any](ctx context.Context, ch chan<- T, data T) bool {
	select {
	case <-ctx.Done():
		return false
	case ch <- data:
		return true
	}
}
