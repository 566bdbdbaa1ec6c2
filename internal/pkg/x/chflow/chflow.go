// Package chflow holds context-aware channel helpers.
package chflow

import (
	"context"
	"errors"
)

// ErrClosed is returned by Await when the channel is closed before a value
// arrives.
var ErrClosed = errors.New("channel closed")

// Receive waits for a value from ch or for ctx to end. ok is false when ctx
// ended or ch was closed.
func Receive[T any](ctx context.Context, ch <-chan T) (T, bool) {
	var data T
	select {
	case <-ctx.Done():
		return data, false
	case data, ok := <-ch:
		return data, ok
	}
}

// Await is Receive reporting why nothing was received: ctx.Err() when ctx
// ended, ErrClosed when ch was closed.
func Await[T any](ctx context.Context, ch <-chan T) (T, error) {
	var data T
	select {
	case <-ctx.Done():
		return data, ctx.Err()
	case data, ok := <-ch:
		if !ok {
			return data, ErrClosed
		}
		return data, nil
	}
}

// Send sends data on ch unless ctx ends first. It reports whether the value
// was sent.
func Send[T any](ctx context.Context, ch chan<- T, data T) bool {
	select {
	case <-ctx.Done():
		return false
	case ch <- data:
		return true
	}
}
