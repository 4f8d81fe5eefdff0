package api

import "errors"

var errUnknownFailure = errors.New("unknown failure")

// Result is the outcome of a query: either ok with a value or failed with a reason.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful value
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Failed wraps the reason a query produced no data
func Failed[T any](reason error) Result[T] {
	if reason == nil {
		reason = errUnknownFailure
	}
	return Result[T]{err: reason}
}

// OK reports whether the result carries a value
func (r Result[T]) OK() bool {
	return r.err == nil
}

// Reason returns the failure reason, or nil for an ok result
func (r Result[T]) Reason() error {
	return r.err
}

// Get returns the value and the failure reason. The value is the zero value
// when the result failed.
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}
