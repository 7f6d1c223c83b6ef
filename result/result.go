// Package result provides a tagged success-or-error value for places where
// outcomes are collected rather than returned one at a time, such as batch
// conversions. A Result holds exactly one of a value or an error.
package result

import (
	"encoding/json"

	"github.com/smuchow1962/conversion-table-manager/errors"
)

// Result is either Ok(value) or Err(error). The zero value is not valid;
// build one with Ok, Err or Of.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Err wraps a failure. A nil error is turned into an assertion failure so
// a Result can never be neither.
func Err[T any](err error) Result[T] {
	if err == nil {
		err = errors.AssertionFailedf("result.Err called with nil error")
	}
	return Result[T]{err: err}
}

// Of converts a Go (value, error) pair. The value is discarded when err is
// non-nil.
func Of[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(v)
}

// IsOk reports whether the result holds a value.
func (r Result[T]) IsOk() bool { return r.ok }

// Value returns the value and whether it is present.
func (r Result[T]) Value() (T, bool) { return r.value, r.ok }

// Error returns the error, nil for Ok results. Invalid zero-value results
// report an assertion failure.
func (r Result[T]) Error() error {
	if r.ok {
		return nil
	}
	if r.err == nil {
		return errors.AssertionFailedf("zero-value result")
	}
	return r.err
}

// Unwrap returns the Go (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.Error()
}

// MarshalJSON encodes {"value": ...} or {"error": "..."}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.ok {
		return json.Marshal(struct {
			Value T `json:"value"`
		}{r.value})
	}
	return json.Marshal(struct {
		Error string `json:"error"`
	}{r.Error().Error()})
}

// Partition splits results into values and errors, preserving order.
func Partition[T any](results []Result[T]) ([]T, []error) {
	var values []T
	var errs []error
	for _, r := range results {
		if r.ok {
			values = append(values, r.value)
		} else {
			errs = append(errs, r.Error())
		}
	}
	return values, errs
}
