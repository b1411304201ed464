// Package test provides small helpers used by this module's package-level
// test files, in place of a third-party assertion library.
package test

import (
	"math"
	"reflect"
	"testing"
)

// Equate fails the test if a and b are not equal.
func Equate(t *testing.T, a, b interface{}) {
	t.Helper()
	if !equal(a, b) {
		t.Errorf("expected %v to equal %v", a, b)
	}
}

func equal(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// isSuccess interprets v as a success/failure indicator. nil, a nil error, or
// a true bool all count as success.
func isSuccess(v interface{}) bool {
	if v == nil {
		return true
	}
	switch x := v.(type) {
	case bool:
		return x
	case error:
		return x == nil
	}
	return false
}

// ExpectSuccess fails the test unless v represents success (true, or a nil
// error).
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()
	if !isSuccess(v) {
		t.Errorf("expected success, got %v", v)
	}
}

// ExpectFailure fails the test unless v represents failure (false, or a
// non-nil error).
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()
	if isSuccess(v) {
		t.Errorf("expected failure, got %v", v)
	}
}

// ExpectedSuccess is an alias of ExpectSuccess.
func ExpectedSuccess(t *testing.T, v interface{}) {
	t.Helper()
	ExpectSuccess(t, v)
}

// ExpectedFailure is an alias of ExpectFailure.
func ExpectedFailure(t *testing.T, v interface{}) {
	t.Helper()
	ExpectFailure(t, v)
}

// ExpectEquality fails the test if a and b are not equal.
func ExpectEquality[T comparable](t *testing.T, a, b T) {
	t.Helper()
	if a != b {
		t.Errorf("expected equality: %v != %v", a, b)
	}
}

// ExpectInequality fails the test if a and b are equal.
func ExpectInequality[T comparable](t *testing.T, a, b T) {
	t.Helper()
	if a == b {
		t.Errorf("expected inequality: %v == %v", a, b)
	}
}

// ExpectApproximate fails the test if a and b differ, relative to b, by more
// than tolerance. For example, ExpectApproximate(t, 10, 11, 0.1) passes
// because 10 is within 10% of 11.
func ExpectApproximate(t *testing.T, a, b, tolerance float64) {
	t.Helper()
	if b == 0 {
		if math.Abs(a) > tolerance {
			t.Errorf("expected %v to be within %v of %v", a, tolerance, b)
		}
		return
	}
	if math.Abs(a-b)/math.Abs(b) > tolerance {
		t.Errorf("expected %v to be within %v of %v", a, tolerance, b)
	}
}
