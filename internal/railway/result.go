// Package railway предоставляет типы Result и Option для построения
// цепочек шагов, где ошибка это данные, а не паника.
package railway

// Result represents either a success carrying a value of type T or a
// failure carrying an error of type E. Exactly one side is populated.
type Result[T, E any] struct {
	value T
	err   E
	ok    bool
}

// Success wraps a value into a successful Result.
func Success[T, E any](value T) Result[T, E] {
	return Result[T, E]{value: value, ok: true}
}

// Failure wraps an error into a failed Result.
func Failure[T, E any](err E) Result[T, E] {
	return Result[T, E]{err: err}
}

// IsSuccess reports whether the Result carries a value.
func (r Result[T, E]) IsSuccess() bool {
	return r.ok
}

// IsFailure reports whether the Result carries an error.
func (r Result[T, E]) IsFailure() bool {
	return !r.ok
}

// Value returns the success payload. Zero value on failure.
func (r Result[T, E]) Value() T {
	return r.value
}

// Err returns the failure payload. Zero value on success.
func (r Result[T, E]) Err() E {
	return r.err
}

// Unit is the payload of effect-only steps that succeed with no value.
type Unit struct{}

// OK is a successful Result with no payload.
func OK[E any]() Result[Unit, E] {
	return Success[Unit, E](Unit{})
}

// Map applies fn to the success value, passing a failure through unchanged.
func Map[T, U, E any](r Result[T, E], fn func(T) U) Result[U, E] {
	if r.ok {
		return Success[U, E](fn(r.value))
	}
	return Failure[U](r.err)
}

// Bind chains a computation that itself may fail, short-circuiting on the
// first failure.
func Bind[T, U, E any](r Result[T, E], fn func(T) Result[U, E]) Result[U, E] {
	if r.ok {
		return fn(r.value)
	}
	return Failure[U](r.err)
}
