package railway

// Option represents a value that may be absent. Absence is distinct from a
// lookup failing: a store that found nothing returns None with a nil error.
type Option[T any] struct {
	value   T
	present bool
}

// Some wraps a present value.
func Some[T any](value T) Option[T] {
	return Option[T]{value: value, present: true}
}

// None is the absent Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// IsSome reports whether the Option carries a value.
func (o Option[T]) IsSome() bool {
	return o.present
}

// IsNone reports whether the Option is absent.
func (o Option[T]) IsNone() bool {
	return !o.present
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.present
}

// MustGet returns the value; the zero value when absent.
func (o Option[T]) MustGet() T {
	return o.value
}

// MapOption applies fn to a present value, passing None through unchanged.
func MapOption[T, U any](o Option[T], fn func(T) U) Option[U] {
	if o.present {
		return Some(fn(o.value))
	}
	return None[U]()
}

// BindOption chains a computation that itself may be absent.
func BindOption[T, U any](o Option[T], fn func(T) Option[U]) Option[U] {
	if o.present {
		return fn(o.value)
	}
	return None[U]()
}
