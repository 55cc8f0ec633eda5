// Package packet defines the per-tick value model shared by the runtime-facing
// combinator semantics. A stream carries at most one value per tick; Maybe is
// how "no value this tick" is represented without resorting to nil sentinels.
package packet

// Maybe holds an optional per-tick value. The zero value is empty.
type Maybe[T any] struct {
	val T
	ok  bool
}

// Some wraps a present value.
func Some[T any](v T) Maybe[T] {
	return Maybe[T]{val: v, ok: true}
}

// None returns an empty (absent) value.
func None[T any]() Maybe[T] {
	return Maybe[T]{}
}

// Get returns the value and whether it is present.
func (m Maybe[T]) Get() (T, bool) {
	return m.val, m.ok
}

// IsSome reports whether a value is present for this tick.
func (m Maybe[T]) IsSome() bool {
	return m.ok
}

// IsNone reports whether the tick is empty.
func (m Maybe[T]) IsNone() bool {
	return !m.ok
}

// OrZero returns the value if present, or the zero value of T.
func (m Maybe[T]) OrZero() T {
	return m.val
}
