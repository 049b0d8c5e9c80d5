// Package optional models a value that may be absent without resorting to
// nil pointers.
package optional

type Value[T any] struct {
	v  T
	ok bool
}

func Some[T any](v T) Value[T] {
	return Value[T]{v: v, ok: true}
}

func None[T any]() Value[T] {
	return Value[T]{}
}

// FromString treats the empty string as absent.
func FromString(s string) Value[string] {
	if s == "" {
		return None[string]()
	}
	return Some(s)
}

func (o Value[T]) Get() (T, bool) {
	return o.v, o.ok
}

func (o Value[T]) IsPresent() bool {
	return o.ok
}

func (o Value[T]) OrElse(fallback T) T {
	if o.ok {
		return o.v
	}
	return fallback
}
