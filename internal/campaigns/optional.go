package campaigns

// Optional is the outcome of a lookup the caller can live without: either a
// value, or absent with the reason it could not be obtained.
type Optional[T any] struct {
	value   T
	reason  error
	present bool
}

func Value[T any](v T) Optional[T] { return Optional[T]{value: v, present: true} }

func Absent[T any](reason error) Optional[T] { return Optional[T]{reason: reason} }

func (o Optional[T]) Get() (T, bool) { return o.value, o.present }

// Reason is nil for present values.
func (o Optional[T]) Reason() error { return o.reason }

// OrElse returns the value, or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if o.present {
		return o.value
	}
	return def
}
