package helpers

// Result holds either a value or an error, for code paths that must not
// panic or early-return on failure and instead decide at the call site what
// a failure degrades to.
type Result[T any] struct {
	value T
	err   error
}

func NewResult[T any](value T, err error) Result[T] {
	return Result[T]{
		value: value,
		err:   err,
	}
}

// ValueOr returns the value, or v when the result carries an error.
func (r Result[T]) ValueOr(v T) T {
	if r.err != nil {
		return v
	}
	return r.value
}
