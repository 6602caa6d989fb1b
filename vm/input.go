package vm

// InputSource provides values to input instructions on demand.
// NextInput is called synchronously from the machine's goroutine and
// reports false when it has no value to give.
type InputSource interface {
	NextInput() (int64, bool)
}

// InputFunc adapts a function to an InputSource.
type InputFunc func() (int64, bool)

func (f InputFunc) NextInput() (int64, bool) { return f() }

// Values returns an InputSource yielding the given values in order.
func Values(values ...int64) InputSource {
	i := 0
	return InputFunc(func() (int64, bool) {
		if i >= len(values) {
			return 0, false
		}
		i++
		return values[i-1], true
	})
}
