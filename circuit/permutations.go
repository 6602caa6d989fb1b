package circuit

import (
	"iter"
	"slices"
)

// Permutations yields every ordering of values, in lexicographic order of
// the original positions. Each yielded slice is a fresh copy.
func Permutations(values []int64) iter.Seq[[]int64] {
	return func(yield func([]int64) bool) {
		used := make([]bool, len(values))
		cur := make([]int64, 0, len(values))

		var walk func() bool
		walk = func() bool {
			if len(cur) == len(values) {
				return yield(slices.Clone(cur))
			}
			for i, v := range values {
				if used[i] {
					continue
				}
				used[i] = true
				cur = append(cur, v)
				ok := walk()
				cur = cur[:len(cur)-1]
				used[i] = false
				if !ok {
					return false
				}
			}
			return true
		}
		walk()
	}
}
