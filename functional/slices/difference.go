package slices

// Difference returns all the elements in 'a' that are not in 'b'.
//
// NOTE: The provided slices may contain duplicates but the returned slice will not.
func Difference[S []E, E comparable](a, b S) S {
	lu := make(map[E]struct{})

	for _, e := range b {
		lu[e] = struct{}{}
	}

	seen := make(map[E]struct{})

	return Filter(a, func(e E) bool {
		if _, ok := lu[e]; ok {
			return false
		}

		if _, ok := seen[e]; ok {
			return false
		}

		seen[e] = struct{}{}

		return true
	})
}
