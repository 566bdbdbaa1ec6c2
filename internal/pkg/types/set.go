package types

// Set is a hash set of comparable values. The zero value is not usable; build
// one with NewSet.
type Set[T comparable] map[T]struct{}

// NewSet returns a Set holding data.
func NewSet[T comparable](data ...T) Set[T] {
	set := make(Set[T], len(data))
	set.Add(data...)
	return set
}

// Add inserts values into the set in place.
func (s Set[T]) Add(values ...T) {
	for _, val := range values {
		s[val] = struct{}{}
	}
}

// Has reports whether value is a member of the set.
func (s Set[T]) Has(value T) bool {
	_, ok := s[value]
	return ok
}

// Insert adds value and reports whether it was absent before.
func (s Set[T]) Insert(value T) bool {
	if s.Has(value) {
		return false
	}
	s[value] = struct{}{}
	return true
}
