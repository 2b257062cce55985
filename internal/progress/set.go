package progress

import (
	"cmp"
	"maps"
	"slices"
)

// Set is an unordered collection of ids. The zero value is an empty set
// ready to use.
type Set[T cmp.Ordered] struct {
	m map[T]struct{}
}

// NewSet returns a set holding the given ids.
func NewSet[T cmp.Ordered](ids ...T) Set[T] {
	s := Set[T]{m: make(map[T]struct{}, len(ids))}
	for _, id := range ids {
		s.m[id] = struct{}{}
	}
	return s
}

// Has reports whether id is a member.
func (s Set[T]) Has(id T) bool {
	_, ok := s.m[id]
	return ok
}

// Len returns the number of members.
func (s Set[T]) Len() int {
	return len(s.m)
}

// Add inserts id.
func (s *Set[T]) Add(id T) {
	if s.m == nil {
		s.m = make(map[T]struct{})
	}
	s.m[id] = struct{}{}
}

// Remove deletes id. Removing a non-member is a no-op.
func (s *Set[T]) Remove(id T) {
	delete(s.m, id)
}

// Toggle flips membership of id and reports whether it is now a member.
func (s *Set[T]) Toggle(id T) bool {
	if s.Has(id) {
		s.Remove(id)
		return false
	}
	s.Add(id)
	return true
}

// Sorted returns the members in ascending order. Never nil.
func (s Set[T]) Sorted() []T {
	out := make([]T, 0, len(s.m))
	out = slices.AppendSeq(out, maps.Keys(s.m))
	slices.Sort(out)
	return out
}

// Clone returns an independent copy.
func (s Set[T]) Clone() Set[T] {
	return Set[T]{m: maps.Clone(s.m)}
}

// Equal reports whether both sets hold the same members.
func (s Set[T]) Equal(o Set[T]) bool {
	if s.Len() != o.Len() {
		return false
	}
	for id := range s.m {
		if !o.Has(id) {
			return false
		}
	}
	return true
}

// CountIf returns how many members satisfy keep.
func (s Set[T]) CountIf(keep func(T) bool) int {
	n := 0
	for id := range s.m {
		if keep(id) {
			n++
		}
	}
	return n
}
