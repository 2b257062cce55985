// Package progress holds the user's roadmap progress and the pure functions
// over it: toggles, unlock evaluation, aggregation and snapshot decoding.
package progress

// State is the mutable progress owned by a single session.
// Stale ids (not present in the current catalog) are tolerated here and
// filtered when rendering or aggregating.
type State struct {
	CompletedPhases   Set[int]
	CompletedProjects Set[string]

	// ExpandedPhases is UI state and is never persisted.
	ExpandedPhases Set[int]
}

// NewState returns an empty state.
func NewState() State {
	return State{
		CompletedPhases:   NewSet[int](),
		CompletedProjects: NewSet[string](),
		ExpandedPhases:    NewSet[int](),
	}
}

// Clone returns a deep copy, safe to hand to another goroutine.
func (s State) Clone() State {
	return State{
		CompletedPhases:   s.CompletedPhases.Clone(),
		CompletedProjects: s.CompletedProjects.Clone(),
		ExpandedPhases:    s.ExpandedPhases.Clone(),
	}
}

// TogglePhase flips completion of a phase in place.
func (s *State) TogglePhase(id int) bool {
	return s.CompletedPhases.Toggle(id)
}

// ToggleProject flips completion of a project in place. Callers gate
// locked projects with IsUnlocked before calling.
func (s *State) ToggleProject(id string) bool {
	return s.CompletedProjects.Toggle(id)
}

// ToggleExpand flips the expanded flag of a phase in place.
func (s *State) ToggleExpand(id int) bool {
	return s.ExpandedPhases.Toggle(id)
}

// WithPhaseToggled returns a copy of s with the phase flipped.
func (s State) WithPhaseToggled(id int) State {
	next := s.Clone()
	next.TogglePhase(id)
	return next
}

// WithProjectToggled returns a copy of s with the project flipped.
func (s State) WithProjectToggled(id string) State {
	next := s.Clone()
	next.ToggleProject(id)
	return next
}

// WithExpandToggled returns a copy of s with the phase's expanded flag flipped.
func (s State) WithExpandToggled(id int) State {
	next := s.Clone()
	next.ToggleExpand(id)
	return next
}
