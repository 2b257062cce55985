package progress

import "github.com/abhisek/careerpath/internal/catalog"

// Credit returns the unlock credit earned inside a phase: the phase's item
// count when the phase is completed, plus the number of the phase's own
// projects that are completed. Credit never crosses phase boundaries.
// Unknown phases earn zero.
func Credit(cat *catalog.Catalog, phaseID int, st State) int {
	ph, ok := cat.Phase(phaseID)
	if !ok {
		return 0
	}

	credit := 0
	if st.CompletedPhases.Has(phaseID) {
		credit = len(ph.Items)
	}
	for _, p := range ph.Projects {
		if st.CompletedProjects.Has(p.ID) {
			credit++
		}
	}
	return credit
}

// IsUnlocked reports whether p may be selected given the progress in its
// owning phase. Unknown phases are always locked; a zero threshold is
// otherwise always unlocked.
func IsUnlocked(cat *catalog.Catalog, phaseID int, p catalog.Project, st State) bool {
	if !cat.HasPhase(phaseID) {
		return false
	}
	return Credit(cat, phaseID, st) >= p.UnlockAt
}

// Remaining returns how much more credit p needs, or 0 when unlocked.
func Remaining(cat *catalog.Catalog, phaseID int, p catalog.Project, st State) int {
	return max(p.UnlockAt-Credit(cat, phaseID, st), 0)
}
