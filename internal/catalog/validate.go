package catalog

import (
	"fmt"
	"strings"
)

// validatePhases performs all structural checks on the given phases.
// Returns a combined error describing all problems found, or nil if valid.
func validatePhases(phases []Phase) error {
	var errs []string

	if len(phases) == 0 {
		errs = append(errs, "catalog has no phases")
	}

	phaseIDs := make(map[int]bool, len(phases))
	projectIDs := make(map[string]bool)

	for _, ph := range phases {
		if phaseIDs[ph.ID] {
			errs = append(errs, fmt.Sprintf("duplicate phase ID: %d", ph.ID))
		}
		phaseIDs[ph.ID] = true

		if strings.TrimSpace(ph.Title) == "" {
			errs = append(errs, fmt.Sprintf("phase %d has no title", ph.ID))
		}

		for _, p := range ph.Projects {
			prefix := fmt.Sprintf("phase %d project %q", ph.ID, p.ID)
			if p.ID == "" {
				errs = append(errs, fmt.Sprintf("phase %d has a project without ID", ph.ID))
				continue
			}
			if projectIDs[p.ID] {
				errs = append(errs, fmt.Sprintf("duplicate project ID: %q", p.ID))
			}
			projectIDs[p.ID] = true

			if !p.Difficulty.Valid() {
				errs = append(errs, fmt.Sprintf("%s: unknown difficulty %q", prefix, p.Difficulty))
			}
			if p.UnlockAt < 0 {
				errs = append(errs, fmt.Sprintf("%s: unlock threshold must be >= 0, got %d", prefix, p.UnlockAt))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
