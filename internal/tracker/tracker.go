// Package tracker sequences user actions on roadmap progress: apply the
// transition, reschedule the autosave, then re-render.
package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/careerpath/internal/catalog"
	"github.com/abhisek/careerpath/internal/progress"
)

var (
	// ErrLocked is returned when toggling a project whose unlock
	// threshold has not been reached.
	ErrLocked = errors.New("project is locked")
	// ErrUnknownPhase is returned for a phase ID absent from the catalog.
	ErrUnknownPhase = errors.New("unknown phase")
	// ErrUnknownProject is returned for a project ID absent from the catalog.
	ErrUnknownProject = errors.New("unknown project")
)

// Persister is the subset of persist.Gateway the tracker drives.
type Persister interface {
	Load(ctx context.Context) progress.State
	Save(ctx context.Context, st progress.State) bool
	Autosave(st progress.State)
	Flush(ctx context.Context)
	Clear(ctx context.Context) error
}

// Tracker owns the progress state of one session. It is not safe for
// concurrent use; the UI event loop is its only caller.
type Tracker struct {
	cat      *catalog.Catalog
	persist  Persister
	st       progress.State
	onChange func()
}

// New returns a Tracker with empty progress. Call Load before first render.
func New(cat *catalog.Catalog, p Persister) *Tracker {
	return &Tracker{
		cat:     cat,
		persist: p,
		st:      progress.NewState(),
	}
}

// OnChange registers the render callback run after every transition.
func (t *Tracker) OnChange(fn func()) {
	t.onChange = fn
}

// Catalog returns the catalog being tracked.
func (t *Tracker) Catalog() *catalog.Catalog {
	return t.cat
}

// State returns a copy of the current progress.
func (t *Tracker) State() progress.State {
	return t.st.Clone()
}

// Load restores persisted progress and expands the first phase.
func (t *Tracker) Load(ctx context.Context) {
	t.st = t.persist.Load(ctx)
	if first := t.cat.FirstPhaseID(); first != 0 && t.st.ExpandedPhases.Len() == 0 {
		t.st.ExpandedPhases.Add(first)
	}
	t.changed()
}

// TogglePhase flips completion of a phase.
func (t *Tracker) TogglePhase(id int) (bool, error) {
	if !t.cat.HasPhase(id) {
		return false, fmt.Errorf("%w: %d", ErrUnknownPhase, id)
	}
	done := t.st.TogglePhase(id)
	t.persist.Autosave(t.st)
	t.changed()
	return done, nil
}

// ToggleProject flips completion of a project. Locked projects cannot be
// toggled in either direction.
func (t *Tracker) ToggleProject(id string) (bool, error) {
	p, phaseID, err := t.cat.Project(id)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrUnknownProject, id)
	}
	if !progress.IsUnlocked(t.cat, phaseID, p, t.st) {
		return false, fmt.Errorf("%w: %q needs %d more", ErrLocked, id,
			progress.Remaining(t.cat, phaseID, p, t.st))
	}
	done := t.st.ToggleProject(id)
	t.persist.Autosave(t.st)
	t.changed()
	return done, nil
}

// ToggleExpand flips whether a phase is expanded. Not persisted.
func (t *Tracker) ToggleExpand(id int) bool {
	open := t.st.ToggleExpand(id)
	t.changed()
	return open
}

// Unlocked reports whether a project can currently be toggled.
func (t *Tracker) Unlocked(phaseID int, p catalog.Project) bool {
	return progress.IsUnlocked(t.cat, phaseID, p, t.st)
}

// Credit returns the unlock credit earned in a phase.
func (t *Tracker) Credit(phaseID int) int {
	return progress.Credit(t.cat, phaseID, t.st)
}

// Summary returns the overall completion.
func (t *Tracker) Summary() progress.Summary {
	return progress.Summarize(t.cat, t.st)
}

// Save persists the current state immediately. It reports false when a
// manual save is already in flight.
func (t *Tracker) Save(ctx context.Context) bool {
	return t.persist.Save(ctx, t.st.Clone())
}

// Flush writes any pending autosave.
func (t *Tracker) Flush(ctx context.Context) {
	t.persist.Flush(ctx)
}

// Reset clears stored progress and empties the state.
func (t *Tracker) Reset(ctx context.Context) error {
	if err := t.persist.Clear(ctx); err != nil {
		return err
	}
	expanded := t.st.ExpandedPhases
	t.st = progress.NewState()
	t.st.ExpandedPhases = expanded
	t.changed()
	return nil
}

func (t *Tracker) changed() {
	if t.onChange != nil {
		t.onChange()
	}
}
