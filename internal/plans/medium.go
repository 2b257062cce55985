package plans

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/careerpath/internal/persist"
	"github.com/abhisek/careerpath/internal/progress"
	"github.com/abhisek/careerpath/internal/table"
)

// ProgressMedium exposes one user's progress in one plan as a
// persist.Medium, so the persistence gateway can target the plan tables
// directly. The key argument is ignored; the (user, plan) pair is the key.
type ProgressMedium struct {
	svc    *Service
	userID string
	planID string
}

var _ persist.Medium = (*ProgressMedium)(nil)

// NewProgressMedium returns a medium bound to (userID, planID).
func NewProgressMedium(svc *Service, userID, planID string) *ProgressMedium {
	return &ProgressMedium{svc: svc, userID: userID, planID: planID}
}

func (m *ProgressMedium) Get(ctx context.Context, _ string) ([]byte, error) {
	p, found, err := m.svc.LoadProgress(ctx, m.userID, m.planID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, persist.ErrNotFound
	}
	snap := progress.Snapshot{
		SavedPhases:   p.CompletedPhases,
		SavedProjects: p.CompletedProjects,
	}
	if !p.LastUpdated.IsZero() {
		snap.LastUpdate = table.Timestamp(p.LastUpdated)
	}
	return json.Marshal(snap)
}

func (m *ProgressMedium) Set(ctx context.Context, _ string, value []byte) error {
	d, err := progress.DecodeSnapshot(value)
	if err != nil {
		return fmt.Errorf("progress medium: %w", err)
	}
	return m.svc.SaveProgress(ctx, m.userID, m.planID, Progress{
		CompletedPhases:   d.Snapshot.SavedPhases,
		CompletedProjects: d.Snapshot.SavedProjects,
	})
}

func (m *ProgressMedium) Delete(ctx context.Context, _ string) error {
	return m.svc.DeleteProgress(ctx, m.userID, m.planID)
}
