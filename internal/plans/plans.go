// Package plans stores career plans and per-plan progress on a
// table.Backend, local or remote.
package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/catalog"
	"github.com/abhisek/careerpath/internal/progress"
	"github.com/abhisek/careerpath/internal/table"
)

// Table names.
const (
	PlansTable    = "career_plans"
	ProgressTable = "plan_progress"
)

// Plan statuses.
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// ErrPlanNotFound is returned when a plan ID does not exist.
var ErrPlanNotFound = errors.New("plan not found")

// Meta is the descriptive data stored alongside a plan's catalog.
type Meta struct {
	Description       string `json:"description"`
	Objective         string `json:"objective"`
	EstimatedDuration string `json:"estimatedDuration"`
}

// Plan is a stored career plan.
type Plan struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Title       string          `json:"title"`
	Meta
	TotalPhases int             `json:"totalPhases"`
	Content     json.RawMessage `json:"content"`
	Answers     json.RawMessage `json:"answers"`
	Status      string          `json:"status"`
	IsPrimary   bool            `json:"isPrimary"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// planContent is the JSON shape of Plan.Content.
type planContent struct {
	Title  string          `json:"title"`
	Phases []catalog.Phase `json:"phases"`
}

// Catalog decodes the plan's phases into a catalog.
func (p Plan) Catalog() (*catalog.Catalog, error) {
	var c planContent
	if err := json.Unmarshal(p.Content, &c); err != nil {
		return nil, fmt.Errorf("decode plan %s content: %w", p.ID, err)
	}
	if c.Title == "" {
		c.Title = p.Title
	}
	return catalog.New(c.Title, c.Phases)
}

// Progress is the stored progress of a user in one plan.
type Progress struct {
	CompletedPhases   []int     `json:"completedPhases"`
	CompletedProjects []string  `json:"completedProjects"`
	ExpandedPhases    []int     `json:"expandedPhases"`
	LastUpdated       time.Time `json:"lastUpdated"`
}

// ProgressFromState converts a session state into a storable Progress.
func ProgressFromState(st progress.State) Progress {
	return Progress{
		CompletedPhases:   st.CompletedPhases.Sorted(),
		CompletedProjects: st.CompletedProjects.Sorted(),
		ExpandedPhases:    st.ExpandedPhases.Sorted(),
	}
}

// State converts stored progress into a session state.
func (p Progress) State() progress.State {
	return progress.State{
		CompletedPhases:   progress.NewSet(p.CompletedPhases...),
		CompletedProjects: progress.NewSet(p.CompletedProjects...),
		ExpandedPhases:    progress.NewSet(p.ExpandedPhases...),
	}
}

// Stats summarizes a user's progress in a plan. Percentages carry one
// decimal.
type Stats struct {
	TotalPhases       int     `json:"totalPhases"`
	TotalProjects     int     `json:"totalProjects"`
	CompletedPhases   int     `json:"completedPhases"`
	CompletedProjects int     `json:"completedProjects"`
	PhaseProgress     float64 `json:"phaseProgress"`
	ProjectProgress   float64 `json:"projectProgress"`
	OverallProgress   float64 `json:"overallProgress"`
}

// Service manages plans and progress rows.
type Service struct {
	db     table.Backend
	logger *zap.Logger
	now    func() time.Time
}

// NewService returns a Service over db.
func NewService(db table.Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:     db,
		logger: logger.With(zap.String("component", "plans")),
		now:    time.Now,
	}
}

// SavePlan stores a new, non-primary, active plan for userID.
func (s *Service) SavePlan(ctx context.Context, userID string, cat *catalog.Catalog, meta Meta, answers any) (Plan, error) {
	content, err := json.Marshal(planContent{Title: cat.Title(), Phases: cat.Phases()})
	if err != nil {
		return Plan{}, fmt.Errorf("encode plan content: %w", err)
	}
	if answers == nil {
		answers = map[string]any{}
	}
	ans, err := json.Marshal(answers)
	if err != nil {
		return Plan{}, fmt.Errorf("encode user answers: %w", err)
	}

	now := table.Timestamp(s.now())
	rows, err := s.db.Post(ctx, PlansTable, table.Row{
		"user_id":            userID,
		"title":              cat.Title(),
		"description":        meta.Description,
		"objective":          meta.Objective,
		"estimated_duration": meta.EstimatedDuration,
		"total_phases":       cat.TotalPhases(),
		"plan_content":       string(content),
		"user_answers":       string(ans),
		"status":             StatusActive,
		"is_primary":         false,
		"created_at":         now,
		"updated_at":         now,
	})
	if err != nil {
		return Plan{}, fmt.Errorf("save plan: %w", err)
	}
	if len(rows) == 0 {
		return Plan{}, fmt.Errorf("save plan: backend returned no row")
	}
	plan := planFromRow(rows[0])
	s.logger.Info("plan saved", zap.String("plan_id", plan.ID), zap.String("user_id", userID))
	return plan, nil
}

// ListPlans returns the user's active plans, newest first.
func (s *Service) ListPlans(ctx context.Context, userID string) ([]Plan, error) {
	rows, err := s.db.Get(ctx, PlansTable, table.Query{
		Where:   table.Where(table.Eq("user_id", userID), table.Eq("status", StatusActive)),
		OrderBy: "created_at",
		Desc:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	plans := make([]Plan, 0, len(rows))
	for _, r := range rows {
		plans = append(plans, planFromRow(r))
	}
	return plans, nil
}

// HasPlans reports whether the user has at least one active plan.
func (s *Service) HasPlans(ctx context.Context, userID string) (bool, error) {
	rows, err := s.db.Get(ctx, PlansTable, table.Query{
		Where:   table.Where(table.Eq("user_id", userID), table.Eq("status", StatusActive)),
		Columns: []string{"id"},
		Limit:   1,
	})
	if err != nil {
		return false, fmt.Errorf("check plans: %w", err)
	}
	return len(rows) > 0, nil
}

// GetPlan returns a plan by ID.
func (s *Service) GetPlan(ctx context.Context, planID string) (Plan, error) {
	row, err := table.First(ctx, s.db, PlansTable, table.Query{Where: table.Where(table.Eq("id", planID))})
	if errors.Is(err, table.ErrNotFound) {
		return Plan{}, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}
	if err != nil {
		return Plan{}, fmt.Errorf("get plan: %w", err)
	}
	return planFromRow(row), nil
}

// PrimaryPlan returns the user's active primary plan, or nil if none is set.
func (s *Service) PrimaryPlan(ctx context.Context, userID string) (*Plan, error) {
	row, err := table.First(ctx, s.db, PlansTable, table.Query{
		Where: table.Where(
			table.Eq("user_id", userID),
			table.Eq("is_primary", true),
			table.Eq("status", StatusActive),
		),
	})
	if errors.Is(err, table.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get primary plan: %w", err)
	}
	p := planFromRow(row)
	return &p, nil
}

// SetPrimaryPlan marks planID as its owner's only primary plan.
func (s *Service) SetPrimaryPlan(ctx context.Context, planID string) error {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return err
	}
	now := table.Timestamp(s.now())
	err = s.db.Update(ctx, PlansTable,
		table.Where(table.Eq("user_id", plan.UserID)),
		table.Row{"is_primary": false})
	if err != nil {
		return fmt.Errorf("clear primary plans: %w", err)
	}
	err = s.db.Update(ctx, PlansTable,
		table.Where(table.Eq("id", planID)),
		table.Row{"is_primary": true, "updated_at": now})
	if err != nil {
		return fmt.Errorf("set primary plan: %w", err)
	}
	return nil
}

// DeletePlan soft-deletes a plan by marking it deleted.
func (s *Service) DeletePlan(ctx context.Context, planID string) error {
	err := s.db.Update(ctx, PlansTable,
		table.Where(table.Eq("id", planID)),
		table.Row{"status": StatusDeleted, "is_primary": false, "updated_at": table.Timestamp(s.now())})
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// SaveProgress upserts the progress row for (userID, planID). A nil
// ExpandedPhases leaves the stored expansion untouched; a new row then
// starts with phase 1 expanded.
func (s *Service) SaveProgress(ctx context.Context, userID, planID string, p Progress) error {
	row, err := progressRow(userID, planID, p, s.now())
	if err != nil {
		return err
	}

	existing, err := table.First(ctx, s.db, ProgressTable, table.Query{
		Where:   progressKey(userID, planID),
		Columns: []string{"id"},
	})
	switch {
	case errors.Is(err, table.ErrNotFound):
		if _, ok := row["expanded_phases"]; !ok {
			row["expanded_phases"] = "[1]"
		}
		if _, err := s.db.Post(ctx, ProgressTable, row); err != nil {
			return fmt.Errorf("insert progress: %w", err)
		}
	case err != nil:
		return fmt.Errorf("find progress: %w", err)
	default:
		where := table.Where(table.Eq("id", existing.String("id")))
		if err := s.db.Update(ctx, ProgressTable, where, row); err != nil {
			return fmt.Errorf("update progress: %w", err)
		}
	}
	return nil
}

// GetProgress returns the stored progress, or an empty progress with
// phase 1 expanded when nothing is stored.
func (s *Service) GetProgress(ctx context.Context, userID, planID string) (Progress, error) {
	p, _, err := s.LoadProgress(ctx, userID, planID)
	return p, err
}

// LoadProgress is GetProgress that also reports whether a row existed.
func (s *Service) LoadProgress(ctx context.Context, userID, planID string) (Progress, bool, error) {
	row, err := table.First(ctx, s.db, ProgressTable, table.Query{Where: progressKey(userID, planID)})
	if errors.Is(err, table.ErrNotFound) {
		return defaultProgress(), false, nil
	}
	if err != nil {
		return Progress{}, false, fmt.Errorf("get progress: %w", err)
	}

	p := Progress{LastUpdated: row.Time("last_updated")}
	if err := decodeList(row, "completed_phases", "[]", &p.CompletedPhases); err != nil {
		return Progress{}, false, err
	}
	if err := decodeList(row, "completed_projects", "[]", &p.CompletedProjects); err != nil {
		return Progress{}, false, err
	}
	if err := decodeList(row, "expanded_phases", "[1]", &p.ExpandedPhases); err != nil {
		return Progress{}, false, err
	}
	return p, true, nil
}

// DeleteProgress removes the progress row for (userID, planID).
func (s *Service) DeleteProgress(ctx context.Context, userID, planID string) error {
	if err := s.db.Delete(ctx, ProgressTable, progressKey(userID, planID)); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// Stats compares stored progress against the plan's totals.
func (s *Service) Stats(ctx context.Context, userID, planID string) (Stats, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return Stats{}, err
	}
	cat, err := plan.Catalog()
	if err != nil {
		return Stats{}, err
	}
	p, err := s.GetProgress(ctx, userID, planID)
	if err != nil {
		return Stats{}, err
	}

	sum := progress.Summarize(cat, p.State())
	st := Stats{
		TotalPhases:       sum.PhasesTotal,
		TotalProjects:     sum.ProjectsTotal,
		CompletedPhases:   sum.PhasesCompleted,
		CompletedProjects: sum.ProjectsCompleted,
		PhaseProgress:     ratio(sum.PhasesCompleted, sum.PhasesTotal),
		ProjectProgress:   ratio(sum.ProjectsCompleted, sum.ProjectsTotal),
	}
	if sum.PhasesTotal > 0 && sum.ProjectsTotal > 0 {
		overall := (fraction(sum.PhasesCompleted, sum.PhasesTotal) + fraction(sum.ProjectsCompleted, sum.ProjectsTotal)) / 2
		st.OverallProgress = math.Round(overall*1000) / 10
	}
	return st, nil
}

func fraction(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

func ratio(n, total int) float64 {
	return math.Round(fraction(n, total)*1000) / 10
}

func defaultProgress() Progress {
	return Progress{
		CompletedPhases:   []int{},
		CompletedProjects: []string{},
		ExpandedPhases:    []int{1},
	}
}

func progressKey(userID, planID string) table.Predicate {
	return table.Where(table.Eq("user_id", userID), table.Eq("plan_id", planID))
}

func progressRow(userID, planID string, p Progress, now time.Time) (table.Row, error) {
	if p.CompletedPhases == nil {
		p.CompletedPhases = []int{}
	}
	if p.CompletedProjects == nil {
		p.CompletedProjects = []string{}
	}
	phases, err := json.Marshal(p.CompletedPhases)
	if err != nil {
		return nil, fmt.Errorf("encode completed phases: %w", err)
	}
	projects, err := json.Marshal(p.CompletedProjects)
	if err != nil {
		return nil, fmt.Errorf("encode completed projects: %w", err)
	}
	row := table.Row{
		"user_id":            userID,
		"plan_id":            planID,
		"completed_phases":   string(phases),
		"completed_projects": string(projects),
		"last_updated":       table.Timestamp(now),
	}
	if p.ExpandedPhases != nil {
		expanded, err := json.Marshal(p.ExpandedPhases)
		if err != nil {
			return nil, fmt.Errorf("encode expanded phases: %w", err)
		}
		row["expanded_phases"] = string(expanded)
	}
	return row, nil
}

// decodeList reads a JSON-encoded list column. Empty values take def.
func decodeList[T any](row table.Row, col, def string, dst *[]T) error {
	raw := row.String(col)
	if raw == "" {
		raw = def
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode %s: %w", col, err)
	}
	if *dst == nil {
		*dst = []T{}
	}
	return nil
}

func planFromRow(r table.Row) Plan {
	p := Plan{
		ID:     r.String("id"),
		UserID: r.String("user_id"),
		Title:  r.String("title"),
		Meta: Meta{
			Description:       r.String("description"),
			Objective:         r.String("objective"),
			EstimatedDuration: r.String("estimated_duration"),
		},
		TotalPhases: int(r.Int("total_phases")),
		Status:      r.String("status"),
		IsPrimary:   r.Bool("is_primary"),
		CreatedAt:   r.Time("created_at"),
		UpdatedAt:   r.Time("updated_at"),
	}
	p.Content = rawJSON(r.String("plan_content"), "{}")
	p.Answers = rawJSON(r.String("user_answers"), "{}")
	return p
}

func rawJSON(s, def string) json.RawMessage {
	if s == "" || !json.Valid([]byte(s)) {
		return json.RawMessage(def)
	}
	return json.RawMessage(s)
}
