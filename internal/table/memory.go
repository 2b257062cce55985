package table

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// MemoryBackend is an in-process Backend for tests and offline use.
// Inserted rows without an "id" column get a sequential one.
type MemoryBackend struct {
	mu     sync.Mutex
	tables map[string][]Row
	nextID int
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{tables: make(map[string][]Row)}
}

func (m *MemoryBackend) Get(_ context.Context, table string, q Query) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Row
	for _, r := range m.tables[table] {
		if q.Where.Matches(r) {
			out = append(out, project(r, q.Columns))
		}
	}
	if q.OrderBy != "" {
		slices.SortStableFunc(out, func(a, b Row) int {
			c := compareValues(a[q.OrderBy], b[q.OrderBy])
			if q.Desc {
				return -c
			}
			return c
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *MemoryBackend) Post(_ context.Context, table string, row Row) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := maps.Clone(row)
	if _, ok := stored["id"]; !ok {
		m.nextID++
		stored["id"] = fmt.Sprint(m.nextID)
	}
	m.tables[table] = append(m.tables[table], stored)
	return []Row{maps.Clone(stored)}, nil
}

func (m *MemoryBackend) Update(_ context.Context, table string, where Predicate, patch Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.tables[table] {
		if where.Matches(r) {
			maps.Copy(r, patch)
		}
	}
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, table string, where Predicate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tables[table] = slices.DeleteFunc(m.tables[table], where.Matches)
	return nil
}

// Matches reports whether r satisfies every condition.
func (p Predicate) Matches(r Row) bool {
	for _, c := range p {
		cmpv := compareValues(r[c.Column], c.Value)
		ok := false
		switch c.Op {
		case OpEq:
			ok = cmpv == 0
		case OpNeq:
			ok = cmpv != 0
		case OpGt:
			ok = cmpv > 0
		case OpGte:
			ok = cmpv >= 0
		case OpLt:
			ok = cmpv < 0
		case OpLte:
			ok = cmpv <= 0
		}
		if !ok {
			return false
		}
	}
	return true
}

func project(r Row, cols []string) Row {
	if len(cols) == 0 {
		return maps.Clone(r)
	}
	out := make(Row, len(cols))
	for _, c := range cols {
		if v, ok := r[c]; ok {
			out[c] = v
		}
	}
	return out
}

// compareValues orders numbers numerically, bools as 0/1 and everything
// else by string form.
func compareValues(a, b any) int {
	an, aNum := numeric(a)
	bn, bNum := numeric(b)
	if aNum && bNum {
		return cmp.Compare(an, bn)
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
