package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sort"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/careerpath/internal/table"
)

// Tables implements table.Backend over the local plan tables.
type Tables struct {
	db *sql.DB
}

var _ table.Backend = (*Tables)(nil)

func (t *Tables) Get(ctx context.Context, name string, q table.Query) ([]table.Row, error) {
	cols := q.Columns
	if len(cols) == 0 {
		cols = tableColumns[name]
	}
	if err := checkColumns(name, cols...); err != nil {
		return nil, err
	}
	pred, err := predicate(name, q.Where)
	if err != nil {
		return nil, err
	}

	sel := builder().Select(cols...).From(entsql.Table(name))
	if pred != nil {
		sel.Where(pred)
	}
	if q.OrderBy != "" {
		if err := checkColumns(name, q.OrderBy); err != nil {
			return nil, err
		}
		if q.Desc {
			sel.OrderBy(entsql.Desc(q.OrderBy))
		} else {
			sel.OrderBy(entsql.Asc(q.OrderBy))
		}
	}
	if q.Limit > 0 {
		sel.Limit(q.Limit)
	}

	query, args := sel.Query()
	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", name, err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func (t *Tables) Post(ctx context.Context, name string, row table.Row) ([]table.Row, error) {
	stored := make(table.Row, len(row)+1)
	for k, v := range row {
		stored[k] = v
	}
	if stored.String("id") == "" {
		stored["id"] = uuid.NewString()
	}

	cols := make([]string, 0, len(stored))
	for k := range stored {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	if err := checkColumns(name, cols...); err != nil {
		return nil, err
	}
	vals := make([]any, len(cols))
	for i, c := range cols {
		vals[i] = sqlValue(stored[c])
	}

	query, args := builder().Insert(name).Columns(cols...).Values(vals...).Query()
	if _, err := t.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert %s: %w", name, err)
	}

	return t.Get(ctx, name, table.Query{Where: table.Where(table.Eq("id", stored["id"]))})
}

func (t *Tables) Update(ctx context.Context, name string, where table.Predicate, patch table.Row) error {
	if len(patch) == 0 {
		return nil
	}
	pred, err := predicate(name, where)
	if err != nil {
		return err
	}

	upd := builder().Update(name)
	cols := make([]string, 0, len(patch))
	for k := range patch {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	if err := checkColumns(name, cols...); err != nil {
		return err
	}
	for _, c := range cols {
		upd.Set(c, sqlValue(patch[c]))
	}
	if pred != nil {
		upd.Where(pred)
	}

	query, args := upd.Query()
	if _, err := t.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s: %w", name, err)
	}
	return nil
}

func (t *Tables) Delete(ctx context.Context, name string, where table.Predicate) error {
	pred, err := predicate(name, where)
	if err != nil {
		return err
	}
	del := builder().Delete(name)
	if pred != nil {
		del.Where(pred)
	}
	query, args := del.Query()
	if _, err := t.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func checkColumns(name string, cols ...string) error {
	known, ok := tableColumns[name]
	if !ok {
		return fmt.Errorf("unknown table %q", name)
	}
	for _, c := range cols {
		if !slices.Contains(known, c) {
			return fmt.Errorf("unknown column %q in table %q", c, name)
		}
	}
	return nil
}

// predicate translates a table.Predicate into an ent SQL predicate. An
// empty predicate yields nil.
func predicate(name string, where table.Predicate) (*entsql.Predicate, error) {
	if len(where) == 0 {
		return nil, nil
	}
	preds := make([]*entsql.Predicate, 0, len(where))
	for _, c := range where {
		if err := checkColumns(name, c.Column); err != nil {
			return nil, err
		}
		v := sqlValue(c.Value)
		switch c.Op {
		case table.OpEq:
			preds = append(preds, entsql.EQ(c.Column, v))
		case table.OpNeq:
			preds = append(preds, entsql.NEQ(c.Column, v))
		case table.OpGt:
			preds = append(preds, entsql.GT(c.Column, v))
		case table.OpGte:
			preds = append(preds, entsql.GTE(c.Column, v))
		case table.OpLt:
			preds = append(preds, entsql.LT(c.Column, v))
		case table.OpLte:
			preds = append(preds, entsql.LTE(c.Column, v))
		default:
			return nil, fmt.Errorf("unsupported operator %q", c.Op)
		}
	}
	if len(preds) == 1 {
		return preds[0], nil
	}
	return entsql.And(preds...), nil
}

// sqlValue maps bools to the integers SQLite stores.
func sqlValue(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}

func scanRows(rows *sql.Rows) ([]table.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var out []table.Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		r := make(table.Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				r[c] = string(b)
				continue
			}
			r[c] = vals[i]
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
