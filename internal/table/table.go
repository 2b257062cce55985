// Package table defines the row-level persistence interface shared by the
// local SQLite store and the hosted PostgREST backend.
package table

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrNotFound is returned by helpers that expect exactly one row.
var ErrNotFound = errors.New("row not found")

// Row is a single record keyed by column name. Values are scalars:
// string, bool, integer or float types, or nil.
type Row map[string]any

// Op is a comparison operator in a predicate.
type Op string

const (
	OpEq  Op = "eq"
	OpNeq Op = "neq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

// Cond compares one column against a value.
type Cond struct {
	Column string
	Op     Op
	Value  any
}

// Eq returns an equality condition.
func Eq(column string, value any) Cond {
	return Cond{Column: column, Op: OpEq, Value: value}
}

// Neq returns an inequality condition.
func Neq(column string, value any) Cond {
	return Cond{Column: column, Op: OpNeq, Value: value}
}

// Predicate is a conjunction of conditions. An empty predicate matches
// every row.
type Predicate []Cond

// Where builds a predicate from conditions.
func Where(conds ...Cond) Predicate {
	return Predicate(conds)
}

// Query selects rows from a table.
type Query struct {
	Where   Predicate
	Columns []string // empty selects all columns
	OrderBy string
	Desc    bool
	Limit   int // 0 means no limit
}

// Backend is a minimal table store: select, insert, patch and delete by
// predicate.
type Backend interface {
	// Get returns the rows matching q.
	Get(ctx context.Context, table string, q Query) ([]Row, error)

	// Post inserts row and returns the stored representation.
	Post(ctx context.Context, table string, row Row) ([]Row, error)

	// Update patches the columns in patch on every row matching where.
	Update(ctx context.Context, table string, where Predicate, patch Row) error

	// Delete removes every row matching where.
	Delete(ctx context.Context, table string, where Predicate) error
}

// First returns the first row matching q, or ErrNotFound.
func First(ctx context.Context, b Backend, table string, q Query) (Row, error) {
	q.Limit = 1
	rows, err := b.Get(ctx, table, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// String returns the column as a string. Missing and nil values give "".
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the column as an int64, accepting the numeric shapes that
// database drivers and JSON decoding produce.
func (r Row) Int(col string) int64 {
	switch v := r[col].(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

// Bool returns the column as a bool. SQLite stores booleans as integers.
func (r Row) Bool(col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return r.Int(col) != 0
	}
}

// Time parses the column as an RFC 3339 timestamp. Invalid values give
// the zero time.
func (r Row) Time(col string) time.Time {
	if t, ok := r[col].(time.Time); ok {
		return t
	}
	t, err := time.Parse(time.RFC3339Nano, r.String(col))
	if err != nil {
		return time.Time{}
	}
	return t
}

// TimestampLayout is the fixed-width UTC layout rows store times in, so
// stored times sort as strings.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp formats t the way rows store times.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
