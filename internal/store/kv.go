package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/careerpath/internal/persist"
)

// KV is a persist.Medium over the kv table.
type KV struct {
	db *sql.DB
}

var _ persist.Medium = (*KV)(nil)

func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	query, args := builder().Select("value").
		From(entsql.Table(TableKV)).
		Where(entsql.EQ("key", key)).
		Query()

	var value []byte
	err := k.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persist.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %q: %w", key, err)
	}
	return value, nil
}

func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	query, args := builder().Insert(TableKV).
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC().Format(time.RFC3339Nano)).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := k.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

func (k *KV) Delete(ctx context.Context, key string) error {
	query, args := builder().Delete(TableKV).
		Where(entsql.EQ("key", key)).
		Query()

	if _, err := k.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}
