package scratch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// DB is the engine's scratch state, safe for concurrent use. It is a
// flat key/value store under the hood (spec section 6's persisted
// state layout); ListState and PrefixErrorState give it typed
// accessors for the two key families the engine actually needs.
type DB struct {
	pool *pool
}

// Open opens (creating if necessary) the scratch database at cfg.Path.
func Open(cfg Config) (*DB, error) {
	p, err := openPool(cfg)
	if err != nil {
		return nil, err
	}

	return &DB{pool: p}, nil
}

func (d *DB) Close() error {
	return d.pool.Close()
}

// Get returns the raw value stored at key, and whether it was found.
func (d *DB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	conn, err := d.pool.inner.Take(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("scratch: take: %w", err)
	}
	defer d.pool.inner.Put(conn)

	var (
		found bool
		value []byte
	)

	err = sqlitex.Execute(conn, `SELECT value FROM scratch WHERE key = ?`, &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			value = make([]byte, stmt.ColumnLen(0))
			stmt.ColumnBytes(0, value)

			return nil
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("scratch: query %q: %w", key, err)
	}

	return value, found, nil
}

// Set stores value at key, overwriting any existing value. The write
// is transactional the way the teacher's WriteCurrentDumpID/
// ReadCurrentDumpID temp-file-then-rename pair guarantees: a crash
// mid-update can never leave a half-written retry record, because
// SQLite's own journal (not a second file) is the atomicity boundary.
func (d *DB) Set(ctx context.Context, key string, value []byte) error {
	conn, err := d.pool.inner.Take(ctx)
	if err != nil {
		return fmt.Errorf("scratch: take: %w", err)
	}
	defer d.pool.inner.Put(conn)

	err = sqlitex.Execute(conn, `
		INSERT INTO scratch (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, &sqlitex.ExecOptions{Args: []any{key, value}})
	if err != nil {
		return fmt.Errorf("scratch: set %q: %w", key, err)
	}

	return nil
}

// Delete removes key, if present.
func (d *DB) Delete(ctx context.Context, key string) error {
	conn, err := d.pool.inner.Take(ctx)
	if err != nil {
		return fmt.Errorf("scratch: take: %w", err)
	}
	defer d.pool.inner.Put(conn)

	if err := sqlitex.Execute(conn, `DELETE FROM scratch WHERE key = ?`, &sqlitex.ExecOptions{Args: []any{key}}); err != nil {
		return fmt.Errorf("scratch: delete %q: %w", key, err)
	}

	return nil
}

func listKey(list string) string { return "updated/" + list }

func prefixErrorKey(hexPrefix string) string { return "full_hash_errors/" + hexPrefix }

// ListState is the per-list retry state of spec section 3: the last
// successful-poll wall time, the service-recommended wait, and the
// consecutive-failure count.
type ListState struct {
	Time   time.Time     `json:"time"`
	Wait   time.Duration `json:"wait"`
	Errors int           `json:"errors"`
}

// ListState returns list's retry state, if any has been recorded.
func (d *DB) ListState(ctx context.Context, list string) (ListState, bool, error) {
	raw, found, err := d.Get(ctx, listKey(list))
	if err != nil || !found {
		return ListState{}, found, err
	}

	var s ListState
	if err := json.Unmarshal(raw, &s); err != nil {
		return ListState{}, false, fmt.Errorf("scratch: decode list state %q: %w", list, err)
	}

	return s, true, nil
}

// SetListState records list's retry state. Per Open Question 2, the
// caller commits this only once the full redirect pipeline for this
// poll has completed successfully (or definitively failed into
// backoff) — never mid-pipeline.
func (d *DB) SetListState(ctx context.Context, list string, s ListState) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("scratch: encode list state %q: %w", list, err)
	}

	return d.Set(ctx, listKey(list), raw)
}

// DeleteListState drops list's retry state.
func (d *DB) DeleteListState(ctx context.Context, list string) error {
	return d.Delete(ctx, listKey(list))
}

// PrefixErrorState is the per-prefix full-hash retry state of spec
// section 3: the timestamp of the triggering error and the
// consecutive-failure count.
type PrefixErrorState struct {
	Timestamp time.Time `json:"timestamp"`
	Errors    int       `json:"errors"`
}

// PrefixErrorState returns hexPrefix's error state, if any.
func (d *DB) PrefixErrorState(ctx context.Context, hexPrefix string) (PrefixErrorState, bool, error) {
	raw, found, err := d.Get(ctx, prefixErrorKey(hexPrefix))
	if err != nil || !found {
		return PrefixErrorState{}, found, err
	}

	var s PrefixErrorState
	if err := json.Unmarshal(raw, &s); err != nil {
		return PrefixErrorState{}, false, fmt.Errorf("scratch: decode prefix error state %q: %w", hexPrefix, err)
	}

	return s, true, nil
}

// SetPrefixErrorState records hexPrefix's error state.
func (d *DB) SetPrefixErrorState(ctx context.Context, hexPrefix string, s PrefixErrorState) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("scratch: encode prefix error state %q: %w", hexPrefix, err)
	}

	return d.Set(ctx, prefixErrorKey(hexPrefix), raw)
}

// DeletePrefixErrorState drops hexPrefix's error state, on a
// successful gethash round trip for that prefix.
func (d *DB) DeletePrefixErrorState(ctx context.Context, hexPrefix string) error {
	return d.Delete(ctx, prefixErrorKey(hexPrefix))
}
