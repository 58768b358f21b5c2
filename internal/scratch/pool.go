// Package scratch is the engine's local retry and progress state: the
// per-list "updated" watermark, per-prefix full-hash error accounting,
// and the last list-service poll, all backed by a small SQLite
// database so the engine survives a restart without re-downloading
// chunks it already applied (spec section 4.4, Open Question 2).
package scratch

import (
	"fmt"
	"runtime"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/listguard/urlguard/internal/logger"
)

// Config holds the parameters for opening the scratch database. Path
// is required; all other fields have sensible defaults.
type Config struct {
	// Path is the filesystem path to the SQLite database file. Use
	// ":memory:" for an in-memory database, opened as one shared-cache
	// database for the whole pool; PoolSize must then be 1 since
	// nothing coordinates concurrent writers to it.
	Path string

	// PoolSize is the number of pooled connections. If zero or
	// negative, defaults to max(runtime.NumCPU(), 4).
	PoolSize int
}

// pool is a fixed-size pool of SQLite connections with the pragmas
// the engine's retry bookkeeping needs: WAL for concurrent readers,
// a busy timeout so a writer never errors out from lock contention
// under the engine's per-list concurrency cap.
type pool struct {
	inner *sqlitex.Pool
	path  string
}

func openPool(cfg Config) (*pool, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("scratch: Path is required")
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
		if poolSize < 4 {
			poolSize = 4
		}
	}

	uri := cfg.Path
	if uri == ":memory:" {
		// sqlitex.NewPool rejects the bare ":memory:" DSN outright
		// because it would give every pooled connection its own,
		// unrelated database; the shared-cache URI form is the
		// library's documented way to get one in-memory database
		// across a pool (PoolSize must still be 1 per the Config.Path
		// doc, since nothing here coordinates concurrent writers).
		uri = "file::memory:?mode=memory&cache=shared"
	}

	inner, err := sqlitex.NewPool(uri, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("scratch: opening %s: %w", cfg.Path, err)
	}

	logger.Info.Printf("scratch db opened: %s (pool size %d)\n", cfg.Path, poolSize)

	return &pool{inner: inner, path: cfg.Path}, nil
}

func (p *pool) Close() error {
	if err := p.inner.Close(); err != nil {
		return fmt.Errorf("scratch: closing %s: %w", p.path, err)
	}

	logger.Info.Printf("scratch db closed: %s\n", p.path)

	return nil
}

func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=OFF",
	}

	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("scratch: %s: %w", pragma, err)
		}
	}

	return sqlitex.ExecuteScript(conn, schema, nil)
}

// schema is a single key/value table, matching the persisted-state
// layout of spec section 6 ("updated/<list>", "full_hash_errors/<hex>")
// and the dataFilePath config option's single-file contract: one
// scratch file, arbitrary JSON-valued keys.
const schema = `
CREATE TABLE IF NOT EXISTS scratch (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
);
`
