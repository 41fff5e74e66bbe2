// Package snapshotdb loads binary SQLite snapshots into a read-only,
// in-process query engine. A Handle loads its snapshot once, on first use,
// and every concurrent first caller waits on that single load.
package snapshotdb

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/monitor/pkg/logger"
	"github.com/okian/monitor/pkg/metrics"
)

var sqliteMagic = []byte("SQLite format 3\x00")

// Loader returns the raw bytes of a snapshot.
type Loader func(ctx context.Context) ([]byte, error)

// Handle is a lazily loaded, memoized snapshot database. Successful loads
// are kept until Reset or Close; failed loads are retried on the next call.
type Handle struct {
	name   string
	load   Loader
	tmpDir string

	group singleflight.Group

	mu   sync.RWMutex
	db   *sql.DB
	path string

	loads int
	log   logger.Logger
}

// New constructs a Handle for the named snapshot.
func New(name string, load Loader, opts ...Option) *Handle {
	h := &Handle{
		name: name,
		load: load,
		log:  logger.Named("snapshotdb"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name returns the snapshot name.
func (h *Handle) Name() string { return h.name }

// Loads returns how many loads completed successfully.
func (h *Handle) Loads() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loads
}

// DB returns the open database, loading it on first use.
func (h *Handle) DB(ctx context.Context) (*sql.DB, error) {
	h.mu.RLock()
	db := h.db
	h.mu.RUnlock()
	if db != nil {
		return db, nil
	}

	v, err, _ := h.group.Do(h.name, func() (any, error) {
		h.mu.RLock()
		db := h.db
		h.mu.RUnlock()
		if db != nil {
			return db, nil
		}
		// One caller cancelling must not fail the others waiting on this load.
		return h.open(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.(*sql.DB), nil
}

func (h *Handle) open(ctx context.Context) (*sql.DB, error) {
	start := time.Now()
	db, path, err := h.materialize(ctx)
	ms := float64(time.Since(start).Milliseconds())
	metrics.RecordDatabaseLoad(h.name, err == nil, ms)
	if err != nil {
		h.log.Warn(ctx, "snapshot load failed", logger.String("database", h.name), logger.Error(err))
		return nil, &LoadError{Database: h.name, Err: err}
	}

	h.mu.Lock()
	h.db, h.path = db, path
	h.loads++
	h.mu.Unlock()

	h.log.Info(ctx, "snapshot loaded",
		logger.String("database", h.name),
		logger.Float64("took_ms", ms))
	return db, nil
}

func (h *Handle) materialize(ctx context.Context) (*sql.DB, string, error) {
	data, err := h.load(ctx)
	if err != nil {
		return nil, "", err
	}
	if !bytes.HasPrefix(data, sqliteMagic) {
		return nil, "", ErrNotSQLite
	}

	f, err := os.CreateTemp(h.tmpDir, "snapshot-*.db")
	if err != nil {
		return nil, "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(path)
		return nil, "", fmt.Errorf("write temp file: %w", firstErr(werr, cerr))
	}

	db, err := sql.Open("sqlite", path+"?_pragma=query_only(1)")
	if err != nil {
		_ = os.Remove(path)
		return nil, "", fmt.Errorf("open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = os.Remove(path)
		return nil, "", fmt.Errorf("ping: %w", err)
	}
	return db, path, nil
}

// Query runs a read-only query and returns every row.
func (h *Handle) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	db, err := h.DB(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", h.name, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%s: columns: %w", h.name, err)
	}
	out := make([]Row, 0)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", h.name, err)
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", h.name, err)
	}
	return out, nil
}

// Reset closes the database and forgets it; the next call reloads.
func (h *Handle) Reset() error {
	h.mu.Lock()
	db, path := h.db, h.path
	h.db, h.path = nil, ""
	h.mu.Unlock()

	if db == nil {
		return nil
	}
	err := db.Close()
	if rerr := os.Remove(path); rerr != nil && !os.IsNotExist(rerr) && err == nil {
		err = rerr
	}
	return err
}

// Close releases the database and its temporary file.
func (h *Handle) Close() error {
	return h.Reset()
}

func firstErr(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}
